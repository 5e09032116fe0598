package printing

import (
	"context"
	"errors"
	"html"
	"strings"
)

// RollWidthMM is the width of thermal receipt rolls
const RollWidthMM = 80

// rollLengthMM is longer than any receipt. Chrome prints one page and the
// blank tail is cut.
const rollLengthMM = 3000

// Page is an HTML document printed onto a continuous roll
type Page struct {
	HTML  string
	Title string
	// WidthMM defaults to RollWidthMM
	WidthMM  float64
	MarginMM float64
}

// PDFRenderer prints pages to PDF. Deadlines come from ctx.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, page Page) ([]byte, error)
	Close() error
}

var (
	ErrEmptyPage     = errors.New("printing: page has no content")
	ErrRenderTimeout = errors.New("printing: render timed out")
	ErrRenderFailed  = errors.New("printing: render failed")
	ErrTemplate      = errors.New("printing: receipt template failed")
)

// document wraps a fragment in a complete UTF-8 document. Complete
// documents are returned unchanged.
func (p Page) document() string {
	lower := strings.ToLower(p.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return p.HTML
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if p.Title != "" {
		b.WriteString("<title>" + html.EscapeString(p.Title) + "</title>")
	}
	b.WriteString("</head><body>" + p.HTML + "</body></html>")
	return b.String()
}

// paper is page geometry in inches, the unit the DevTools print call takes
type paper struct {
	width, height, margin float64
}

func (p Page) paper() paper {
	width := p.WidthMM
	if width <= 0 {
		width = RollWidthMM
	}
	return paper{
		width:  width / mmPerInch,
		height: rollLengthMM / mmPerInch,
		margin: p.MarginMM / mmPerInch,
	}
}

const mmPerInch = 25.4
