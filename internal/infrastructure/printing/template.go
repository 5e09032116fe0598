package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/bakery/backend/internal/domain/pos"
	"github.com/shopspring/decimal"
)

//go:embed templates/receipt.html
var templateFS embed.FS

// receiptView is the data the receipt template renders
type receiptView struct {
	StoreName    string
	OrderNumber  string
	CreatedAt    time.Time
	Voided       bool
	Items        []pos.OrderItem
	Payments     []pos.Payment
	TaxRate      decimal.Decimal
	Subtotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	ChangeAmount decimal.Decimal
	QRCode       template.URL
}

// receiptTemplate parses the embedded receipt template with formatting helpers
func receiptTemplate(money *MoneyFormatter, loc *time.Location) (*template.Template, error) {
	funcs := template.FuncMap{
		"money": money.Format,
		"qty": func(d decimal.Decimal) string {
			return d.String()
		},
		"datetime": func(t time.Time) string {
			return t.In(loc).Format("02 Jan 2006 15:04")
		},
	}
	tmpl, err := template.New("receipt.html").Funcs(funcs).ParseFS(templateFS, "templates/receipt.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}
	return tmpl, nil
}

func executeTemplate(tmpl *template.Template, view receiptView) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return buf.String(), nil
}
