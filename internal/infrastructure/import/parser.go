// Package csvimport reads spreadsheet exports row by row and checks every
// cell against a column schema before anything is written.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// utf8Probe is how much of the file is checked for a valid encoding
const utf8Probe = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser reads a header row followed by data rows. Header names are matched
// case-insensitively.
type Parser struct {
	reader  *csv.Reader
	headers []string
	index   map[string]int
	rows    int
}

// ParserOption configures a Parser
type ParserOption func(*csv.Reader)

// WithDelimiter sets the field separator, ',' by default
func WithDelimiter(d rune) ParserOption {
	return func(r *csv.Reader) {
		r.Comma = d
	}
}

// NewParser strips a UTF-8 byte order mark, rejects other encodings and
// reads the header row.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	buf := bufio.NewReaderSize(r, utf8Probe)

	head, err := buf.Peek(len(utf8BOM))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(head) == len(utf8BOM) && string(head) == string(utf8BOM) {
		_, _ = buf.Discard(len(utf8BOM))
	}

	probe, err := buf.Peek(utf8Probe)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(strings.TrimSpace(string(probe))) == 0 {
		return nil, ErrEmptyFile
	}
	if !validUTF8Prefix(probe, len(probe) == utf8Probe) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(reader)
	}

	p := &Parser{reader: reader, index: make(map[string]int)}
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// validUTF8Prefix tolerates a multi-byte rune cut off by the probe boundary
func validUTF8Prefix(b []byte, truncated bool) bool {
	if utf8.Valid(b) {
		return true
	}
	if !truncated {
		return false
	}
	for cut := 1; cut < utf8.UTFMax && cut < len(b); cut++ {
		if !utf8.FullRune(b[len(b)-cut:]) && utf8.Valid(b[:len(b)-cut]) {
			return true
		}
	}
	return false
}

func (p *Parser) readHeader() error {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		if _, dup := p.index[name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateHeader, name)
		}
		p.headers[i] = name
		p.index[name] = i
	}
	if len(p.index) == 0 {
		return ErrMissingHeader
	}
	return nil
}

// Headers returns the normalized header names in file order
func (p *Parser) Headers() []string {
	return p.headers
}

// Missing lists the required columns absent from the header
func (p *Parser) Missing(required ...string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := p.index[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Rows returns how many data rows have been read so far
func (p *Parser) Rows() int {
	return p.rows
}

// Row is one data record keyed by header name
type Row struct {
	// Line is where the record starts in the file, header included
	Line   int
	values map[string]string
}

// Get returns the trimmed cell for column, empty when absent
func (r *Row) Get(column string) string {
	return r.values[strings.ToLower(column)]
}

// Empty reports whether every cell is blank
func (r *Row) Empty() bool {
	for _, v := range r.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next non-blank row or io.EOF. A malformed record is
// returned as a *csv.ParseError and reading may continue after it.
func (p *Parser) Next() (*Row, error) {
	for {
		record, err := p.reader.Read()
		if err != nil {
			return nil, err
		}
		line, _ := p.reader.FieldPos(0)

		row := &Row{Line: line, values: make(map[string]string, len(p.index))}
		for name, i := range p.index {
			if i < len(record) {
				row.values[name] = strings.TrimSpace(record[i])
			}
		}
		if row.Empty() {
			continue
		}
		p.rows++
		return row, nil
	}
}
