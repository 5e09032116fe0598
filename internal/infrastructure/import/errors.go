package csvimport

import (
	"errors"
	"fmt"
)

// File level failures
var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")
	ErrMissingHeader   = errors.New("CSV file has no header row")
	ErrDuplicateHeader = errors.New("CSV header repeats a column")
)

// Row error codes
const (
	CodeRequired        = "REQUIRED"
	CodeInvalidNumber   = "INVALID_NUMBER"
	CodeInvalidInteger  = "INVALID_INTEGER"
	CodeTooLong         = "TOO_LONG"
	CodeOutOfRange      = "OUT_OF_RANGE"
	CodeDuplicateInFile = "DUPLICATE_IN_FILE"
	CodeMalformedRow    = "MALFORMED_ROW"
)

// DefaultErrorLimit caps how many row errors are kept for the response
const DefaultErrorLimit = 100

// RowError pins a problem to a line and, when known, a column
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Errors collects row errors up to a limit while still counting the rest
type Errors struct {
	items []RowError
	limit int
	total int
	rows  map[int]struct{}
}

// NewErrors creates a collection keeping at most limit entries
func NewErrors(limit int) *Errors {
	if limit <= 0 {
		limit = DefaultErrorLimit
	}
	return &Errors{limit: limit, rows: make(map[int]struct{})}
}

// Add records e
func (c *Errors) Add(e RowError) {
	c.total++
	c.rows[e.Row] = struct{}{}
	if len(c.items) < c.limit {
		c.items = append(c.items, e)
	}
}

// List returns the kept errors in the order they were added
func (c *Errors) List() []RowError {
	return c.items
}

// Total counts every error, kept or not
func (c *Errors) Total() int {
	return c.total
}

// Rows counts distinct lines with at least one error
func (c *Errors) Rows() int {
	return len(c.rows)
}

// HasRow reports whether line already failed
func (c *Errors) HasRow(line int) bool {
	_, ok := c.rows[line]
	return ok
}

// Truncated reports whether errors were dropped because of the limit
func (c *Errors) Truncated() bool {
	return c.total > len(c.items)
}

// Empty reports whether nothing was recorded
func (c *Errors) Empty() bool {
	return c.total == 0
}
