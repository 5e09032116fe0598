package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
		{"invalid value returns DESC", "sideways", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE orders;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		expected string
	}{
		{"empty returns default", "", OrderSortFields, "created_at"},
		{"whitelisted field", "total_amount", OrderSortFields, "total_amount"},
		{"field of another table", "sku", OrderSortFields, "created_at"},
		{"injection attempt", "id; DROP TABLE orders;--", OrderSortFields, "created_at"},
		{"case sensitive", "NAME", CustomerSortFields, "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, "created_at"))
		})
	}
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, defaultPageSize, normalizePageSize(0))
	assert.Equal(t, 5, normalizePageSize(5))
	assert.Equal(t, maxPageSize, normalizePageSize(1000))
}
