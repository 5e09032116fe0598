package csvimport

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, p *Parser) []*Row {
	t.Helper()
	var rows []*Row
	for {
		row, err := p.Next()
		if errors.Is(err, io.EOF) {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestNewParser(t *testing.T) {
	t.Run("normalizes headers", func(t *testing.T) {
		p, err := NewParser(strings.NewReader(" SKU ,Name,Selling_Price\nSD-01,Sourdough,4.50\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"sku", "name", "selling_price"}, p.Headers())
		assert.Empty(t, p.Missing("sku", "NAME"))
		assert.Equal(t, []string{"unit"}, p.Missing("sku", "unit"))
	})

	t.Run("strips byte order mark", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("\xEF\xBB\xBFsku,name\nSD-01,Sourdough\n"))
		require.NoError(t, err)
		assert.Equal(t, "sku", p.Headers()[0])
	})

	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "", ErrEmptyFile},
		{"blank", "  \n\n", ErrEmptyFile},
		{"latin-1", "sku,name\nSD-01,Cr\xe8me\n", ErrInvalidEncoding},
		{"repeated column", "sku,name,SKU\n", ErrDuplicateHeader},
		{"header of blanks", ",,\n", ErrMissingHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParser_Next(t *testing.T) {
	input := "sku,name,unit\n" +
		"SD-01, Sourdough ,loaf\n" +
		",,\n" +
		"CR-02,\"Croissant,\nbutter\"\n" +
		"BG-03,Bagel,pcs,extra\n"

	p, err := NewParser(strings.NewReader(input))
	require.NoError(t, err)

	rows := readAll(t, p)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Sourdough", rows[0].Get("name"))
	assert.Equal(t, "loaf", rows[0].Get("UNIT"))

	// the blank row is skipped but still counted in line numbers
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "Croissant,\nbutter", rows[1].Get("name"))
	assert.Empty(t, rows[1].Get("unit"))

	assert.Equal(t, 6, rows[2].Line)
	assert.Equal(t, "pcs", rows[2].Get("unit"))
	assert.Equal(t, 3, p.Rows())
}

func TestParser_WithDelimiter(t *testing.T) {
	p, err := NewParser(strings.NewReader("sku;selling_price\nSD-01;4,50\n"), WithDelimiter(';'))
	require.NoError(t, err)

	rows := readAll(t, p)
	require.Len(t, rows, 1)
	assert.Equal(t, "4,50", rows[0].Get("selling_price"))
}

func TestValidUTF8Prefix(t *testing.T) {
	euro := []byte("€") // three bytes
	assert.True(t, validUTF8Prefix(append([]byte("ab"), euro[:2]...), true))
	assert.False(t, validUTF8Prefix(append([]byte("ab"), euro[:2]...), false))
	assert.False(t, validUTF8Prefix([]byte("ab\xffcd"), true))
}
