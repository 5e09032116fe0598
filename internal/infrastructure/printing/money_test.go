package printing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFormatter(t *testing.T) {
	t.Run("us dollars", func(t *testing.T) {
		f, err := NewMoneyFormatter("USD", "en-US")
		require.NoError(t, err)
		assert.Equal(t, "$", f.Symbol())
		assert.Equal(t, "$1,234.50", f.Format(decimal.RequireFromString("1234.5")))
		assert.Equal(t, "$0.00", f.Format(decimal.Zero))
		assert.Equal(t, "-$3.46", f.Format(decimal.RequireFromString("-3.456")))
	})

	t.Run("rupees keep two decimals", func(t *testing.T) {
		f, err := NewMoneyFormatter("INR", "en-IN")
		require.NoError(t, err)
		assert.NotEmpty(t, f.Symbol())
		assert.Contains(t, f.Format(decimal.NewFromInt(413)), "413.00")
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		_, err := NewMoneyFormatter("XX", "en-US")
		assert.Error(t, err)
	})

	t.Run("rejects malformed locale", func(t *testing.T) {
		_, err := NewMoneyFormatter("USD", "not a locale!")
		assert.Error(t, err)
	})
}
