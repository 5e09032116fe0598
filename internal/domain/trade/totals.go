package trade

import (
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the order tax percentage used when none is given
var DefaultTaxRate = decimal.NewFromInt(18)

var hundred = decimal.NewFromInt(100)

// Totals are the stored money figures of an order
type Totals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// Line is the minimum a priced line needs for totals
type Line interface {
	LineTotal() decimal.Decimal
}

// ComputeTotals applies taxRate percent to the sum of the lines. Each line
// is rounded to cents before summing, so the subtotal always equals the sum
// of the stored line totals.
func ComputeTotals[L Line](lines []L, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal().Round(shared.MoneyScale))
	}
	tax := subtotal.Mul(taxRate).Div(hundred).Round(2)
	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: subtotal.Add(tax),
	}
}
