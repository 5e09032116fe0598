package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fractional digits kept by the money and quantity columns. Anything finer
// would be rounded by the database on write.
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 4
)

// FitsScale reports whether d has at most places fractional digits.
// Trailing zeros do not count: 1.500 fits two places.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// ValidateQuantity rejects a quantity that is not positive or that the
// quantity columns cannot hold exactly. what names it in the message.
func ValidateQuantity(what string, q decimal.Decimal) error {
	if !q.IsPositive() {
		return NewDomainError("INVALID_QUANTITY", what+" must be greater than zero")
	}
	if !FitsScale(q, QuantityScale) {
		return NewDomainError("INVALID_QUANTITY", fmt.Sprintf("%s allows at most %d decimal places", what, QuantityScale))
	}
	return nil
}

// ValidatePrice rejects a negative amount or a fraction of a cent
func ValidatePrice(what string, p decimal.Decimal) error {
	if p.IsNegative() {
		return NewDomainError("INVALID_PRICE", what+" cannot be negative")
	}
	if !FitsScale(p, MoneyScale) {
		return NewDomainError("INVALID_PRICE", fmt.Sprintf("%s allows at most %d decimal places", what, MoneyScale))
	}
	return nil
}
