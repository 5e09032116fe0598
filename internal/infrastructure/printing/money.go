package printing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyFormatter formats amounts with the currency symbol and digit grouping
// of a locale, e.g. ₹1,23,456.50 for INR in en-IN.
type MoneyFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewMoneyFormatter creates a formatter for an ISO 4217 code and a BCP 47 locale
func NewMoneyFormatter(currencyCode, locale string) (*MoneyFormatter, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", currencyCode, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	printer := message.NewPrinter(tag)
	return &MoneyFormatter{
		printer: printer,
		symbol:  printer.Sprint(currency.NarrowSymbol(unit)),
	}, nil
}

// Format renders d rounded to 2 places
func (f *MoneyFormatter) Format(d decimal.Decimal) string {
	amount := d.Round(2).InexactFloat64()
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + f.symbol + f.printer.Sprint(number.Decimal(amount, number.Scale(2)))
}

// Symbol returns the currency symbol used
func (f *MoneyFormatter) Symbol() string {
	return f.symbol
}
