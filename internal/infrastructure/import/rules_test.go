package csvimport

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRules() []FieldRule {
	return []FieldRule{
		Field("sku").Required().MaxLength(5).Unique().Build(),
		Field("price").Required().Decimal().Min(decimal.Zero).Build(),
		Field("shelf_life_days").Int().Min(decimal.Zero).Max(decimal.NewFromInt(365)).Build(),
	}
}

func TestValidator_Check(t *testing.T) {
	input := "sku,price,shelf_life_days\n" +
		"SD-01,4.50,3\n" +
		",abc,\n" +
		"LONG-SKU,-1,1.5\n" +
		"sd-01,2,400\n"

	p, err := NewParser(strings.NewReader(input))
	require.NoError(t, err)

	errs := NewErrors(0)
	v := NewValidator(productRules(), errs)

	var passed []int
	for _, row := range readAll(t, p) {
		if v.Check(row) {
			passed = append(passed, row.Line)
		}
	}

	assert.Equal(t, []int{2}, passed)
	assert.Equal(t, 3, errs.Rows())

	type key struct {
		row    int
		column string
		code   string
	}
	var got []key
	for _, e := range errs.List() {
		got = append(got, key{e.Row, e.Column, e.Code})
	}
	assert.Equal(t, []key{
		{3, "sku", CodeRequired},
		{3, "price", CodeInvalidNumber},
		{4, "sku", CodeTooLong},
		{4, "price", CodeOutOfRange},
		{4, "shelf_life_days", CodeInvalidInteger},
		{5, "sku", CodeDuplicateInFile},
		{5, "shelf_life_days", CodeOutOfRange},
	}, got)
	assert.Contains(t, errs.List()[5].Message, "row 2")
}

func TestErrors_Limit(t *testing.T) {
	errs := NewErrors(2)
	for i := 1; i <= 3; i++ {
		errs.Add(RowError{Row: i, Code: CodeRequired, Message: "is required"})
	}

	assert.Len(t, errs.List(), 2)
	assert.Equal(t, 3, errs.Total())
	assert.True(t, errs.Truncated())
	assert.True(t, errs.HasRow(3))
	assert.False(t, errs.Empty())
}

func TestRowError_Error(t *testing.T) {
	assert.Equal(t, `row 4, column "sku": is required`, RowError{Row: 4, Column: "sku", Message: "is required"}.Error())
	assert.Equal(t, "row 9: bad quote", RowError{Row: 9, Message: "bad quote"}.Error())
}
