package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Kind is the type a cell must parse as
type Kind int

// Cell kinds
const (
	KindString Kind = iota
	KindDecimal
	KindInt
)

// FieldRule describes one column of a schema
type FieldRule struct {
	Column   string
	Kind     Kind
	Required bool
	MaxLen   int
	Min      *decimal.Decimal
	Max      *decimal.Decimal
	// Unique rejects repeats within the file, compared case-insensitively
	Unique bool
}

// FieldRuleBuilder builds a FieldRule fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for column
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: strings.ToLower(column)}}
}

func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Kind = KindDecimal
	return b
}

func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Kind = KindInt
	return b
}

func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLen = n
	return b
}

// Min applies to decimal and integer cells
func (b *FieldRuleBuilder) Min(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.Min = &v
	return b
}

// Max applies to decimal and integer cells
func (b *FieldRuleBuilder) Max(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.Max = &v
	return b
}

func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// Validator checks rows against a set of rules and records failures
type Validator struct {
	rules []FieldRule
	errs  *Errors
	seen  map[string]map[string]int // column -> folded value -> first line
}

// NewValidator checks rows against rules, reporting into errs
func NewValidator(rules []FieldRule, errs *Errors) *Validator {
	seen := make(map[string]map[string]int)
	for _, r := range rules {
		if r.Unique {
			seen[r.Column] = make(map[string]int)
		}
	}
	return &Validator{rules: rules, errs: errs, seen: seen}
}

// Check validates every rule and returns false when any failed
func (v *Validator) Check(row *Row) bool {
	ok := true
	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if err := v.checkCell(rule, value); err != nil {
			err.Row = row.Line
			v.errs.Add(*err)
			ok = false
			continue
		}
		if rule.Unique && value != "" {
			key := strings.ToLower(value)
			if first, dup := v.seen[rule.Column][key]; dup {
				v.errs.Add(RowError{
					Row:     row.Line,
					Column:  rule.Column,
					Code:    CodeDuplicateInFile,
					Message: fmt.Sprintf("repeats the value on row %d", first),
					Value:   value,
				})
				ok = false
				continue
			}
			v.seen[rule.Column][key] = row.Line
		}
	}
	return ok
}

func (v *Validator) checkCell(rule FieldRule, value string) *RowError {
	fail := func(code, msg string) *RowError {
		return &RowError{Column: rule.Column, Code: code, Message: msg, Value: value}
	}

	if value == "" {
		if rule.Required {
			return fail(CodeRequired, "is required")
		}
		return nil
	}
	if rule.MaxLen > 0 && utf8.RuneCountInString(value) > rule.MaxLen {
		return fail(CodeTooLong, fmt.Sprintf("must be at most %d characters", rule.MaxLen))
	}

	var n decimal.Decimal
	switch rule.Kind {
	case KindString:
		return nil
	case KindDecimal:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fail(CodeInvalidNumber, "must be a number")
		}
		n = d
	case KindInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fail(CodeInvalidInteger, "must be a whole number")
		}
		n = decimal.NewFromInt(int64(i))
	}

	if rule.Min != nil && n.LessThan(*rule.Min) {
		return fail(CodeOutOfRange, fmt.Sprintf("must be at least %s", rule.Min.String()))
	}
	if rule.Max != nil && n.GreaterThan(*rule.Max) {
		return fail(CodeOutOfRange, fmt.Sprintf("must be at most %s", rule.Max.String()))
	}
	return nil
}
