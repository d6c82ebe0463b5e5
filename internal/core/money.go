// Package core implements the budget state engine: the category and
// breakdown data model, the tolerant currency/expression input parser
// and the derived-metrics aggregation.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCurrency normalizes free-form currency input to a signed decimal.
//
// Currency symbols, thousands separators and whitespace are stripped.
// A minus sign anywhere in the input marks the result negative; the
// sign is detected first and removed along with the rest of the
// decoration, so "-$50", "$-50" and "$50-" all parse to -50.
//
// Examples:
//
//	ParseCurrency("$1,234.50") -> 1234.50, nil
//	ParseCurrency("-$50")      -> -50, nil
//	ParseCurrency("abc")       -> 0, ErrNotNumeric
func ParseCurrency(raw string) (decimal.Decimal, error) {
	negative := strings.ContainsRune(raw, '-')
	cleaned := cleanCurrency(raw)
	if cleaned == "" {
		return decimal.Zero, ErrNotNumeric
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseIncome parses income input. Income is forgiving to a fault: any
// value that does not parse becomes zero rather than an error, and a
// leading run of zero digits is dropped first ("000450" -> 450).
func ParseIncome(raw string) decimal.Decimal {
	negative := strings.ContainsRune(raw, '-')
	cleaned := strings.TrimLeft(cleanCurrency(raw), "0")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		d = d.Neg()
	}
	return d
}

// cleanCurrency strips currency symbols, thousands separators,
// whitespace and sign characters.
func cleanCurrency(raw string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ',', ' ', '\t', '-', '+':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
}

// FormatAmount renders an amount the way the input fields display it:
// two decimal places, thousands separators, sign before the symbol
// ("-$1,234.50").
func FormatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		grouped.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteString(intPart[i : i+3])
	}

	out := "$" + grouped.String() + "." + fracPart
	if d.IsNegative() {
		return "-" + out
	}
	return out
}
