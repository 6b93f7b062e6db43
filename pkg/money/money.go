// Package money parses and formats Brazilian currency amounts such as
// "-R$ 1.234,56".
package money

import (
	"regexp"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// BRL is the ISO-4217 code used for display.
const BRL = "BRL"

var (
	currencySymbolRe = regexp.MustCompile(`(?i)r\$`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// Clean strips the currency symbol and every whitespace character but keeps
// thousands dots and the decimal comma: "-R$ 1.234,56" -> "-1.234,56".
func Clean(s string) string {
	s = currencySymbolRe.ReplaceAllString(s, "")
	return whitespaceRe.ReplaceAllString(s, "")
}

// Parse converts a Brazilian formatted amount into a decimal. The second
// return value is false when s is empty or not a number; the decimal is zero
// in that case.
func Parse(s string) (decimal.Decimal, bool) {
	s = Clean(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParsePtr is Parse for optional amounts: nil input or unparseable text
// gives nil.
func ParsePtr(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d, ok := Parse(*s)
	if !ok {
		return nil
	}
	return &d
}

// Cents converts an amount to integer minor units, rounding half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// Format renders an amount the way statements print it, e.g. "R$1.234,56".
func Format(d decimal.Decimal) string {
	return gomoney.New(Cents(d), BRL).Display()
}
