// Package core provides money parsing and handling utilities.
//
// Amounts are kept as exact decimals exactly as the user typed them;
// rounding to centavos only happens when a value is formatted for display.
package core

import (
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest amount accepted from input: one trillion reais.
var MaxAmount = decimal.New(1, 12)

// ParseAmount converts a user-typed decimal string into an exact decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Signs, exponents and grouping separators are rejected, so the result is
// always a non-negative amount. Amounts above MaxAmount are rejected with
// ErrAmountTooLarge.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.345, nil (kept as given)
//	ParseAmount("0")      -> 0, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart != "" {
		intPart += "." + fracPart
	}
	d, err := decimal.NewFromString(intPart)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return d, nil
}

// Cents rounds an amount half away from zero to whole centavos. The result
// is only meaningful when FitsCents(d) holds.
func Cents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// FitsCents reports whether d in centavos fits an int64.
func FitsCents(d decimal.Decimal) bool {
	return d.Round(2).Shift(2).Abs().LessThanOrEqual(maxCents)
}
