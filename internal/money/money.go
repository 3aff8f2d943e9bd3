// Package money provides decimal helpers for cart arithmetic.
//
// Totals are carried at two precisions: a display precision matching the
// currency (typically 2 fractional digits) and a higher calculator precision
// used for intermediates, so tax rates with more significant digits than the
// currency (e.g. 0.07025) do not accumulate rounding error before the final
// display rounding.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the display precision for totals reports.
const DefaultPrecision int32 = 2

// DefaultCalcPrecision is the intermediate precision for calculator steps.
const DefaultCalcPrecision int32 = 4

// Zero is the zero amount.
var Zero = decimal.Zero

// Round rounds half away from zero to the given number of fractional digits.
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	if places < 0 {
		places = 0
	}
	return d.Round(places)
}

// Format renders d as a fixed-point string with exactly the given number of
// fractional digits and no thousands separators.
func Format(d decimal.Decimal, places int32) string {
	if places < 0 {
		places = 0
	}
	return d.StringFixed(places)
}

// Parse converts a decimal string into an amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// MustParse converts a decimal string into an amount and panics on failure.
// Intended for literals in tests and tooling.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Clamp returns zero when d is negative, otherwise d.
func Clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return b
	}
	return a
}
