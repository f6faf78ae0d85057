// Package fixedpoint converts decimal prices and sizes to integer ticks at a
// fixed precision of 8 decimals so the matching core can compare and add them
// exactly.
package fixedpoint

import (
	"math"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimals carried by the integer form.
const Precision = 8

var multiplier = int64(math.Pow10(Precision))

// ToLong converts a float value to its integer tick form, rounding to
// Precision decimals.
func ToLong(value float64) int64 {
	return int64(math.Round(value * float64(multiplier)))
}

// ToDouble converts an integer tick value back to a float.
func ToDouble(value int64) float64 {
	return float64(value) / float64(multiplier)
}

// FromDecimal converts an exact decimal (e.g. parsed from a wire string) to
// integer ticks.
func FromDecimal(d decimal.Decimal) int64 {
	return d.Shift(Precision).Round(0).IntPart()
}

// ToDecimal converts integer ticks to an exact decimal.
func ToDecimal(value int64) decimal.Decimal {
	return decimal.New(value, -Precision)
}
