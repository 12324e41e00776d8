package transaction

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Cents converts an amount to integer minor units, rounding half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FromCents converts integer minor units back to an exact two-place amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
