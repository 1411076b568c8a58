// Package money holds the fixed-point arithmetic used for all pricing.
// Amounts are decimals with two fractional digits; conversion to the
// gateway's integer minor unit happens only at the Stripe boundary.
package money

import "github.com/shopspring/decimal"

var centsPerUnit = decimal.NewFromInt(100)

// Round normalizes an amount to two decimal places, half up.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ToCents converts a decimal amount into integer minor units, truncating
// anything past the second decimal.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(centsPerUnit).IntPart()
}

// FromCents converts integer minor units back into a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(centsPerUnit)
}

// WithinOneCent reports whether two amounts agree to at most one minor
// unit once converted, the tolerance allowed for client-side rounding.
func WithinOneCent(a, b decimal.Decimal) bool {
	diff := ToCents(a) - ToCents(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}
