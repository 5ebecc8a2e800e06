// Package money provides fixed-point arithmetic helpers for monetary values.
// Amounts are carried as shopspring decimals with 4 fractional digits and are
// never converted through floating point.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// IsPositive reports whether amount is strictly greater than zero.
func IsPositive(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero)
}

// Percent returns part of whole as a percentage rounded half-up to two
// decimal places. A non-positive whole yields zero instead of a division error.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, 2)
}

// Sum adds the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
