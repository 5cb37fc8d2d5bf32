package domain

import "github.com/shopspring/decimal"

// litres converts a volume to a decimal using the shortest representation of
// v, so 0.05 stays 0.05 and 2 - 0.05 is exactly 1.95.
func litres(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// FormatLitres renders a volume without trailing zeros: 2 -> "2", 1.95 -> "1.95".
func FormatLitres(v float64) string {
	return litres(v).String()
}

// espressosFrom returns how many whole portions of size per fit in have.
// Returns 0 if per is not positive.
func espressosFrom(have, per decimal.Decimal) int64 {
	if !per.IsPositive() || have.IsNegative() {
		return 0
	}
	return have.Div(per).Floor().IntPart()
}
