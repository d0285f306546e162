package money

import "github.com/shopspring/decimal"

// Format renders an amount held in minor units as a fixed-point string with
// exponent fractional digits, e.g. Format(12345, 2) == "123.45".
func Format(amount int64, exponent int32) string {
	if exponent <= 0 {
		return decimal.NewFromInt(amount).String()
	}
	return decimal.New(amount, -exponent).StringFixed(exponent)
}
