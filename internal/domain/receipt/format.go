package receipt

import "github.com/shopspring/decimal"

// FormatMoney renders a monetary amount with exactly two fractional digits.
// Negative values keep their sign.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatQuantity renders a quantity with no fractional digits
func FormatQuantity(d decimal.Decimal) string {
	return d.StringFixed(0)
}
