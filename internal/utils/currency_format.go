package utils

import (
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with the 2-place money granularity and its currency.
// Example: amount 1250.5 with MAD returns "1250.50 MAD"
func FormatMoney(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}
