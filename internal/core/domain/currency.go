package domain

import (
	"fmt"
	"strings"
)

// CurrencyCFA and CurrencyMAD are the two first-class currencies of the ledger.
// Any other code is treated as a secondary currency with a best-effort rate.
const (
	CurrencyCFA = "CFA"
	CurrencyMAD = "MAD"
)

// IsFirstClassCurrency reports whether code is CFA or MAD.
func IsFirstClassCurrency(code string) bool {
	return code == CurrencyCFA || code == CurrencyMAD
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ExchangeRateSettingKey returns the setting key holding the rate of currency to CFA,
// e.g. "exchange_rate_mad_to_cfa".
func ExchangeRateSettingKey(currency string) string {
	return fmt.Sprintf("exchange_rate_%s_to_cfa", strings.ToLower(NormalizeCurrency(currency)))
}
