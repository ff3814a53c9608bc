package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// CurrencySvcFacade converts amounts between CFA, MAD and secondary currencies.
// Every result is rounded to 2 decimal places. Conversions involving a
// secondary currency with no configured rate return the input unchanged.
type CurrencySvcFacade interface {
	// GetExchangeRate returns the current MAD to CFA rate.
	GetExchangeRate(ctx context.Context) (decimal.Decimal, error)

	ConvertMadToCfa(ctx context.Context, amountMad decimal.Decimal) (decimal.Decimal, error)
	ConvertCfaToMad(ctx context.Context, amountCfa decimal.Decimal) (decimal.Decimal, error)
	ConvertToCfa(ctx context.Context, amount decimal.Decimal, fromCurrency string) (decimal.Decimal, error)
	ConvertFromCfa(ctx context.Context, amountCfa decimal.Decimal, toCurrency string) (decimal.Decimal, error)

	// Convert pivots through CFA. The returned rate is the effective from-to rate,
	// or nil when the currencies are equal or no rate applied.
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, *decimal.Decimal, error)
}
