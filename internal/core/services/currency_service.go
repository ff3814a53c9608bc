package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	moneyPlaces = 2
	ratePlaces  = 6
)

// currencyService converts through CFA using the exchange_rate_{currency}_to_cfa settings.
type currencyService struct {
	BaseService
	settings    portssvc.SettingReaderSvc
	defaultRate decimal.Decimal
}

// NewCurrencyService creates a new currency service. defaultRate is used for
// MAD when the rate setting is missing or inactive.
func NewCurrencyService(settings portssvc.SettingReaderSvc, defaultRate decimal.Decimal, options ...Option) portssvc.CurrencySvcFacade {
	return &currencyService{
		BaseService: newBaseService(options),
		settings:    settings,
		defaultRate: defaultRate,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// rateToCfa returns how many CFA one unit of currency is worth. ok is false
// for a secondary currency with no configured rate.
func (s *currencyService) rateToCfa(ctx context.Context, currency string) (decimal.Decimal, bool, error) {
	currency = domain.NormalizeCurrency(currency)
	if currency == domain.CurrencyCFA {
		return decimal.NewFromInt(1), true, nil
	}

	rate, ok, err := s.settings.GetDecimal(ctx, domain.ExchangeRateSettingKey(currency))
	if err != nil {
		s.LogError(ctx, err, "Failed to read exchange rate", slog.String("currency", currency))
		return decimal.Zero, false, err
	}
	if ok && rate.IsPositive() {
		return rate, true, nil
	}
	if currency == domain.CurrencyMAD {
		return s.defaultRate, true, nil
	}
	return decimal.Zero, false, nil
}

func (s *currencyService) GetExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	rate, _, err := s.rateToCfa(ctx, domain.CurrencyMAD)
	return rate, err
}

func (s *currencyService) ConvertMadToCfa(ctx context.Context, amountMad decimal.Decimal) (decimal.Decimal, error) {
	return s.ConvertToCfa(ctx, amountMad, domain.CurrencyMAD)
}

func (s *currencyService) ConvertCfaToMad(ctx context.Context, amountCfa decimal.Decimal) (decimal.Decimal, error) {
	return s.ConvertFromCfa(ctx, amountCfa, domain.CurrencyMAD)
}

func (s *currencyService) ConvertToCfa(ctx context.Context, amount decimal.Decimal, fromCurrency string) (decimal.Decimal, error) {
	rate, ok, err := s.rateToCfa(ctx, fromCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		s.LogWarn(ctx, "No exchange rate configured, amount left unconverted", slog.String("currency", fromCurrency))
		return amount.Round(moneyPlaces), nil
	}
	return amount.Mul(rate).Round(moneyPlaces), nil
}

func (s *currencyService) ConvertFromCfa(ctx context.Context, amountCfa decimal.Decimal, toCurrency string) (decimal.Decimal, error) {
	rate, ok, err := s.rateToCfa(ctx, toCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		s.LogWarn(ctx, "No exchange rate configured, amount left unconverted", slog.String("currency", toCurrency))
		return amountCfa.Round(moneyPlaces), nil
	}
	return amountCfa.Div(rate).Round(moneyPlaces), nil
}

func (s *currencyService) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, *decimal.Decimal, error) {
	from := domain.NormalizeCurrency(fromCurrency)
	to := domain.NormalizeCurrency(toCurrency)
	if from == to {
		return amount.Round(moneyPlaces), nil, nil
	}

	fromRate, fromOK, err := s.rateToCfa(ctx, from)
	if err != nil {
		return decimal.Zero, nil, err
	}
	toRate, toOK, err := s.rateToCfa(ctx, to)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if !fromOK || !toOK {
		s.LogWarn(ctx, "No exchange rate configured, amount left unconverted",
			slog.String("from", from), slog.String("to", to))
		return amount.Round(moneyPlaces), nil, nil
	}

	// Rounded once, after both rates are applied.
	converted := amount.Mul(fromRate).Div(toRate).Round(moneyPlaces)
	rate := fromRate.Div(toRate).Round(ratePlaces)
	return converted, &rate, nil
}
