package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSettingReader is a mock type for the SettingReaderSvc interface
type MockSettingReader struct {
	mock.Mock
}

func (m *MockSettingReader) GetSetting(ctx context.Context, key string) (*domain.SystemSetting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemSetting), args.Error(1)
}

func (m *MockSettingReader) ListSettings(ctx context.Context) ([]domain.SystemSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SystemSetting), args.Error(1)
}

func (m *MockSettingReader) GetDecimal(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func newCurrencyWithRates(t *testing.T, rates map[string]string) *MockSettingReader {
	t.Helper()
	settings := new(MockSettingReader)
	for currency, rate := range rates {
		settings.On("GetDecimal", mock.Anything, domain.ExchangeRateSettingKey(currency)).Return(dec(rate), true, nil)
	}
	settings.On("GetDecimal", mock.Anything, mock.Anything).Return(decimal.Zero, false, nil)
	return settings
}

func TestCurrencyService_MadCfa(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCurrencyService(newCurrencyWithRates(t, map[string]string{"MAD": "65.5"}), dec("63"))

	rate, err := svc.GetExchangeRate(ctx)
	require.NoError(t, err)
	assert.True(t, dec("65.5").Equal(rate))

	cfa, err := svc.ConvertMadToCfa(ctx, dec("10.01"))
	require.NoError(t, err)
	assert.Equal(t, "655.66", cfa.StringFixed(2)) // 655.655 rounds half away from zero

	mad, err := svc.ConvertCfaToMad(ctx, dec("1000"))
	require.NoError(t, err)
	assert.Equal(t, "15.27", mad.StringFixed(2))
}

func TestCurrencyService_DefaultRateWhenUnset(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCurrencyService(newCurrencyWithRates(t, nil), dec("63"))

	rate, err := svc.GetExchangeRate(ctx)
	require.NoError(t, err)
	assert.True(t, dec("63").Equal(rate))

	cfa, err := svc.ConvertMadToCfa(ctx, dec("100"))
	require.NoError(t, err)
	assert.Equal(t, "6300.00", cfa.StringFixed(2))
}

func TestCurrencyService_SecondaryCurrency(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCurrencyService(newCurrencyWithRates(t, map[string]string{"EUR": "655.957"}), dec("63"))

	cfa, err := svc.ConvertToCfa(ctx, dec("10"), "eur")
	require.NoError(t, err)
	assert.Equal(t, "6559.57", cfa.StringFixed(2))

	eur, err := svc.ConvertFromCfa(ctx, dec("6559.57"), "EUR")
	require.NoError(t, err)
	assert.Equal(t, "10.00", eur.StringFixed(2))

	// No rate for USD: the amount passes through unchanged.
	usd, err := svc.ConvertToCfa(ctx, dec("12.345"), "USD")
	require.NoError(t, err)
	assert.Equal(t, "12.35", usd.StringFixed(2))

	back, err := svc.ConvertFromCfa(ctx, dec("99"), "USD")
	require.NoError(t, err)
	assert.Equal(t, "99.00", back.StringFixed(2))
}

func TestCurrencyService_Convert(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCurrencyService(newCurrencyWithRates(t, map[string]string{"MAD": "63", "EUR": "655.957"}), dec("63"))

	tests := []struct {
		name     string
		amount   string
		from, to string
		want     string
		wantRate string // empty means no rate
	}{
		{name: "same currency", amount: "100.005", from: "MAD", to: "mad", want: "100.01"},
		{name: "mad to cfa", amount: "100", from: "MAD", to: "CFA", want: "6300.00", wantRate: "63"},
		{name: "cfa to mad", amount: "6300", from: "CFA", to: "MAD", want: "100.00", wantRate: "0.015873"},
		{name: "eur to mad pivots through cfa", amount: "10", from: "EUR", to: "MAD", want: "104.12", wantRate: "10.412016"},
		{name: "unknown currency passes through", amount: "42", from: "USD", to: "MAD", want: "42.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converted, rate, err := svc.Convert(ctx, dec(tt.amount), tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, converted.StringFixed(2))
			if tt.wantRate == "" {
				assert.Nil(t, rate)
				return
			}
			require.NotNil(t, rate)
			assert.Equal(t, tt.wantRate, rate.String())
		})
	}
}

func TestCurrencyService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCurrencyService(newCurrencyWithRates(t, map[string]string{"MAD": "63"}), dec("63"))

	for _, amount := range []string{"0", "0.01", "1", "99.99", "1234.56", "100000.07"} {
		cfa, err := svc.ConvertMadToCfa(ctx, dec(amount))
		require.NoError(t, err)
		mad, err := svc.ConvertCfaToMad(ctx, cfa)
		require.NoError(t, err)
		assert.True(t, mad.Sub(dec(amount)).Abs().LessThanOrEqual(dec("0.01")), "round trip of %s gave %s", amount, mad)
	}
}

func TestCurrencyService_SettingError(t *testing.T) {
	settings := new(MockSettingReader)
	boom := errors.New("settings unavailable")
	settings.On("GetDecimal", mock.Anything, mock.Anything).Return(decimal.Zero, false, boom)
	svc := services.NewCurrencyService(settings, dec("63"))

	_, err := svc.ConvertMadToCfa(context.Background(), dec("1"))
	assert.ErrorIs(t, err, boom)

	_, _, err = svc.Convert(context.Background(), dec("1"), "CFA", "MAD")
	assert.ErrorIs(t, err, boom)
}
