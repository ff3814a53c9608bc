package services_test

import (
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type SettingServiceTestSuite struct {
	ledgerSuite
}

func TestSettingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingServiceTestSuite))
}

func (s *SettingServiceTestSuite) TestDefaultRateIsSeededOnce() {
	key := domain.ExchangeRateSettingKey(domain.CurrencyMAD)
	rate, ok, err := s.svc.Setting.GetDecimal(s.ctx, key)
	s.Require().NoError(err)
	s.True(ok)
	s.assertDecimal("63", rate)

	_, err = s.svc.Setting.UpsertSetting(s.ctx, key, dto.UpsertSettingRequest{Value: "65.5", Type: domain.SettingDecimal}, actorID)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Setting.EnsureDefaultExchangeRate(s.ctx, dec("63"), actorID))

	rate, err = s.svc.Currency.GetExchangeRate(s.ctx)
	s.Require().NoError(err)
	s.assertDecimal("65.5", rate)
}

func (s *SettingServiceTestSuite) TestGetDecimalIgnoresUnusableSettings() {
	inactive := false
	_, err := s.svc.Setting.UpsertSetting(s.ctx, "exchange_rate_eur_to_cfa", dto.UpsertSettingRequest{Value: "655.957", Type: domain.SettingDecimal, IsActive: &inactive}, actorID)
	s.Require().NoError(err)
	_, err = s.svc.Setting.UpsertSetting(s.ctx, "company_name", dto.UpsertSettingRequest{Value: "Cargo", Type: domain.SettingString}, actorID)
	s.Require().NoError(err)

	for _, key := range []string{"exchange_rate_eur_to_cfa", "company_name", "missing"} {
		_, ok, err := s.svc.Setting.GetDecimal(s.ctx, key)
		s.Require().NoError(err)
		s.False(ok, key)
	}

	settings, err := s.svc.Setting.ListSettings(s.ctx)
	s.Require().NoError(err)
	s.Len(settings, 3)
}

func (s *SettingServiceTestSuite) TestUpsertValidation() {
	tests := []struct {
		name string
		key  string
		req  dto.UpsertSettingRequest
	}{
		{name: "zero rate", key: "exchange_rate_mad_to_cfa", req: dto.UpsertSettingRequest{Value: "0", Type: domain.SettingDecimal}},
		{name: "negative rate", key: "exchange_rate_usd_to_cfa", req: dto.UpsertSettingRequest{Value: "-600", Type: domain.SettingDecimal}},
		{name: "not a decimal", key: "exchange_rate_mad_to_cfa", req: dto.UpsertSettingRequest{Value: "abc", Type: domain.SettingDecimal}},
		{name: "not an integer", key: "page_size", req: dto.UpsertSettingRequest{Value: "1.5", Type: domain.SettingInteger}},
		{name: "unknown type", key: "flag", req: dto.UpsertSettingRequest{Value: "x", Type: "json"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Setting.UpsertSetting(s.ctx, tt.key, tt.req, actorID)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	rate, err := s.svc.Currency.GetExchangeRate(s.ctx)
	s.Require().NoError(err)
	s.assertDecimal("63", rate)
}
