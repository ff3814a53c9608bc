package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// settingService implements the SettingSvcFacade interface
type settingService struct {
	BaseService
	settingRepo portsrepo.SettingRepositoryFacade
}

// NewSettingService creates a new setting service.
func NewSettingService(repo portsrepo.SettingRepositoryFacade, options ...Option) portssvc.SettingSvcFacade {
	return &settingService{
		BaseService: newBaseService(options),
		settingRepo: repo,
	}
}

var _ portssvc.SettingSvcFacade = (*settingService)(nil)

func (s *settingService) GetSetting(ctx context.Context, key string) (*domain.SystemSetting, error) {
	return s.settingRepo.FindSettingByKey(ctx, key)
}

func (s *settingService) ListSettings(ctx context.Context) ([]domain.SystemSetting, error) {
	return s.settingRepo.ListSettings(ctx)
}

func (s *settingService) GetDecimal(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	setting, err := s.settingRepo.FindSettingByKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	if !setting.IsActive || setting.Type != domain.SettingDecimal {
		return decimal.Zero, false, nil
	}
	value, err := setting.DecimalValue()
	if err != nil {
		s.LogWarn(ctx, "Decimal setting holds an unparsable value", slog.String("key", key), slog.String("value", setting.Value))
		return decimal.Zero, false, nil
	}
	return value, true, nil
}

func (s *settingService) UpsertSetting(ctx context.Context, key string, req dto.UpsertSettingRequest, userID string) (*domain.SystemSetting, error) {
	now := s.Now()
	setting := domain.SystemSetting{
		Key:         key,
		Value:       req.Value,
		Type:        req.Type,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	if req.IsActive != nil {
		setting.IsActive = *req.IsActive
	}
	if err := setting.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if setting.Type == domain.SettingDecimal {
		if value, _ := setting.DecimalValue(); strings.HasPrefix(key, "exchange_rate_") && !value.IsPositive() {
			return nil, apperrors.NewValidationError("exchange rates must be positive")
		}
	}

	if err := s.settingRepo.UpsertSetting(ctx, setting); err != nil {
		s.LogError(ctx, err, "Failed to save setting", slog.String("key", key))
		return nil, err
	}

	s.LogInfo(ctx, "Setting saved", slog.String("key", key), slog.String("value", setting.Value))
	return s.settingRepo.FindSettingByKey(ctx, key)
}

func (s *settingService) EnsureDefaultExchangeRate(ctx context.Context, rate decimal.Decimal, userID string) error {
	key := domain.ExchangeRateSettingKey(domain.CurrencyMAD)
	_, err := s.settingRepo.FindSettingByKey(ctx, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	_, err = s.UpsertSetting(ctx, key, dto.UpsertSettingRequest{
		Value:       rate.StringFixed(2),
		Type:        domain.SettingDecimal,
		Description: "MAD to CFA exchange rate",
	}, userID)
	return err
}
