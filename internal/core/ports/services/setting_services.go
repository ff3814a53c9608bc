package services

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// SettingReaderSvc defines read operations on system settings
type SettingReaderSvc interface {
	GetSetting(ctx context.Context, key string) (*domain.SystemSetting, error)
	ListSettings(ctx context.Context) ([]domain.SystemSetting, error)

	// GetDecimal returns the value of an active decimal setting; ok is false when
	// the setting is missing, inactive or not a decimal.
	GetDecimal(ctx context.Context, key string) (value decimal.Decimal, ok bool, err error)
}

// SettingWriterSvc defines write operations on system settings
type SettingWriterSvc interface {
	UpsertSetting(ctx context.Context, key string, req dto.UpsertSettingRequest, userID string) (*domain.SystemSetting, error)

	// EnsureDefaultExchangeRate creates the MAD to CFA rate setting when it does not exist yet.
	EnsureDefaultExchangeRate(ctx context.Context, rate decimal.Decimal, userID string) error
}

// SettingSvcFacade combines all setting-related service interfaces
type SettingSvcFacade interface {
	SettingReaderSvc
	SettingWriterSvc
}
