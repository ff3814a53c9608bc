package repositories

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// SettingReader defines read operations for system settings
type SettingReader interface {
	// FindSettingByKey retrieves a setting. Inactive settings are returned too.
	FindSettingByKey(ctx context.Context, key string) (*domain.SystemSetting, error)

	// ListSettings retrieves all settings ordered by key.
	ListSettings(ctx context.Context) ([]domain.SystemSetting, error)
}

// SettingWriter defines write operations for system settings
type SettingWriter interface {
	// UpsertSetting creates or replaces a setting by key.
	UpsertSetting(ctx context.Context, setting domain.SystemSetting) error
}

// SettingRepositoryFacade combines all setting-related repository interfaces
type SettingRepositoryFacade interface {
	SettingReader
	SettingWriter
}
