package dto

import "github.com/SscSPs/cargo_ledger/internal/core/domain"

// UpsertSettingRequest creates or replaces a system setting.
type UpsertSettingRequest struct {
	Value       string             `json:"value" binding:"required"`
	Type        domain.SettingType `json:"type" binding:"required,oneof=decimal integer string boolean"`
	Description string             `json:"description"`
	IsActive    *bool              `json:"isActive"` // Defaults to true
}

// ListSettingsResponse wraps the list of settings.
type ListSettingsResponse struct {
	Settings []domain.SystemSetting `json:"settings"`
}

// ExchangeRateResponse is the current MAD to CFA rate.
type ExchangeRateResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rate string `json:"rate"`
}
