package domain_test

import (
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSystemSetting_Validate(t *testing.T) {
	tests := []struct {
		name    string
		setting domain.SystemSetting
		wantErr bool
	}{
		{name: "decimal", setting: domain.SystemSetting{Key: "exchange_rate_mad_to_cfa", Value: "63.00", Type: domain.SettingDecimal}},
		{name: "bad decimal", setting: domain.SystemSetting{Key: "exchange_rate_mad_to_cfa", Value: "abc", Type: domain.SettingDecimal}, wantErr: true},
		{name: "integer", setting: domain.SystemSetting{Key: "alert_hour", Value: "8", Type: domain.SettingInteger}},
		{name: "bad integer", setting: domain.SystemSetting{Key: "alert_hour", Value: "8.5", Type: domain.SettingInteger}, wantErr: true},
		{name: "boolean", setting: domain.SystemSetting{Key: "alerts_enabled", Value: "true", Type: domain.SettingBoolean}},
		{name: "bad boolean", setting: domain.SystemSetting{Key: "alerts_enabled", Value: "maybe", Type: domain.SettingBoolean}, wantErr: true},
		{name: "string", setting: domain.SystemSetting{Key: "company_name", Value: "anything", Type: domain.SettingString}},
		{name: "unknown type", setting: domain.SystemSetting{Key: "k", Value: "v", Type: "json"}, wantErr: true},
		{name: "missing key", setting: domain.SystemSetting{Value: "v", Type: domain.SettingString}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setting.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExchangeRateSettingKey(t *testing.T) {
	assert.Equal(t, "exchange_rate_mad_to_cfa", domain.ExchangeRateSettingKey("MAD"))
	assert.Equal(t, "exchange_rate_eur_to_cfa", domain.ExchangeRateSettingKey(" eur "))
}
