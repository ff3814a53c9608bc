package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SettingType tags how a SystemSetting value must be parsed.
type SettingType string

const (
	SettingDecimal SettingType = "decimal"
	SettingInteger SettingType = "integer"
	SettingString  SettingType = "string"
	SettingBoolean SettingType = "boolean"
)

// SystemSetting is a typed key/value configuration row.
type SystemSetting struct {
	Key         string      `json:"key"`
	Value       string      `json:"value"`
	Type        SettingType `json:"type"`
	Description string      `json:"description"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}

// Validate checks that Value parses according to Type.
func (s SystemSetting) Validate() error {
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("setting key is required")
	}
	switch s.Type {
	case SettingDecimal:
		if _, err := decimal.NewFromString(s.Value); err != nil {
			return fmt.Errorf("setting %s: value %q is not a decimal", s.Key, s.Value)
		}
	case SettingInteger:
		if _, err := strconv.ParseInt(s.Value, 10, 64); err != nil {
			return fmt.Errorf("setting %s: value %q is not an integer", s.Key, s.Value)
		}
	case SettingBoolean:
		if _, err := strconv.ParseBool(s.Value); err != nil {
			return fmt.Errorf("setting %s: value %q is not a boolean", s.Key, s.Value)
		}
	case SettingString:
	default:
		return fmt.Errorf("setting %s: unknown type %q", s.Key, s.Type)
	}
	return nil
}

// DecimalValue parses Value as a decimal.
func (s SystemSetting) DecimalValue() (decimal.Decimal, error) {
	return decimal.NewFromString(s.Value)
}

// IntValue parses Value as an integer.
func (s SystemSetting) IntValue() (int64, error) {
	return strconv.ParseInt(s.Value, 10, 64)
}

// BoolValue parses Value as a boolean.
func (s SystemSetting) BoolValue() (bool, error) {
	return strconv.ParseBool(s.Value)
}
