package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

func (s *Store) FindSettingByKey(ctx context.Context, key string) (*domain.SystemSetting, error) {
	var found domain.SystemSetting
	err := s.view(ctx, func(st *state) error {
		setting, ok := st.settings[key]
		if !ok {
			return apperrors.NewNotFoundError("setting " + key)
		}
		found = setting
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) ListSettings(ctx context.Context) ([]domain.SystemSetting, error) {
	result := make([]domain.SystemSetting, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, setting := range st.settings {
			result = append(result, setting)
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (s *Store) UpsertSetting(ctx context.Context, setting domain.SystemSetting) error {
	return s.update(ctx, func(st *state) error {
		if existing, ok := st.settings[setting.Key]; ok {
			setting.CreatedAt = existing.CreatedAt
			setting.CreatedBy = existing.CreatedBy
		}
		st.settings[setting.Key] = setting
		return nil
	})
}
