package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

func (s *Store) SaveWave(ctx context.Context, wave domain.Wave) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.waves[wave.WaveID]; exists {
			return apperrors.ErrDuplicate
		}
		st.waves[wave.WaveID] = wave
		return nil
	})
}

func (s *Store) UpdateWave(ctx context.Context, wave domain.Wave) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.waves[wave.WaveID]; !exists {
			return apperrors.NewNotFoundError("wave " + wave.WaveID)
		}
		st.waves[wave.WaveID] = wave
		return nil
	})
}

func (s *Store) FindWaveByID(ctx context.Context, waveID string) (*domain.Wave, error) {
	var found domain.Wave
	err := s.view(ctx, func(st *state) error {
		wave, ok := st.waves[waveID]
		if !ok {
			return apperrors.NewNotFoundError("wave " + waveID)
		}
		found = wave
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) FindWaveByIDForUpdate(ctx context.Context, waveID string) (*domain.Wave, error) {
	return s.FindWaveByID(ctx, waveID)
}

func (s *Store) ListWaves(ctx context.Context, kind *domain.WaveKind) ([]domain.Wave, error) {
	result := make([]domain.Wave, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, wave := range st.waves {
			if kind == nil || wave.Kind == *kind {
				result = append(result, wave)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].WaveID > result[j].WaveID
	})
	return result, nil
}

func (s *Store) SaveLeg(ctx context.Context, leg domain.Leg) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.legs[leg.LegID]; exists {
			return apperrors.ErrDuplicate
		}
		st.legs[leg.LegID] = leg
		return nil
	})
}

func (s *Store) UpdateLeg(ctx context.Context, leg domain.Leg) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.legs[leg.LegID]; !exists {
			return apperrors.NewNotFoundError("leg " + leg.LegID)
		}
		st.legs[leg.LegID] = leg
		return nil
	})
}

func (s *Store) FindLegByID(ctx context.Context, legID string) (*domain.Leg, error) {
	var found domain.Leg
	err := s.view(ctx, func(st *state) error {
		leg, ok := st.legs[legID]
		if !ok {
			return apperrors.NewNotFoundError("leg " + legID)
		}
		found = leg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) FindLegByIDForUpdate(ctx context.Context, legID string) (*domain.Leg, error) {
	return s.FindLegByID(ctx, legID)
}

func (s *Store) ListLegsByWave(ctx context.Context, waveID string) ([]domain.Leg, error) {
	result := make([]domain.Leg, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, leg := range st.legs {
			if leg.WaveID == waveID {
				result = append(result, leg)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].LegID < result[j].LegID
	})
	return result, nil
}
