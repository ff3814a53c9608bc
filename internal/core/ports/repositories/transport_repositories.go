package repositories

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// WaveRepository defines persistence operations for waves
type WaveRepository interface {
	SaveWave(ctx context.Context, wave domain.Wave) error
	UpdateWave(ctx context.Context, wave domain.Wave) error
	FindWaveByID(ctx context.Context, waveID string) (*domain.Wave, error)
	FindWaveByIDForUpdate(ctx context.Context, waveID string) (*domain.Wave, error)
	ListWaves(ctx context.Context, kind *domain.WaveKind) ([]domain.Wave, error)
}

// LegRepository defines persistence operations for convoys and trips
type LegRepository interface {
	SaveLeg(ctx context.Context, leg domain.Leg) error
	UpdateLeg(ctx context.Context, leg domain.Leg) error
	FindLegByID(ctx context.Context, legID string) (*domain.Leg, error)
	FindLegByIDForUpdate(ctx context.Context, legID string) (*domain.Leg, error)
	ListLegsByWave(ctx context.Context, waveID string) ([]domain.Leg, error)
}

// TransportRepositoryFacade combines the wave and leg repositories
type TransportRepositoryFacade interface {
	WaveRepository
	LegRepository
}
