package services

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
)

// TransportSvcFacade drives waves, convoys and trips through their lifecycle
type TransportSvcFacade interface {
	CreateWave(ctx context.Context, req dto.CreateWaveRequest, userID string) (*domain.Wave, error)
	GetWave(ctx context.Context, waveID string) (*domain.Wave, error)
	ListWaves(ctx context.Context, kind *domain.WaveKind) ([]domain.Wave, error)

	CreateLeg(ctx context.Context, req dto.CreateLegRequest, userID string) (*domain.Leg, error)
	GetLeg(ctx context.Context, legID string) (*domain.Leg, error)
	ListLegs(ctx context.Context, waveID string) ([]domain.Leg, error)

	// DepartLeg moves the leg and its items in transit.
	DepartLeg(ctx context.Context, legID string, userID string) (*domain.Leg, error)
	// ArriveLeg marks the leg and its items as arrived.
	ArriveLeg(ctx context.Context, legID string, userID string) (*domain.Leg, error)
	// CloseLeg posts the final costs and closes the leg in one unit.
	CloseLeg(ctx context.Context, legID string, req dto.CloseRequest, userID string) (*domain.Leg, error)
	// CloseWave posts the wave costs and closes the wave in one unit.
	CloseWave(ctx context.Context, waveID string, req dto.CloseRequest, userID string) (*domain.Wave, error)
}
