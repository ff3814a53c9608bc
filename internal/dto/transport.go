package dto

import "github.com/SscSPs/cargo_ledger/internal/core/domain"

// CreateWaveRequest defines the data needed to open a wave.
type CreateWaveRequest struct {
	Name string          `json:"name" binding:"required"`
	Kind domain.WaveKind `json:"kind" binding:"required,oneof=business express"`
}

// CreateLegRequest defines the data needed to prepare a convoy or a trip.
type CreateLegRequest struct {
	WaveID string         `json:"waveID" binding:"required"`
	Kind   domain.LegKind `json:"kind" binding:"required,oneof=convoy trip"`
	Name   string         `json:"name" binding:"required"`
}

// CloseRequest closes a leg or a wave, posting its final costs in the same unit.
type CloseRequest struct {
	Costs []CostLineRequest `json:"costs" binding:"dive"`
}

// ListWavesResponse wraps a list of waves.
type ListWavesResponse struct {
	Waves []domain.Wave `json:"waves"`
}

// ListLegsResponse wraps a list of legs.
type ListLegsResponse struct {
	Legs []domain.Leg `json:"legs"`
}
