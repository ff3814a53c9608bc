package domain

import "time"

// WaveKind separates business (orders) waves from express (parcels) waves.
type WaveKind string

const (
	WaveBusiness WaveKind = "business"
	WaveExpress  WaveKind = "express"
)

// WaveStatus is the lifecycle of a wave.
type WaveStatus string

const (
	WaveOpen   WaveStatus = "open"
	WaveClosed WaveStatus = "closed"
)

// Wave groups business activity over a period. Closing a wave finalizes its costs.
type Wave struct {
	WaveID   string     `json:"waveID"`
	Name     string     `json:"name"`
	Kind     WaveKind   `json:"kind"`
	Status   WaveStatus `json:"status"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
	AuditFields
}

// LegKind is the transport type: convoys carry business orders, trips carry express parcels.
type LegKind string

const (
	LegConvoy LegKind = "convoy"
	LegTrip   LegKind = "trip"
)

// WaveKind returns the kind of wave this leg kind belongs to.
func (k LegKind) WaveKind() WaveKind {
	if k == LegConvoy {
		return WaveBusiness
	}
	return WaveExpress
}

// CostKind returns the cost kind posted when this leg is closed.
func (k LegKind) CostKind() CostKind {
	if k == LegConvoy {
		return CostConvoy
	}
	return CostTrip
}

// LegStatus is the lifecycle of a convoy or trip.
type LegStatus string

const (
	LegPreparing LegStatus = "preparing"
	LegInTransit LegStatus = "in_transit"
	LegArrived   LegStatus = "arrived"
	LegClosed    LegStatus = "closed"
)

// Leg is a physical transport leg within a wave.
type Leg struct {
	LegID      string     `json:"legID"`
	WaveID     string     `json:"waveID"`
	Kind       LegKind    `json:"kind"`
	Name       string     `json:"name"`
	Status     LegStatus  `json:"status"`
	DepartedAt *time.Time `json:"departedAt,omitempty"`
	ArrivedAt  *time.Time `json:"arrivedAt,omitempty"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
	AuditFields
}
