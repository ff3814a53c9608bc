package domain

import "github.com/shopspring/decimal"

// ParcelStatus drives the express parcel workflow.
type ParcelStatus string

const (
	ParcelRegistered ParcelStatus = "registered"
	ParcelInTransit  ParcelStatus = "in_transit"
	ParcelArrived    ParcelStatus = "arrived"
	ParcelDelivered  ParcelStatus = "delivered"
	ParcelCancelled  ParcelStatus = "cancelled"
)

// IsDeletable reports whether a parcel in this status may be deleted along with its ledger rows.
func (s ParcelStatus) IsDeletable() bool {
	return s == ParcelRegistered || s == ParcelCancelled
}

// IsSettled reports whether the parcel has left the active workflow.
func (s ParcelStatus) IsSettled() bool {
	return s == ParcelDelivered || s == ParcelCancelled
}

// ExpressParcel is a parcel shipped on an express trip. Its principal is the total price.
type ExpressParcel struct {
	ParcelID    string          `json:"parcelID"`
	Reference   string          `json:"reference"` // EXP-PARCEL-YYYYMMDD-NNNN
	ClientID    string          `json:"clientID"`
	WaveID      string          `json:"waveID"`
	TripID      string          `json:"tripID"` // Empty until assigned to a trip
	Description string          `json:"description"`
	WeightKg    decimal.Decimal `json:"weightKg"`
	Status      ParcelStatus    `json:"status"`
	Payable
	AuditFields
}

// ParcelFilter narrows ListParcels. Zero values are ignored.
type ParcelFilter struct {
	ClientID string
	WaveID   string
	TripID   string
	Status   *ParcelStatus
	InDebt   *bool
	Limit    int
	Offset   int
}
