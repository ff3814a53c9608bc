package dto

import (
	"time"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateParcelRequest defines the data needed to register an express parcel.
type CreateParcelRequest struct {
	ClientID     string              `json:"clientID" binding:"required"`
	WaveID       string              `json:"waveID" binding:"required"`
	Description  string              `json:"description"`
	WeightKg     decimal.Decimal     `json:"weightKg" binding:"weight"`
	CurrencyCode string              `json:"currencyCode" binding:"required,currency"`
	TotalPrice   decimal.Decimal     `json:"totalPrice" binding:"money"`
	Deposits     []PaymentLegRequest `json:"deposits" binding:"dive"`
}

// UpdateParcelPriceRequest changes the price of a parcel.
type UpdateParcelPriceRequest struct {
	TotalPrice decimal.Decimal `json:"totalPrice" binding:"money"`
}

// AssignTripRequest puts a parcel on a trip.
type AssignTripRequest struct {
	TripID string `json:"tripID" binding:"required"`
}

// ListParcelsParams defines query parameters for listing parcels.
type ListParcelsParams struct {
	ClientID string               `form:"clientID"`
	WaveID   string               `form:"waveID"`
	TripID   string               `form:"tripID"`
	Status   *domain.ParcelStatus `form:"status"`
	InDebt   *bool                `form:"inDebt"`
	Limit    int                  `form:"limit,default=50" binding:"min=1,max=500"`
	Offset   int                  `form:"offset,default=0" binding:"min=0"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListParcelsParams) ToFilter() domain.ParcelFilter {
	return domain.ParcelFilter{
		ClientID: p.ClientID,
		WaveID:   p.WaveID,
		TripID:   p.TripID,
		Status:   p.Status,
		InDebt:   p.InDebt,
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
}

// ParcelResponse mirrors domain.ExpressParcel with the remaining debt spelled out.
type ParcelResponse struct {
	ParcelID      string              `json:"parcelID"`
	Reference     string              `json:"reference"`
	ClientID      string              `json:"clientID"`
	WaveID        string              `json:"waveID"`
	TripID        string              `json:"tripID,omitempty"`
	Description   string              `json:"description"`
	WeightKg      decimal.Decimal     `json:"weightKg"`
	Status        domain.ParcelStatus `json:"status"`
	CurrencyCode  string              `json:"currencyCode"`
	TotalPrice    decimal.Decimal     `json:"totalPrice"`
	TotalPaid     decimal.Decimal     `json:"totalPaid"`
	RemainingDebt decimal.Decimal     `json:"remainingDebt"`
	HasDebt       bool                `json:"hasDebt"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ToParcelResponse converts a domain.ExpressParcel to its DTO.
func ToParcelResponse(p *domain.ExpressParcel) ParcelResponse {
	return ParcelResponse{
		ParcelID:      p.ParcelID,
		Reference:     p.Reference,
		ClientID:      p.ClientID,
		WaveID:        p.WaveID,
		TripID:        p.TripID,
		Description:   p.Description,
		WeightKg:      p.WeightKg,
		Status:        p.Status,
		CurrencyCode:  p.CurrencyCode,
		TotalPrice:    p.PrincipalAmount,
		TotalPaid:     p.TotalPaid,
		RemainingDebt: p.RemainingDebt(),
		HasDebt:       p.HasDebt,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ListParcelsResponse wraps a list of parcels.
type ListParcelsResponse struct {
	Parcels []ParcelResponse `json:"parcels"`
}

// ToListParcelsResponse converts parcels to DTOs.
func ToListParcelsResponse(parcels []domain.ExpressParcel) ListParcelsResponse {
	res := ListParcelsResponse{Parcels: make([]ParcelResponse, len(parcels))}
	for i := range parcels {
		res.Parcels[i] = ToParcelResponse(&parcels[i])
	}
	return res
}
