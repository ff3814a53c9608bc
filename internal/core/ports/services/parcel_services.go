package services

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
)

// ParcelSvcFacade defines the express parcel workflow and its ledger postings
type ParcelSvcFacade interface {
	CreateParcel(ctx context.Context, req dto.CreateParcelRequest, userID string) (*domain.ExpressParcel, error)
	UpdateParcelPrice(ctx context.Context, parcelID string, req dto.UpdateParcelPriceRequest, userID string) (*domain.ExpressParcel, error)
	AssignParcelToTrip(ctx context.Context, parcelID string, tripID string, userID string) (*domain.ExpressParcel, error)
	RegisterParcelPayment(ctx context.Context, parcelID string, req dto.PaymentRequest, userID string) (*domain.ExpressParcel, error)
	PickupParcel(ctx context.Context, parcelID string, req dto.PickupRequest, userID string) (*domain.ExpressParcel, error)
	CancelParcel(ctx context.Context, parcelID string, userID string) (*domain.ExpressParcel, error)
	DeleteParcel(ctx context.Context, parcelID string, userID string) error
	GetParcel(ctx context.Context, parcelID string) (*domain.ExpressParcel, error)
	ListParcels(ctx context.Context, filter domain.ParcelFilter) ([]domain.ExpressParcel, error)
}
