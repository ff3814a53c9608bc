package repositories

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// ParcelReader defines read operations for express parcels
type ParcelReader interface {
	FindParcelByID(ctx context.Context, parcelID string) (*domain.ExpressParcel, error)
	ListParcels(ctx context.Context, filter domain.ParcelFilter) ([]domain.ExpressParcel, error)
}

// ParcelWriter defines write operations for express parcels
type ParcelWriter interface {
	// SaveParcel inserts a parcel. It returns apperrors.ErrDuplicate when the reference is taken.
	SaveParcel(ctx context.Context, parcel domain.ExpressParcel) error
	UpdateParcel(ctx context.Context, parcel domain.ExpressParcel) error
	DeleteParcel(ctx context.Context, parcelID string) error
}

// ParcelTransactionSupport defines operations used inside a unit of work
type ParcelTransactionSupport interface {
	// FindParcelByIDForUpdate reads a parcel and locks its row.
	FindParcelByIDForUpdate(ctx context.Context, parcelID string) (*domain.ExpressParcel, error)
}

// ParcelRepositoryFacade combines all parcel-related repository interfaces
type ParcelRepositoryFacade interface {
	ParcelReader
	ParcelWriter
	ParcelTransactionSupport
}
