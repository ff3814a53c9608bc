package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

func (s *Store) SaveParcel(ctx context.Context, parcel domain.ExpressParcel) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.parcels[parcel.ParcelID]; exists {
			return apperrors.ErrDuplicate
		}
		for _, existing := range st.parcels {
			if existing.Reference == parcel.Reference {
				return apperrors.ErrDuplicate
			}
		}
		st.parcels[parcel.ParcelID] = parcel
		return nil
	})
}

func (s *Store) UpdateParcel(ctx context.Context, parcel domain.ExpressParcel) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.parcels[parcel.ParcelID]; !exists {
			return apperrors.NewNotFoundError("parcel " + parcel.ParcelID)
		}
		st.parcels[parcel.ParcelID] = parcel
		return nil
	})
}

func (s *Store) DeleteParcel(ctx context.Context, parcelID string) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.parcels[parcelID]; !exists {
			return apperrors.NewNotFoundError("parcel " + parcelID)
		}
		delete(st.parcels, parcelID)
		return nil
	})
}

func (s *Store) FindParcelByID(ctx context.Context, parcelID string) (*domain.ExpressParcel, error) {
	var found domain.ExpressParcel
	err := s.view(ctx, func(st *state) error {
		parcel, ok := st.parcels[parcelID]
		if !ok {
			return apperrors.NewNotFoundError("parcel " + parcelID)
		}
		found = parcel
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) FindParcelByIDForUpdate(ctx context.Context, parcelID string) (*domain.ExpressParcel, error) {
	return s.FindParcelByID(ctx, parcelID)
}

func (s *Store) ListParcels(ctx context.Context, filter domain.ParcelFilter) ([]domain.ExpressParcel, error) {
	result := make([]domain.ExpressParcel, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, parcel := range st.parcels {
			switch {
			case filter.ClientID != "" && parcel.ClientID != filter.ClientID:
				continue
			case filter.WaveID != "" && parcel.WaveID != filter.WaveID:
				continue
			case filter.TripID != "" && parcel.TripID != filter.TripID:
				continue
			case filter.Status != nil && parcel.Status != *filter.Status:
				continue
			case filter.InDebt != nil && parcel.HasDebt != *filter.InDebt:
				continue
			}
			result = append(result, parcel)
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].Reference > result[j].Reference
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}
