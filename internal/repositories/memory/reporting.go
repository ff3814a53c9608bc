package memory

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

func (s *Store) CountInDebt(ctx context.Context) (int, int, error) {
	var orders, parcels int
	_ = s.view(ctx, func(st *state) error {
		for _, order := range st.orders {
			if order.HasDebt && order.Status != domain.OrderCancelled {
				orders++
			}
		}
		for _, parcel := range st.parcels {
			if parcel.HasDebt && parcel.Status != domain.ParcelCancelled {
				parcels++
			}
		}
		return nil
	})
	return orders, parcels, nil
}
