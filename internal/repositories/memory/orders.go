package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

func copyOrder(o domain.BusinessOrder) domain.BusinessOrder {
	o.Items = slices.Clone(o.Items)
	return o
}

func (s *Store) SaveOrder(ctx context.Context, order domain.BusinessOrder) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.orders[order.OrderID]; exists {
			return apperrors.ErrDuplicate
		}
		for _, existing := range st.orders {
			if existing.Reference == order.Reference {
				return apperrors.ErrDuplicate
			}
		}
		st.orders[order.OrderID] = copyOrder(order)
		return nil
	})
}

func (s *Store) UpdateOrder(ctx context.Context, order domain.BusinessOrder) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.orders[order.OrderID]; !exists {
			return apperrors.NewNotFoundError("order " + order.OrderID)
		}
		st.orders[order.OrderID] = copyOrder(order)
		return nil
	})
}

func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.orders[orderID]; !exists {
			return apperrors.NewNotFoundError("order " + orderID)
		}
		delete(st.orders, orderID)
		return nil
	})
}

func (s *Store) FindOrderByID(ctx context.Context, orderID string) (*domain.BusinessOrder, error) {
	var found domain.BusinessOrder
	err := s.view(ctx, func(st *state) error {
		order, ok := st.orders[orderID]
		if !ok {
			return apperrors.NewNotFoundError("order " + orderID)
		}
		found = copyOrder(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) FindOrderByIDForUpdate(ctx context.Context, orderID string) (*domain.BusinessOrder, error) {
	return s.FindOrderByID(ctx, orderID)
}

func (s *Store) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.BusinessOrder, error) {
	result := make([]domain.BusinessOrder, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, order := range st.orders {
			switch {
			case filter.ClientID != "" && order.ClientID != filter.ClientID:
				continue
			case filter.WaveID != "" && order.WaveID != filter.WaveID:
				continue
			case filter.ConvoyID != "" && order.ConvoyID != filter.ConvoyID:
				continue
			case filter.Status != nil && order.Status != *filter.Status:
				continue
			case filter.InDebt != nil && order.HasDebt != *filter.InDebt:
				continue
			}
			result = append(result, copyOrder(order))
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
