package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

func (s *Store) SaveCost(ctx context.Context, cost domain.Cost) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.costs[cost.CostID]; exists {
			return apperrors.ErrDuplicate
		}
		st.costs[cost.CostID] = cost
		return nil
	})
}

func (s *Store) UpdateCost(ctx context.Context, cost domain.Cost) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.costs[cost.CostID]; !exists {
			return apperrors.NewNotFoundError("cost " + cost.CostID)
		}
		st.costs[cost.CostID] = cost
		return nil
	})
}

func (s *Store) DeleteCost(ctx context.Context, costID string) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.costs[costID]; !exists {
			return apperrors.NewNotFoundError("cost " + costID)
		}
		delete(st.costs, costID)
		return nil
	})
}

func (s *Store) FindCostByID(ctx context.Context, costID string) (*domain.Cost, error) {
	var found domain.Cost
	err := s.view(ctx, func(st *state) error {
		cost, ok := st.costs[costID]
		if !ok {
			return apperrors.NewNotFoundError("cost " + costID)
		}
		found = cost
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) FindCostByIDForUpdate(ctx context.Context, costID string) (*domain.Cost, error) {
	return s.FindCostByID(ctx, costID)
}

func (s *Store) ListCosts(ctx context.Context, kind domain.CostKind, ownerID string) ([]domain.Cost, error) {
	result := make([]domain.Cost, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, cost := range st.costs {
			if cost.Kind == kind && cost.OwnerID == ownerID {
				result = append(result, cost)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].CostID < result[j].CostID
	})
	return result, nil
}
