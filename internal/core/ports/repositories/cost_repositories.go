package repositories

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// CostRepositoryFacade defines persistence operations for convoy, trip and wave costs
type CostRepositoryFacade interface {
	SaveCost(ctx context.Context, cost domain.Cost) error
	UpdateCost(ctx context.Context, cost domain.Cost) error
	DeleteCost(ctx context.Context, costID string) error
	FindCostByID(ctx context.Context, costID string) (*domain.Cost, error)
	FindCostByIDForUpdate(ctx context.Context, costID string) (*domain.Cost, error)

	// ListCosts returns the costs attached to one owner.
	ListCosts(ctx context.Context, kind domain.CostKind, ownerID string) ([]domain.Cost, error)
}
