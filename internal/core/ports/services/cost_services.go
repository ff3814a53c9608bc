package services

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
)

// CostSvcFacade manages costs, each paired with exactly one debit
type CostSvcFacade interface {
	CreateCost(ctx context.Context, req dto.CreateCostRequest, userID string) (*domain.Cost, error)
	UpdateCost(ctx context.Context, costID string, req dto.UpdateCostRequest, userID string) (*domain.Cost, error)
	DeleteCost(ctx context.Context, costID string, userID string) error
	GetCost(ctx context.Context, costID string) (*domain.Cost, error)
	ListCosts(ctx context.Context, kind domain.CostKind, ownerID string) ([]domain.Cost, error)
}
