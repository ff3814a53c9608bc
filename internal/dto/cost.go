package dto

import (
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CostLineRequest is one expense paid from an account. Amount is in CurrencyCode,
// converted to the account's currency when they differ.
type CostLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"money"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currency"`
	Label        string          `json:"label" binding:"required"`
	Description  string          `json:"description"`
}

// CreateCostRequest attaches a cost to a convoy, a trip or a wave.
type CreateCostRequest struct {
	Kind    domain.CostKind `json:"kind" binding:"required,oneof=convoy trip wave"`
	OwnerID string          `json:"ownerID" binding:"required"`
	CostLineRequest
}

// UpdateCostRequest changes a cost. Nil fields are left as they are.
type UpdateCostRequest struct {
	AccountID    *string          `json:"accountID"`
	Amount       *decimal.Decimal `json:"amount" binding:"omitempty,money"`
	CurrencyCode *string          `json:"currencyCode" binding:"omitempty,currency"`
	Label        *string          `json:"label"`
	Description  *string          `json:"description"`
}

// ListCostsParams selects the costs of one owner.
type ListCostsParams struct {
	Kind    domain.CostKind `form:"kind" binding:"required,oneof=convoy trip wave"`
	OwnerID string          `form:"ownerID" binding:"required"`
}

// ListCostsResponse wraps a list of costs.
type ListCostsResponse struct {
	Costs []domain.Cost `json:"costs"`
}
