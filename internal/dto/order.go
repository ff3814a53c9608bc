package dto

import (
	"time"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line of an order.
type OrderItemRequest struct {
	ProductID   string          `json:"productID"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"money"`
}

// PurchaseRequest records what the goods of an order cost the business.
// Amount is in the order's currency.
type PurchaseRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"money"`
}

// CreateOrderRequest defines the data needed to create a business order.
type CreateOrderRequest struct {
	ClientID     string              `json:"clientID" binding:"required"`
	WaveID       string              `json:"waveID" binding:"required"`
	CurrencyCode string              `json:"currencyCode" binding:"required,currency"`
	Notes        string              `json:"notes"`
	Items        []OrderItemRequest  `json:"items" binding:"required,min=1,dive"`
	Payments     []PaymentLegRequest `json:"payments" binding:"dive"`
	Purchase     *PurchaseRequest    `json:"purchase"`
}

// UpdateOrderItemsRequest replaces the lines of an order.
type UpdateOrderItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AssignConvoyRequest puts an order on a convoy.
type AssignConvoyRequest struct {
	ConvoyID string `json:"convoyID" binding:"required"`
}

// ListOrdersParams defines query parameters for listing orders.
type ListOrdersParams struct {
	ClientID string              `form:"clientID"`
	WaveID   string              `form:"waveID"`
	ConvoyID string              `form:"convoyID"`
	Status   *domain.OrderStatus `form:"status"`
	InDebt   *bool               `form:"inDebt"`
	Limit    int                 `form:"limit,default=50" binding:"min=1,max=500"`
	Offset   int                 `form:"offset,default=0" binding:"min=0"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListOrdersParams) ToFilter() domain.OrderFilter {
	return domain.OrderFilter{
		ClientID: p.ClientID,
		WaveID:   p.WaveID,
		ConvoyID: p.ConvoyID,
		Status:   p.Status,
		InDebt:   p.InDebt,
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
}

// OrderResponse mirrors domain.BusinessOrder with the remaining debt spelled out.
type OrderResponse struct {
	OrderID         string             `json:"orderID"`
	Reference       string             `json:"reference"`
	ClientID        string             `json:"clientID"`
	WaveID          string             `json:"waveID"`
	ConvoyID        string             `json:"convoyID,omitempty"`
	Status          domain.OrderStatus `json:"status"`
	Notes           string             `json:"notes"`
	Items           []domain.OrderItem `json:"items"`
	CurrencyCode    string             `json:"currencyCode"`
	PrincipalAmount decimal.Decimal    `json:"principalAmount"`
	TotalPaid       decimal.Decimal    `json:"totalPaid"`
	RemainingDebt   decimal.Decimal    `json:"remainingDebt"`
	HasDebt         bool               `json:"hasDebt"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToOrderResponse converts a domain.BusinessOrder to its DTO.
func ToOrderResponse(o *domain.BusinessOrder) OrderResponse {
	return OrderResponse{
		OrderID:         o.OrderID,
		Reference:       o.Reference,
		ClientID:        o.ClientID,
		WaveID:          o.WaveID,
		ConvoyID:        o.ConvoyID,
		Status:          o.Status,
		Notes:           o.Notes,
		Items:           o.Items,
		CurrencyCode:    o.CurrencyCode,
		PrincipalAmount: o.PrincipalAmount,
		TotalPaid:       o.TotalPaid,
		RemainingDebt:   o.RemainingDebt(),
		HasDebt:         o.HasDebt,
		CreatedAt:       o.CreatedAt,
		CreatedBy:       o.CreatedBy,
		LastUpdatedAt:   o.LastUpdatedAt,
		LastUpdatedBy:   o.LastUpdatedBy,
	}
}

// ListOrdersResponse wraps a list of orders.
type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// ToListOrdersResponse converts orders to DTOs.
func ToListOrdersResponse(orders []domain.BusinessOrder) ListOrdersResponse {
	res := ListOrdersResponse{Orders: make([]OrderResponse, len(orders))}
	for i := range orders {
		res.Orders[i] = ToOrderResponse(&orders[i])
	}
	return res
}
