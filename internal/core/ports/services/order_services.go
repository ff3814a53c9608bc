package services

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
)

// OrderSvcFacade defines the business order workflow and its ledger postings
type OrderSvcFacade interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, userID string) (*domain.BusinessOrder, error)
	UpdateOrderItems(ctx context.Context, orderID string, req dto.UpdateOrderItemsRequest, userID string) (*domain.BusinessOrder, error)
	AssignOrderToConvoy(ctx context.Context, orderID string, convoyID string, userID string) (*domain.BusinessOrder, error)
	RegisterOrderPayment(ctx context.Context, orderID string, req dto.PaymentRequest, userID string) (*domain.BusinessOrder, error)
	PickupOrder(ctx context.Context, orderID string, req dto.PickupRequest, userID string) (*domain.BusinessOrder, error)
	CancelOrder(ctx context.Context, orderID string, userID string) (*domain.BusinessOrder, error)
	DeleteOrder(ctx context.Context, orderID string, userID string) error
	GetOrder(ctx context.Context, orderID string) (*domain.BusinessOrder, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.BusinessOrder, error)
}
