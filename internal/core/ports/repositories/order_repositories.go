package repositories

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// OrderReader defines read operations for business orders
type OrderReader interface {
	FindOrderByID(ctx context.Context, orderID string) (*domain.BusinessOrder, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.BusinessOrder, error)
}

// OrderWriter defines write operations for business orders
type OrderWriter interface {
	// SaveOrder inserts an order with its items. It returns apperrors.ErrDuplicate when the reference is taken.
	SaveOrder(ctx context.Context, order domain.BusinessOrder) error

	// UpdateOrder rewrites the order header and replaces its items.
	UpdateOrder(ctx context.Context, order domain.BusinessOrder) error

	DeleteOrder(ctx context.Context, orderID string) error
}

// OrderTransactionSupport defines operations used inside a unit of work
type OrderTransactionSupport interface {
	// FindOrderByIDForUpdate reads an order and locks its row.
	FindOrderByIDForUpdate(ctx context.Context, orderID string) (*domain.BusinessOrder, error)
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
	OrderTransactionSupport
}
