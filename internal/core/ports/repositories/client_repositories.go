package repositories

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// ClientRepositoryFacade defines persistence operations for clients
type ClientRepositoryFacade interface {
	// SaveClient inserts a client. It returns apperrors.ErrDuplicate when the code is taken.
	SaveClient(ctx context.Context, client domain.Client) error
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, kind *domain.ClientKind) ([]domain.Client, error)
}

// ProductRepositoryFacade defines persistence operations for catalogue products
type ProductRepositoryFacade interface {
	// SaveProduct inserts a product. It returns apperrors.ErrDuplicate when the SKU is taken.
	SaveProduct(ctx context.Context, product domain.Product) error
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, currency string) ([]domain.Product, error)
}
