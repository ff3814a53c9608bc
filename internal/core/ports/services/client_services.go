package services

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
)

// ClientSvcFacade manages clients and catalogue products
type ClientSvcFacade interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error)
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, kind *domain.ClientKind) ([]domain.Client, error)

	CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, currency string) ([]domain.Product, error)
}
