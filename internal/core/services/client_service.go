package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/google/uuid"
)

type clientService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	clientRepo  portsrepo.ClientRepositoryFacade
	productRepo portsrepo.ProductRepositoryFacade
	allocator   *ReferenceAllocator
}

// NewClientService creates a new client and product catalogue service.
func NewClientService(repos portsrepo.RepositoryProvider, allocator *ReferenceAllocator, options ...Option) portssvc.ClientSvcFacade {
	return &clientService{
		BaseService: newBaseService(options),
		txManager:   repos.TxManager,
		clientRepo:  repos.ClientRepo,
		productRepo: repos.ProductRepo,
		allocator:   allocator,
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("client name is required")
	}
	if !req.Kind.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown client kind %q", req.Kind))
	}

	client := domain.Client{
		ClientID:    uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Kind:        req.Kind,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.allocator.Allocate(ctx, domain.ClientCodePattern(req.Kind), func(ctx context.Context, code string) error {
			client.ClientCode = code
			return s.clientRepo.SaveClient(ctx, client)
		})
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create client", slog.String("name", client.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID), slog.String("code", client.ClientCode))
	return &client, nil
}

func (s *clientService) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	return s.clientRepo.FindClientByID(ctx, clientID)
}

func (s *clientService) ListClients(ctx context.Context, kind *domain.ClientKind) ([]domain.Client, error) {
	return s.clientRepo.ListClients(ctx, kind)
}

func (s *clientService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("product name is required")
	}
	if req.UnitPrice.IsNegative() {
		return nil, apperrors.NewValidationError("unit price must not be negative")
	}
	currency := domain.NormalizeCurrency(req.CurrencyCode)
	if currency == "" {
		return nil, apperrors.NewValidationError("currency is required")
	}

	product := domain.Product{
		ProductID:    uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		CurrencyCode: currency,
		UnitPrice:    req.UnitPrice.Round(moneyPlaces),
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.allocator.Allocate(ctx, domain.ProductSKUPattern(currency), func(ctx context.Context, sku string) error {
			product.SKU = sku
			return s.productRepo.SaveProduct(ctx, product)
		})
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create product", slog.String("name", product.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID), slog.String("sku", product.SKU))
	return &product, nil
}

func (s *clientService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.productRepo.FindProductByID(ctx, productID)
}

func (s *clientService) ListProducts(ctx context.Context, currency string) ([]domain.Product, error) {
	return s.productRepo.ListProducts(ctx, domain.NormalizeCurrency(currency))
}
