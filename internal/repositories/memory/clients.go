package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

func (s *Store) SaveClient(ctx context.Context, client domain.Client) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.clients[client.ClientID]; exists {
			return apperrors.ErrDuplicate
		}
		for _, existing := range st.clients {
			if existing.ClientCode == client.ClientCode {
				return apperrors.ErrDuplicate
			}
		}
		st.clients[client.ClientID] = client
		return nil
	})
}

func (s *Store) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	var found domain.Client
	err := s.view(ctx, func(st *state) error {
		client, ok := st.clients[clientID]
		if !ok {
			return apperrors.NewNotFoundError("client " + clientID)
		}
		found = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) ListClients(ctx context.Context, kind *domain.ClientKind) ([]domain.Client, error) {
	result := make([]domain.Client, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, client := range st.clients {
			if kind == nil || client.Kind == *kind {
				result = append(result, client)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ClientCode < result[j].ClientCode })
	return result, nil
}

func (s *Store) SaveProduct(ctx context.Context, product domain.Product) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.products[product.ProductID]; exists {
			return apperrors.ErrDuplicate
		}
		for _, existing := range st.products {
			if existing.SKU == product.SKU {
				return apperrors.ErrDuplicate
			}
		}
		st.products[product.ProductID] = product
		return nil
	})
}

func (s *Store) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	var found domain.Product
	err := s.view(ctx, func(st *state) error {
		product, ok := st.products[productID]
		if !ok {
			return apperrors.NewNotFoundError("product " + productID)
		}
		found = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) ListProducts(ctx context.Context, currency string) ([]domain.Product, error) {
	result := make([]domain.Product, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, product := range st.products {
			if currency == "" || product.CurrencyCode == currency {
				result = append(result, product)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool { return result[i].SKU < result[j].SKU })
	return result, nil
}
