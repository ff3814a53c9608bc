package dto

import (
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateClientRequest defines the data needed to register a client.
type CreateClientRequest struct {
	Name  string            `json:"name" binding:"required"`
	Phone string            `json:"phone"`
	Kind  domain.ClientKind `json:"kind" binding:"required,oneof=BUS EXP BOTH"`
}

// CreateProductRequest defines the data needed to add a catalogue product.
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currency"`
	UnitPrice    decimal.Decimal `json:"unitPrice" binding:"money"`
}

// ListClientsResponse wraps a list of clients.
type ListClientsResponse struct {
	Clients []domain.Client `json:"clients"`
}

// ListProductsResponse wraps a list of products.
type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
}
