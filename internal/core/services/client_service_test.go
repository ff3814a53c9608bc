package services_test

import (
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ClientServiceTestSuite struct {
	ledgerSuite
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}

func (s *ClientServiceTestSuite) TestClientCodesArePerKind() {
	first := s.client(domain.ClientBusiness)
	second := s.client(domain.ClientBusiness)
	express := s.client(domain.ClientExpress)

	s.Equal("CLI-BUS-001", first.ClientCode)
	s.Equal("CLI-BUS-002", second.ClientCode)
	s.Equal("CLI-EXP-001", express.ClientCode)

	kind := domain.ClientBusiness
	clients, err := s.svc.Client.ListClients(s.ctx, &kind)
	s.Require().NoError(err)
	s.Len(clients, 2)

	stored, err := s.svc.Client.GetClient(s.ctx, express.ClientID)
	s.Require().NoError(err)
	s.Equal(express.ClientCode, stored.ClientCode)
}

func (s *ClientServiceTestSuite) TestCreateClientValidation() {
	_, err := s.svc.Client.CreateClient(s.ctx, dto.CreateClientRequest{Name: "  ", Kind: domain.ClientBusiness}, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Client.CreateClient(s.ctx, dto.CreateClientRequest{Name: "Ali", Kind: "VIP"}, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Client.GetClient(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ClientServiceTestSuite) TestProductSKUsArePerCurrency() {
	create := func(name, currency, price string) *domain.Product {
		product, err := s.svc.Client.CreateProduct(s.ctx, dto.CreateProductRequest{Name: name, CurrencyCode: currency, UnitPrice: dec(price)}, actorID)
		s.Require().NoError(err)
		return product
	}
	tea := create("Tea", "MAD", "12.50")
	oil := create("Oil", "mad", "40")
	rice := create("Rice", "CFA", "1500")

	s.Equal("PROD-MAD-0001", tea.SKU)
	s.Equal("PROD-MAD-0002", oil.SKU)
	s.Equal("PROD-CFA-0001", rice.SKU)

	products, err := s.svc.Client.ListProducts(s.ctx, "mad")
	s.Require().NoError(err)
	s.Len(products, 2)

	_, err = s.svc.Client.CreateProduct(s.ctx, dto.CreateProductRequest{Name: "Bad", CurrencyCode: "MAD", UnitPrice: dec("-1")}, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)
}
