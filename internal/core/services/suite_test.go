package services_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/core/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/SscSPs/cargo_ledger/internal/platform/config"
	"github.com/SscSPs/cargo_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const actorID = "actor-1"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ledgerSuite wires every service over a fresh in-memory store.
type ledgerSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
}

func (s *ledgerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.ctx = middleware.WithLogger(context.Background(), logger)
	s.store = memory.NewStore()
	cfg := &config.Config{DefaultMadToCfaRate: dec("63")}
	s.svc = services.NewServiceContainer(cfg, s.store.Repositories())
	s.Require().NoError(s.svc.Setting.EnsureDefaultExchangeRate(s.ctx, cfg.DefaultMadToCfaRate, actorID))
}

func (s *ledgerSuite) account(name, currency, initial string) *domain.Account {
	acc, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Name:           name,
		AccountType:    domain.AccountCash,
		CurrencyCode:   currency,
		InitialBalance: dec(initial),
	}, actorID)
	s.Require().NoError(err)
	return acc
}

func (s *ledgerSuite) client(kind domain.ClientKind) *domain.Client {
	client, err := s.svc.Client.CreateClient(s.ctx, dto.CreateClientRequest{Name: "Client " + string(kind), Kind: kind}, actorID)
	s.Require().NoError(err)
	return client
}

func (s *ledgerSuite) wave(kind domain.WaveKind) *domain.Wave {
	wave, err := s.svc.Transport.CreateWave(s.ctx, dto.CreateWaveRequest{Name: "Wave " + string(kind), Kind: kind}, actorID)
	s.Require().NoError(err)
	return wave
}

func (s *ledgerSuite) leg(waveID string, kind domain.LegKind) *domain.Leg {
	leg, err := s.svc.Transport.CreateLeg(s.ctx, dto.CreateLegRequest{WaveID: waveID, Kind: kind, Name: string(kind) + " 1"}, actorID)
	s.Require().NoError(err)
	return leg
}

// order creates a MAD order with a single line worth principal.
func (s *ledgerSuite) order(principal string) *domain.BusinessOrder {
	order, err := s.svc.Order.CreateOrder(s.ctx, dto.CreateOrderRequest{
		ClientID:     s.client(domain.ClientBusiness).ClientID,
		WaveID:       s.wave(domain.WaveBusiness).WaveID,
		CurrencyCode: domain.CurrencyMAD,
		Items:        []dto.OrderItemRequest{{Description: "Goods", Quantity: 1, UnitPrice: dec(principal)}},
	}, actorID)
	s.Require().NoError(err)
	return order
}

// parcel creates a MAD parcel priced at price.
func (s *ledgerSuite) parcel(price string) *domain.ExpressParcel {
	parcel, err := s.svc.Parcel.CreateParcel(s.ctx, dto.CreateParcelRequest{
		ClientID:     s.client(domain.ClientExpress).ClientID,
		WaveID:       s.wave(domain.WaveExpress).WaveID,
		Description:  "Box",
		WeightKg:     dec("4.5"),
		CurrencyCode: domain.CurrencyMAD,
		TotalPrice:   dec(price),
	}, actorID)
	s.Require().NoError(err)
	return parcel
}

func (s *ledgerSuite) post(accountID string, txnType domain.TransactionType, amount, currency string, category domain.Category) (*domain.FinancialTransaction, error) {
	return s.svc.Ledger.CreateTransaction(s.ctx, dto.CreateTransactionRequest{
		AccountID:       accountID,
		TransactionType: txnType,
		Amount:          dec(amount),
		CurrencyCode:    currency,
		Category:        category,
	}, actorID)
}

func (s *ledgerSuite) balance(accountID string) decimal.Decimal {
	balance, err := s.svc.Ledger.GetAccountBalance(s.ctx, accountID)
	s.Require().NoError(err)
	return balance
}

func (s *ledgerSuite) transactions(accountID string) []domain.FinancialTransaction {
	txns, _, err := s.svc.Ledger.GetTransactionsByAccount(s.ctx, accountID, domain.TransactionFilter{Limit: 100})
	s.Require().NoError(err)
	return txns
}

func (s *ledgerSuite) assertDecimal(expected string, actual decimal.Decimal) {
	s.Truef(dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}
