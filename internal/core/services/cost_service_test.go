package services_test

import (
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type CostServiceTestSuite struct {
	ledgerSuite
}

func TestCostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CostServiceTestSuite))
}

func costLine(accountID, amount, currency, label string) dto.CostLineRequest {
	return dto.CostLineRequest{AccountID: accountID, Amount: dec(amount), CurrencyCode: currency, Label: label}
}

func (s *CostServiceTestSuite) TestCreateCostPostsOneDebit() {
	cash := s.account("CFA cash", domain.CurrencyCFA, "50000")
	trip := s.leg(s.wave(domain.WaveExpress).WaveID, domain.LegTrip)

	cost, err := s.svc.Cost.CreateCost(s.ctx, dto.CreateCostRequest{
		Kind: domain.CostTrip, OwnerID: trip.LegID, CostLineRequest: costLine(cash.AccountID, "100", "MAD", "Fuel"),
	}, actorID)
	s.Require().NoError(err)
	s.NotEmpty(cost.TransactionID)

	txn, err := s.svc.Ledger.GetTransaction(s.ctx, cost.TransactionID)
	s.Require().NoError(err)
	s.Equal(domain.Debit, txn.TransactionType)
	s.Equal(domain.CategoryTripCost, txn.Category)
	s.Equal(domain.RelatedEntity{Kind: domain.RelatedTripCost, ID: cost.CostID}, *txn.Related)
	s.assertDecimal("6300", txn.Amount)
	s.assertDecimal("43700", s.balance(cash.AccountID))
}

func (s *CostServiceTestSuite) TestCostKindMustMatchOwner() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	convoy := s.leg(s.wave(domain.WaveBusiness).WaveID, domain.LegConvoy)

	_, err := s.svc.Cost.CreateCost(s.ctx, dto.CreateCostRequest{
		Kind: domain.CostTrip, OwnerID: convoy.LegID, CostLineRequest: costLine(cash.AccountID, "10", "MAD", "Toll"),
	}, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Cost.CreateCost(s.ctx, dto.CreateCostRequest{
		Kind: domain.CostWave, OwnerID: "missing", CostLineRequest: costLine(cash.AccountID, "10", "MAD", "Toll"),
	}, actorID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Empty(s.transactions(cash.AccountID))
}

func (s *CostServiceTestSuite) TestUpdateCostRepostsOnlyWhenMoneyChanges() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "1000")
	bank := s.account("MAD bank", domain.CurrencyMAD, "1000")
	wave := s.wave(domain.WaveBusiness)
	cost, err := s.svc.Cost.CreateCost(s.ctx, dto.CreateCostRequest{
		Kind: domain.CostWave, OwnerID: wave.WaveID, CostLineRequest: costLine(cash.AccountID, "200", "MAD", "Customs"),
	}, actorID)
	s.Require().NoError(err)

	label := "Customs fees"
	relabelled, err := s.svc.Cost.UpdateCost(s.ctx, cost.CostID, dto.UpdateCostRequest{Label: &label}, actorID)
	s.Require().NoError(err)
	s.Equal(cost.TransactionID, relabelled.TransactionID)
	s.Equal("Customs fees", relabelled.Label)

	amount := dec("250")
	repriced, err := s.svc.Cost.UpdateCost(s.ctx, cost.CostID, dto.UpdateCostRequest{Amount: &amount}, actorID)
	s.Require().NoError(err)
	s.NotEqual(cost.TransactionID, repriced.TransactionID)
	s.assertDecimal("750", s.balance(cash.AccountID))
	_, err = s.svc.Ledger.GetTransaction(s.ctx, cost.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	moved, err := s.svc.Cost.UpdateCost(s.ctx, cost.CostID, dto.UpdateCostRequest{AccountID: &bank.AccountID}, actorID)
	s.Require().NoError(err)
	s.assertDecimal("1000", s.balance(cash.AccountID))
	s.assertDecimal("750", s.balance(bank.AccountID))
	s.Len(s.transactions(bank.AccountID), 1)

	s.Require().NoError(s.svc.Cost.DeleteCost(s.ctx, moved.CostID, actorID))
	s.assertDecimal("1000", s.balance(bank.AccountID))
	costs, err := s.svc.Cost.ListCosts(s.ctx, domain.CostWave, wave.WaveID)
	s.Require().NoError(err)
	s.Empty(costs)
}

func (s *CostServiceTestSuite) TestClosedOwnerRefusesCostChanges() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "1000")
	wave := s.wave(domain.WaveExpress)
	cost, err := s.svc.Cost.CreateCost(s.ctx, dto.CreateCostRequest{
		Kind: domain.CostWave, OwnerID: wave.WaveID, CostLineRequest: costLine(cash.AccountID, "10", "MAD", "Storage"),
	}, actorID)
	s.Require().NoError(err)
	_, err = s.svc.Transport.CloseWave(s.ctx, wave.WaveID, dto.CloseRequest{}, actorID)
	s.Require().NoError(err)

	amount := dec("20")
	_, err = s.svc.Cost.UpdateCost(s.ctx, cost.CostID, dto.UpdateCostRequest{Amount: &amount}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.ErrorIs(s.svc.Cost.DeleteCost(s.ctx, cost.CostID, actorID), apperrors.ErrConflict)
	_, err = s.svc.Cost.CreateCost(s.ctx, dto.CreateCostRequest{
		Kind: domain.CostWave, OwnerID: wave.WaveID, CostLineRequest: costLine(cash.AccountID, "10", "MAD", "Late"),
	}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.assertDecimal("990", s.balance(cash.AccountID))
}
