package services_test

import (
	"regexp"
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ParcelServiceTestSuite struct {
	ledgerSuite
}

func TestParcelServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ParcelServiceTestSuite))
}

func pickup(legs ...dto.PaymentLegRequest) dto.PickupRequest {
	return dto.PickupRequest{Payments: legs}
}

func leg(accountID, amount string) dto.PaymentLegRequest {
	return dto.PaymentLegRequest{AccountID: accountID, Amount: dec(amount)}
}

func (s *ParcelServiceTestSuite) TestCreateParcelWithDeposit() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	parcel, err := s.svc.Parcel.CreateParcel(s.ctx, dto.CreateParcelRequest{
		ClientID:     s.client(domain.ClientExpress).ClientID,
		WaveID:       s.wave(domain.WaveExpress).WaveID,
		CurrencyCode: "MAD",
		WeightKg:     dec("12"),
		TotalPrice:   dec("400"),
		Deposits:     []dto.PaymentLegRequest{leg(cash.AccountID, "150")},
	}, actorID)
	s.Require().NoError(err)

	s.Regexp(regexp.MustCompile(`^EXP-PARCEL-\d{8}-0001$`), parcel.Reference)
	s.Equal(domain.ParcelRegistered, parcel.Status)
	s.assertDecimal("150", parcel.TotalPaid)
	s.True(parcel.HasDebt)

	txns := s.transactions(cash.AccountID)
	s.Require().Len(txns, 1)
	s.Equal(domain.CategoryParcelDeposit, txns[0].Category)
	s.Equal(domain.RelatedExpressParcel, txns[0].Related.Kind)
}

func (s *ParcelServiceTestSuite) TestPartialPickupRejectedThenFullAccepted() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	bank := s.account("MAD bank", domain.CurrencyMAD, "0")
	parcel := s.parcel("1000")
	s.True(parcel.HasDebt)

	_, err := s.svc.Parcel.PickupParcel(s.ctx, parcel.ParcelID, pickup(leg(cash.AccountID, "400"), leg(bank.AccountID, "200")), actorID)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Equal(apperrors.KindConflict, apperrors.Kind(err))

	stored, err := s.svc.Parcel.GetParcel(s.ctx, parcel.ParcelID)
	s.Require().NoError(err)
	s.assertDecimal("0", stored.TotalPaid)
	s.Equal(domain.ParcelRegistered, stored.Status)
	s.Empty(s.transactions(cash.AccountID))
	s.Empty(s.transactions(bank.AccountID))

	delivered, err := s.svc.Parcel.PickupParcel(s.ctx, parcel.ParcelID, pickup(leg(cash.AccountID, "600"), leg(bank.AccountID, "400")), actorID)
	s.Require().NoError(err)
	s.assertDecimal("1000", delivered.TotalPaid)
	s.False(delivered.HasDebt)
	s.Equal(domain.ParcelDelivered, delivered.Status)
	s.assertDecimal("600", s.balance(cash.AccountID))
	s.assertDecimal("400", s.balance(bank.AccountID))
}

func (s *ParcelServiceTestSuite) TestPickupToleranceAboveThousand() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	parcel := s.parcel("2500")

	// A debt above 1000 tolerates one unit.
	_, err := s.svc.Parcel.PickupParcel(s.ctx, parcel.ParcelID, pickup(leg(cash.AccountID, "2498.99")), actorID)
	s.ErrorIs(err, apperrors.ErrConflict)

	delivered, err := s.svc.Parcel.PickupParcel(s.ctx, parcel.ParcelID, pickup(leg(cash.AccountID, "2499")), actorID)
	s.Require().NoError(err)
	s.assertDecimal("2500", delivered.TotalPaid)
	s.False(delivered.HasDebt)
}

func (s *ParcelServiceTestSuite) TestOverSettlementAtPickupClamps() {
	cash := s.account("CFA cash", domain.CurrencyCFA, "0")
	parcel := s.parcel("100")

	delivered, err := s.svc.Parcel.PickupParcel(s.ctx, parcel.ParcelID, pickup(leg(cash.AccountID, "120")), actorID)
	s.Require().NoError(err)
	s.assertDecimal("100", delivered.TotalPaid)
	s.False(delivered.HasDebt)

	// 120 MAD posted on the CFA account at 63.
	s.assertDecimal("7560", s.balance(cash.AccountID))
}

func (s *ParcelServiceTestSuite) TestUpdatePriceAndAssignTrip() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	parcel := s.parcel("300")
	_, err := s.svc.Parcel.RegisterParcelPayment(s.ctx, parcel.ParcelID, payment(cash.AccountID, "300"), actorID)
	s.Require().NoError(err)

	updated, err := s.svc.Parcel.UpdateParcelPrice(s.ctx, parcel.ParcelID, dto.UpdateParcelPriceRequest{TotalPrice: dec("350")}, actorID)
	s.Require().NoError(err)
	s.True(updated.HasDebt)
	s.assertDecimal("50", updated.RemainingDebt())

	_, err = s.svc.Parcel.UpdateParcelPrice(s.ctx, parcel.ParcelID, dto.UpdateParcelPriceRequest{TotalPrice: dec("200")}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)

	trip := s.leg(parcel.WaveID, domain.LegTrip)
	assigned, err := s.svc.Parcel.AssignParcelToTrip(s.ctx, parcel.ParcelID, trip.LegID, actorID)
	s.Require().NoError(err)
	s.Equal(trip.LegID, assigned.TripID)
}

func (s *ParcelServiceTestSuite) TestDeleteParcel() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	parcel := s.parcel("300")
	_, err := s.svc.Parcel.RegisterParcelPayment(s.ctx, parcel.ParcelID, payment(cash.AccountID, "100"), actorID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Parcel.DeleteParcel(s.ctx, parcel.ParcelID, actorID))
	s.Empty(s.transactions(cash.AccountID))
	s.assertDecimal("0", s.balance(cash.AccountID))

	delivered := s.parcel("10")
	_, err = s.svc.Parcel.PickupParcel(s.ctx, delivered.ParcelID, pickup(leg(cash.AccountID, "10")), actorID)
	s.Require().NoError(err)
	s.ErrorIs(s.svc.Parcel.DeleteParcel(s.ctx, delivered.ParcelID, actorID), apperrors.ErrConflict)
	_, err = s.svc.Parcel.CancelParcel(s.ctx, delivered.ParcelID, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)
}
