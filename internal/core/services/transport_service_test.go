package services_test

import (
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type TransportServiceTestSuite struct {
	ledgerSuite
}

func TestTransportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransportServiceTestSuite))
}

func (s *TransportServiceTestSuite) TestConvoyLifecycle() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "5000")
	order := s.order("300")
	convoy := s.leg(order.WaveID, domain.LegConvoy)
	_, err := s.svc.Order.AssignOrderToConvoy(s.ctx, order.OrderID, convoy.LegID, actorID)
	s.Require().NoError(err)

	departed, err := s.svc.Transport.DepartLeg(s.ctx, convoy.LegID, actorID)
	s.Require().NoError(err)
	s.Equal(domain.LegInTransit, departed.Status)
	s.NotNil(departed.DepartedAt)
	s.orderStatus(order.OrderID, domain.OrderInTransit)

	_, err = s.svc.Transport.DepartLeg(s.ctx, convoy.LegID, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Transport.ArriveLeg(s.ctx, convoy.LegID, actorID)
	s.Require().NoError(err)
	s.orderStatus(order.OrderID, domain.OrderArrived)

	closeReq := dto.CloseRequest{Costs: []dto.CostLineRequest{
		costLine(cash.AccountID, "400", "MAD", "Truck"),
		costLine(cash.AccountID, "100", "MAD", "Driver"),
	}}
	_, err = s.svc.Transport.CloseLeg(s.ctx, convoy.LegID, closeReq, actorID)
	s.ErrorIs(err, apperrors.ErrConflict, "undelivered order blocks closing")

	_, err = s.svc.Order.PickupOrder(s.ctx, order.OrderID, dto.PickupRequest{Payments: payment(cash.AccountID, "300").Payments}, actorID)
	s.Require().NoError(err)

	closed, err := s.svc.Transport.CloseLeg(s.ctx, convoy.LegID, closeReq, actorID)
	s.Require().NoError(err)
	s.Equal(domain.LegClosed, closed.Status)
	s.NotNil(closed.ClosedAt)

	costs, err := s.svc.Cost.ListCosts(s.ctx, domain.CostConvoy, convoy.LegID)
	s.Require().NoError(err)
	s.Len(costs, 2)
	s.assertDecimal("4800", s.balance(cash.AccountID)) // 5000 + 300 - 400 - 100

	wave, err := s.svc.Transport.CloseWave(s.ctx, order.WaveID, dto.CloseRequest{Costs: []dto.CostLineRequest{
		costLine(cash.AccountID, "50", "MAD", "Warehouse"),
	}}, actorID)
	s.Require().NoError(err)
	s.Equal(domain.WaveClosed, wave.Status)
	s.assertDecimal("4750", s.balance(cash.AccountID))

	_, err = s.svc.Transport.CreateLeg(s.ctx, dto.CreateLegRequest{WaveID: wave.WaveID, Kind: domain.LegConvoy, Name: "Late"}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *TransportServiceTestSuite) TestCloseLegRollsBackOnFailedCost() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "1000")
	wave := s.wave(domain.WaveExpress)
	trip := s.leg(wave.WaveID, domain.LegTrip)
	_, err := s.svc.Transport.DepartLeg(s.ctx, trip.LegID, actorID)
	s.Require().NoError(err)
	_, err = s.svc.Transport.ArriveLeg(s.ctx, trip.LegID, actorID)
	s.Require().NoError(err)

	_, err = s.svc.Transport.CloseLeg(s.ctx, trip.LegID, dto.CloseRequest{Costs: []dto.CostLineRequest{
		costLine(cash.AccountID, "100", "MAD", "Flight"),
		costLine("missing-account", "50", "MAD", "Taxi"),
	}}, actorID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	stored, err := s.svc.Transport.GetLeg(s.ctx, trip.LegID)
	s.Require().NoError(err)
	s.Equal(domain.LegArrived, stored.Status)
	costs, err := s.svc.Cost.ListCosts(s.ctx, domain.CostTrip, trip.LegID)
	s.Require().NoError(err)
	s.Empty(costs)
	s.Empty(s.transactions(cash.AccountID))
	s.assertDecimal("1000", s.balance(cash.AccountID))
}

func (s *TransportServiceTestSuite) TestCloseWaveRequiresClosedLegsAndSettledItems() {
	parcel := s.parcel("100")
	trip := s.leg(parcel.WaveID, domain.LegTrip)

	_, err := s.svc.Transport.CloseWave(s.ctx, parcel.WaveID, dto.CloseRequest{}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict, "open trip blocks closing")

	_, err = s.svc.Transport.DepartLeg(s.ctx, trip.LegID, actorID)
	s.Require().NoError(err)
	_, err = s.svc.Transport.ArriveLeg(s.ctx, trip.LegID, actorID)
	s.Require().NoError(err)
	_, err = s.svc.Transport.CloseLeg(s.ctx, trip.LegID, dto.CloseRequest{}, actorID)
	s.Require().NoError(err)

	// The parcel was never put on the trip and is still registered.
	_, err = s.svc.Transport.CloseWave(s.ctx, parcel.WaveID, dto.CloseRequest{}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Parcel.CancelParcel(s.ctx, parcel.ParcelID, actorID)
	s.Require().NoError(err)
	closed, err := s.svc.Transport.CloseWave(s.ctx, parcel.WaveID, dto.CloseRequest{}, actorID)
	s.Require().NoError(err)
	s.Equal(domain.WaveClosed, closed.Status)

	_, err = s.svc.Transport.CloseWave(s.ctx, parcel.WaveID, dto.CloseRequest{}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *TransportServiceTestSuite) TestLegKindMustMatchWave() {
	wave := s.wave(domain.WaveBusiness)
	_, err := s.svc.Transport.CreateLeg(s.ctx, dto.CreateLegRequest{WaveID: wave.WaveID, Kind: domain.LegTrip, Name: "Trip"}, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)

	legs, err := s.svc.Transport.ListLegs(s.ctx, wave.WaveID)
	s.Require().NoError(err)
	s.Empty(legs)

	business := domain.WaveBusiness
	waves, err := s.svc.Transport.ListWaves(s.ctx, &business)
	s.Require().NoError(err)
	s.Len(waves, 1)
}

func (s *TransportServiceTestSuite) orderStatus(orderID string, want domain.OrderStatus) {
	order, err := s.svc.Order.GetOrder(s.ctx, orderID)
	s.Require().NoError(err)
	s.Equal(want, order.Status)
}
