package services_test

import (
	"sync"
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	ledgerSuite
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func payment(accountID, amount string) dto.PaymentRequest {
	return dto.PaymentRequest{Payments: []dto.PaymentLegRequest{{AccountID: accountID, Amount: dec(amount)}}}
}

func (s *OrderServiceTestSuite) TestCreateOrderWithProductsPaymentsAndPurchase() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	bank := s.account("CFA bank", domain.CurrencyCFA, "100000")
	product, err := s.svc.Client.CreateProduct(s.ctx, dto.CreateProductRequest{Name: "Tea", CurrencyCode: "MAD", UnitPrice: dec("12.50")}, actorID)
	s.Require().NoError(err)

	order, err := s.svc.Order.CreateOrder(s.ctx, dto.CreateOrderRequest{
		ClientID:     s.client(domain.ClientBoth).ClientID,
		WaveID:       s.wave(domain.WaveBusiness).WaveID,
		CurrencyCode: "mad",
		Items: []dto.OrderItemRequest{
			{ProductID: product.ProductID, Quantity: 4},
			{Description: "Packing", Quantity: 2, UnitPrice: dec("25")},
		},
		Payments: []dto.PaymentLegRequest{
			{AccountID: cash.AccountID, Amount: dec("30")},
			{AccountID: bank.AccountID, Amount: dec("20")},
		},
		Purchase: &dto.PurchaseRequest{AccountID: bank.AccountID, Amount: dec("40")},
	}, actorID)
	s.Require().NoError(err)

	s.Equal("CMD-BUS-0001", order.Reference)
	s.Equal(domain.OrderPending, order.Status)
	s.Equal("Tea", order.Items[0].Description)
	s.assertDecimal("100", order.PrincipalAmount)
	s.assertDecimal("50", order.TotalPaid)
	s.True(order.HasDebt)

	// The 20 MAD leg lands on the CFA account converted at 63, the purchase is debited there too.
	s.assertDecimal("30", s.balance(cash.AccountID))
	s.assertDecimal("98740", s.balance(bank.AccountID)) // 100000 + 1260 - 2520
	bankTxns := s.transactions(bank.AccountID)
	s.Len(bankTxns, 2)
	for _, txn := range bankTxns {
		s.Equal("CFA", txn.CurrencyCode)
		s.Require().NotNil(txn.ExchangeRateUsed)
		s.assertDecimal("63", *txn.ExchangeRateUsed)
		s.Require().NotNil(txn.Related)
		s.Equal(domain.RelatedEntity{Kind: domain.RelatedBusinessOrder, ID: order.OrderID}, *txn.Related)
	}
	cashTxns := s.transactions(cash.AccountID)
	s.Require().Len(cashTxns, 1)
	s.Nil(cashTxns[0].ExchangeRateUsed)
	s.Equal(domain.CategoryOrderPayment, cashTxns[0].Category)

	second := s.order("10")
	s.Equal("CMD-BUS-0002", second.Reference)
}

func (s *OrderServiceTestSuite) TestCreateOrderRejectsWrongClientOrWave() {
	express := s.client(domain.ClientExpress)
	_, err := s.svc.Order.CreateOrder(s.ctx, dto.CreateOrderRequest{
		ClientID: express.ClientID, WaveID: s.wave(domain.WaveBusiness).WaveID, CurrencyCode: "MAD",
		Items: []dto.OrderItemRequest{{Quantity: 1, UnitPrice: dec("1")}},
	}, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Order.CreateOrder(s.ctx, dto.CreateOrderRequest{
		ClientID: s.client(domain.ClientBusiness).ClientID, WaveID: s.wave(domain.WaveExpress).WaveID, CurrencyCode: "MAD",
		Items: []dto.OrderItemRequest{{Quantity: 1, UnitPrice: dec("1")}},
	}, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)

	orders, err := s.svc.Order.ListOrders(s.ctx, domain.OrderFilter{})
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *OrderServiceTestSuite) TestPaymentsKeepDebtFlagInStep() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	order := s.order("1000")

	steps := []struct {
		amount  string
		paid    string
		hasDebt bool
	}{
		{"250", "250", true},
		{"0", "250", true},
		{"749.99", "999.99", true},
		{"0.01", "1000", false},
	}
	for _, step := range steps {
		updated, err := s.svc.Order.RegisterOrderPayment(s.ctx, order.OrderID, payment(cash.AccountID, step.amount), actorID)
		s.Require().NoError(err)
		s.assertDecimal(step.paid, updated.TotalPaid)
		s.Equal(step.hasDebt, updated.HasDebt)
		s.Equal(updated.TotalPaid.LessThan(updated.PrincipalAmount), updated.HasDebt)
	}
	s.assertDecimal("1000", s.balance(cash.AccountID))
}

func (s *OrderServiceTestSuite) TestOverpaymentIsRejected() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	order := s.order("100")

	_, err := s.svc.Order.RegisterOrderPayment(s.ctx, order.OrderID, payment(cash.AccountID, "150"), actorID)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Order.RegisterOrderPayment(s.ctx, order.OrderID, payment(cash.AccountID, "-5"), actorID)
	s.ErrorIs(err, apperrors.ErrValidation)

	stored, err := s.svc.Order.GetOrder(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.assertDecimal("0", stored.TotalPaid)
	s.Empty(s.transactions(cash.AccountID))
}

func (s *OrderServiceTestSuite) TestFailedPostingRollsBackPayment() {
	order := s.order("100")
	_, err := s.svc.Order.RegisterOrderPayment(s.ctx, order.OrderID, payment("missing-account", "50"), actorID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	stored, err := s.svc.Order.GetOrder(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.assertDecimal("0", stored.TotalPaid)
	s.True(stored.HasDebt)
}

func (s *OrderServiceTestSuite) TestConcurrentPaymentsDoNotLoseUpdates() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	order := s.order("1000")

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, amount := range []string{"300", "500"} {
		wg.Add(1)
		go func(amount string) {
			defer wg.Done()
			_, err := s.svc.Order.RegisterOrderPayment(s.ctx, order.OrderID, payment(cash.AccountID, amount), actorID)
			errs <- err
		}(amount)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	stored, err := s.svc.Order.GetOrder(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.assertDecimal("800", stored.TotalPaid)
	s.True(stored.HasDebt)
	s.assertDecimal("800", s.balance(cash.AccountID))
}

func (s *OrderServiceTestSuite) TestUpdateItemsRecomputesPrincipal() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	order := s.order("100")
	_, err := s.svc.Order.RegisterOrderPayment(s.ctx, order.OrderID, payment(cash.AccountID, "100"), actorID)
	s.Require().NoError(err)

	updated, err := s.svc.Order.UpdateOrderItems(s.ctx, order.OrderID, dto.UpdateOrderItemsRequest{
		Items: []dto.OrderItemRequest{{Description: "More goods", Quantity: 3, UnitPrice: dec("40")}},
	}, actorID)
	s.Require().NoError(err)
	s.assertDecimal("120", updated.PrincipalAmount)
	s.True(updated.HasDebt)
	s.assertDecimal("20", updated.RemainingDebt())

	_, err = s.svc.Order.UpdateOrderItems(s.ctx, order.OrderID, dto.UpdateOrderItemsRequest{
		Items: []dto.OrderItemRequest{{Description: "Less", Quantity: 1, UnitPrice: dec("50")}},
	}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *OrderServiceTestSuite) TestPickupRequiresFullSettlement() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	order := s.order("1000")

	_, err := s.svc.Order.PickupOrder(s.ctx, order.OrderID, dto.PickupRequest{Payments: payment(cash.AccountID, "600").Payments}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)

	// Within the tolerance of 0.01 for a debt of exactly 1000.
	delivered, err := s.svc.Order.PickupOrder(s.ctx, order.OrderID, dto.PickupRequest{Payments: payment(cash.AccountID, "999.99").Payments}, actorID)
	s.Require().NoError(err)
	s.Equal(domain.OrderDelivered, delivered.Status)
	s.assertDecimal("1000", delivered.TotalPaid)
	s.False(delivered.HasDebt)

	txns := s.transactions(cash.AccountID)
	s.Require().Len(txns, 1)
	s.Equal(domain.CategoryOrderPickupPayment, txns[0].Category)

	_, err = s.svc.Order.PickupOrder(s.ctx, order.OrderID, dto.PickupRequest{}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *OrderServiceTestSuite) TestPickupWithNothingOwed() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	order := s.order("50")
	_, err := s.svc.Order.RegisterOrderPayment(s.ctx, order.OrderID, payment(cash.AccountID, "50"), actorID)
	s.Require().NoError(err)

	_, err = s.svc.Order.PickupOrder(s.ctx, order.OrderID, dto.PickupRequest{Payments: payment(cash.AccountID, "5").Payments}, actorID)
	s.ErrorIs(err, apperrors.ErrConflict)

	delivered, err := s.svc.Order.PickupOrder(s.ctx, order.OrderID, dto.PickupRequest{}, actorID)
	s.Require().NoError(err)
	s.Equal(domain.OrderDelivered, delivered.Status)
}

func (s *OrderServiceTestSuite) TestDeleteCascadesLedgerRows() {
	cash := s.account("MAD cash", domain.CurrencyMAD, "0")
	order := s.order("500")
	_, err := s.svc.Order.RegisterOrderPayment(s.ctx, order.OrderID, payment(cash.AccountID, "200"), actorID)
	s.Require().NoError(err)
	unrelated, err := s.post(cash.AccountID, domain.Credit, "7", "MAD", domain.CategoryParcelDeposit)
	s.Require().NoError(err)
	s.assertDecimal("207", s.balance(cash.AccountID))

	s.Require().NoError(s.svc.Order.DeleteOrder(s.ctx, order.OrderID, actorID))

	_, err = s.svc.Order.GetOrder(s.ctx, order.OrderID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	txns := s.transactions(cash.AccountID)
	s.Require().Len(txns, 1)
	s.Equal(unrelated.TransactionID, txns[0].TransactionID)
	s.assertDecimal("7", s.balance(cash.AccountID))

	stored, err := s.svc.Account.GetAccountByID(s.ctx, cash.AccountID)
	s.Require().NoError(err)
	s.assertDecimal("7", stored.CurrentBalance)
}

func (s *OrderServiceTestSuite) TestDeleteRefusedOnceInTransit() {
	order := s.order("500")
	convoy := s.leg(order.WaveID, domain.LegConvoy)

	assigned, err := s.svc.Order.AssignOrderToConvoy(s.ctx, order.OrderID, convoy.LegID, actorID)
	s.Require().NoError(err)
	s.Equal(domain.OrderConfirmed, assigned.Status)
	s.ErrorIs(s.svc.Order.DeleteOrder(s.ctx, order.OrderID, actorID), apperrors.ErrConflict)

	_, err = s.svc.Transport.DepartLeg(s.ctx, convoy.LegID, actorID)
	s.Require().NoError(err)
	_, err = s.svc.Order.CancelOrder(s.ctx, order.OrderID, actorID)
	s.Require().NoError(err)

	// Cancelled orders may be deleted again.
	s.Require().NoError(s.svc.Order.DeleteOrder(s.ctx, order.OrderID, actorID))
}

func (s *OrderServiceTestSuite) TestAssignToConvoyChecksLeg() {
	order := s.order("500")
	otherWave := s.wave(domain.WaveBusiness)
	foreign := s.leg(otherWave.WaveID, domain.LegConvoy)
	trip := s.leg(s.wave(domain.WaveExpress).WaveID, domain.LegTrip)

	_, err := s.svc.Order.AssignOrderToConvoy(s.ctx, order.OrderID, foreign.LegID, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Order.AssignOrderToConvoy(s.ctx, order.OrderID, trip.LegID, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Order.AssignOrderToConvoy(s.ctx, order.OrderID, "missing", actorID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}
