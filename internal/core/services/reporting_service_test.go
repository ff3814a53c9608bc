package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	ledgerSuite
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (s *ReportingServiceTestSuite) TestBalanceSummary() {
	s.account("CFA cash", domain.CurrencyCFA, "6300")
	s.account("MAD cash", domain.CurrencyMAD, "100")

	summary, err := s.svc.Reporting.BalanceSummary(s.ctx, "mad")
	s.Require().NoError(err)
	s.Equal(domain.CurrencyMAD, summary.TargetCurrency)
	s.Len(summary.Accounts, 2)
	s.assertDecimal("200", summary.Total)

	summary, err = s.svc.Reporting.BalanceSummary(s.ctx, domain.CurrencyCFA)
	s.Require().NoError(err)
	s.assertDecimal("12600", summary.Total)
}

func (s *ReportingServiceTestSuite) TestDashboard() {
	s.account("CFA cash", domain.CurrencyCFA, "6300")
	mad := s.account("MAD cash", domain.CurrencyMAD, "100")

	order := s.order("500")
	_, err := s.svc.Order.RegisterOrderPayment(s.ctx, order.OrderID, payment(mad.AccountID, "200"), actorID)
	s.Require().NoError(err)
	s.parcel("200")
	cancelled := s.order("50")
	_, err = s.svc.Order.CancelOrder(s.ctx, cancelled.OrderID, actorID)
	s.Require().NoError(err)

	debtors, err := s.svc.Reporting.Debtors(s.ctx)
	s.Require().NoError(err)
	s.Len(debtors, 2)
	for _, debtor := range debtors {
		s.NotEqual(cancelled.OrderID, debtor.EntityID)
		if debtor.EntityID == order.OrderID {
			s.Equal(domain.RelatedBusinessOrder, debtor.Kind)
			s.assertDecimal("300", debtor.Remaining)
		}
	}

	now := time.Now().UTC()
	dashboard, err := s.svc.Reporting.Dashboard(s.ctx, now.Add(-time.Hour), now.Add(time.Hour))
	s.Require().NoError(err)
	s.assertDecimal("25200", dashboard.TotalBalanceCFA) // 6300 + 300 * 63
	s.assertDecimal("400", dashboard.TotalBalanceMAD)
	s.assertDecimal("500", dashboard.OutstandingDebt[domain.CurrencyMAD])
	s.Equal(1, dashboard.OrdersInDebt)
	s.Equal(1, dashboard.ParcelsInDebt)

	s.Require().Len(dashboard.CategoryTotals, 1)
	total := dashboard.CategoryTotals[0]
	s.Equal(domain.CategoryOrderPayment, total.Category)
	s.Equal(domain.Credit, total.TransactionType)
	s.Equal(domain.CurrencyMAD, total.CurrencyCode)
	s.assertDecimal("200", total.Total)
	s.Equal(1, total.Count)
}

func (s *ReportingServiceTestSuite) TestPeriodMustBeOrdered() {
	now := time.Now()
	_, err := s.svc.Reporting.Dashboard(s.ctx, now, now)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Reporting.CategoryTotals(s.ctx, now, now.Add(-time.Minute))
	s.ErrorIs(err, apperrors.ErrValidation)
}
