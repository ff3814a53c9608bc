package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	orderRepo     portsrepo.OrderReader
	parcelRepo    portsrepo.ParcelReader
	ledger        portssvc.LedgerReaderSvc
	currency      portssvc.CurrencySvcFacade
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerReaderSvc,
	currency portssvc.CurrencySvcFacade,
	options ...Option,
) portssvc.ReportingService {
	return &reportingService{
		BaseService:   newBaseService(options),
		reportingRepo: repos.ReportingRepo,
		accountRepo:   repos.AccountRepo,
		orderRepo:     repos.OrderRepo,
		parcelRepo:    repos.ParcelRepo,
		ledger:        ledger,
		currency:      currency,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// BalanceSummary lists the balance of every active account in its own and in the target currency
func (s *reportingService) BalanceSummary(ctx context.Context, targetCurrency string) (*domain.BalanceSummary, error) {
	target := domain.NormalizeCurrency(targetCurrency)
	accounts, err := s.accountRepo.ListAccounts(ctx, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for balance summary")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	summary := &domain.BalanceSummary{
		TargetCurrency: target,
		Accounts:       make([]domain.AccountBalance, 0, len(accounts)),
		Total:          decimal.Zero,
	}
	for _, account := range accounts {
		balance, err := s.ledger.GetAccountBalance(ctx, account.AccountID)
		if err != nil {
			return nil, err
		}
		converted, _, err := s.currency.Convert(ctx, balance, account.CurrencyCode, target)
		if err != nil {
			return nil, err
		}
		summary.Accounts = append(summary.Accounts, domain.AccountBalance{
			AccountID:      account.AccountID,
			Name:           account.Name,
			AccountType:    account.AccountType,
			CurrencyCode:   account.CurrencyCode,
			Balance:        balance,
			Converted:      converted,
			TargetCurrency: target,
		})
		summary.Total = summary.Total.Add(converted)
	}
	summary.Total = summary.Total.Round(moneyPlaces)

	s.LogInfo(ctx, "Balance summary generated",
		slog.String("currency", target),
		slog.Int("account_count", len(summary.Accounts)),
		slog.String("total", summary.Total.StringFixed(2)))
	return summary, nil
}

// Dashboard aggregates balances, debts and the category totals of [from, to)
func (s *reportingService) Dashboard(ctx context.Context, from, to time.Time) (*domain.Dashboard, error) {
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}

	totalCFA, err := s.ledger.GetTotalBalance(ctx, domain.CurrencyCFA)
	if err != nil {
		return nil, err
	}
	totalMAD, err := s.ledger.GetTotalBalance(ctx, domain.CurrencyMAD)
	if err != nil {
		return nil, err
	}
	debtors, err := s.Debtors(ctx)
	if err != nil {
		return nil, err
	}
	ordersInDebt, parcelsInDebt, err := s.reportingRepo.CountInDebt(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count entities in debt")
		return nil, fmt.Errorf("failed to count entities in debt: %w", err)
	}
	totals, err := s.CategoryTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	outstanding := make(map[string]decimal.Decimal)
	for _, debtor := range debtors {
		outstanding[debtor.CurrencyCode] = outstanding[debtor.CurrencyCode].Add(debtor.Remaining)
	}

	return &domain.Dashboard{
		From:            from,
		To:              to,
		TotalBalanceCFA: totalCFA,
		TotalBalanceMAD: totalMAD,
		OutstandingDebt: outstanding,
		OrdersInDebt:    ordersInDebt,
		ParcelsInDebt:   parcelsInDebt,
		CategoryTotals:  totals,
	}, nil
}

// Debtors lists the orders and parcels that still owe money, cancelled ones excluded
func (s *reportingService) Debtors(ctx context.Context) ([]domain.Debtor, error) {
	inDebt := true
	orders, err := s.orderRepo.ListOrders(ctx, domain.OrderFilter{InDebt: &inDebt})
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders in debt")
		return nil, fmt.Errorf("failed to list orders in debt: %w", err)
	}
	parcels, err := s.parcelRepo.ListParcels(ctx, domain.ParcelFilter{InDebt: &inDebt})
	if err != nil {
		s.LogError(ctx, err, "Failed to list parcels in debt")
		return nil, fmt.Errorf("failed to list parcels in debt: %w", err)
	}

	debtors := make([]domain.Debtor, 0, len(orders)+len(parcels))
	for _, order := range orders {
		if order.Status == domain.OrderCancelled {
			continue
		}
		debtors = append(debtors, debtorOf(domain.RelatedBusinessOrder, order.OrderID, order.Reference, order.ClientID, order.Payable))
	}
	for _, parcel := range parcels {
		if parcel.Status == domain.ParcelCancelled {
			continue
		}
		debtors = append(debtors, debtorOf(domain.RelatedExpressParcel, parcel.ParcelID, parcel.Reference, parcel.ClientID, parcel.Payable))
	}
	return debtors, nil
}

// CategoryTotals sums the postings of [from, to) by category, direction and currency
func (s *reportingService) CategoryTotals(ctx context.Context, from, to time.Time) ([]domain.CategoryTotal, error) {
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}
	totals, err := s.reportingRepo.SumTransactionsByCategory(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve category totals",
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve category totals: %w", err)
	}
	return totals, nil
}

func debtorOf(kind domain.RelatedKind, id, reference, clientID string, payable domain.Payable) domain.Debtor {
	return domain.Debtor{
		Kind:         kind,
		EntityID:     id,
		Reference:    reference,
		ClientID:     clientID,
		CurrencyCode: payable.CurrencyCode,
		Principal:    payable.PrincipalAmount,
		TotalPaid:    payable.TotalPaid,
		Remaining:    payable.RemainingDebt(),
	}
}

func checkPeriod(from, to time.Time) error {
	if !to.After(from) {
		return apperrors.NewValidationError("period end must be after its start")
	}
	return nil
}
