package services

import (
	"context"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// ReportingService defines read-only projections over the ledger and the debt caches
type ReportingService interface {
	// BalanceSummary lists every active account with its balance converted to target.
	BalanceSummary(ctx context.Context, targetCurrency string) (*domain.BalanceSummary, error)

	// Dashboard aggregates balances, debts and category totals for [from, to).
	Dashboard(ctx context.Context, from, to time.Time) (*domain.Dashboard, error)

	// Debtors lists the active orders and parcels in debt.
	Debtors(ctx context.Context) ([]domain.Debtor, error)

	// CategoryTotals sums the postings of [from, to) by category.
	CategoryTotals(ctx context.Context, from, to time.Time) ([]domain.CategoryTotal, error)
}
