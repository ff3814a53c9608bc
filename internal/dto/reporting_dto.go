package dto

import (
	"time"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// BalanceSummaryParams selects the target currency of a balance summary.
type BalanceSummaryParams struct {
	Currency string `form:"currency,default=CFA" binding:"currency"`
}

// PeriodParams defines a reporting period. Both ends are dates; To is inclusive.
type PeriodParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required,gtefield=From" time_format:"2006-01-02"`
}

// Bounds returns the period as a half-open [from, to) range.
func (p PeriodParams) Bounds() (time.Time, time.Time) {
	return p.From, p.To.AddDate(0, 0, 1)
}

// DebtorsResponse wraps the list of entities in debt.
type DebtorsResponse struct {
	Debtors []domain.Debtor `json:"debtors"`
}

// CategoryTotalsResponse wraps the per-category totals of a period.
type CategoryTotalsResponse struct {
	From   string                 `json:"from"`
	To     string                 `json:"to"`
	Totals []domain.CategoryTotal `json:"totals"`
}
