package accounting

import (
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Totals sums ledger rows by direction. Credits and incoming transfers
// increase a balance; debits and outgoing transfers decrease it.
func Totals(txns []domain.FinancialTransaction) domain.AccountTotals {
	totals := domain.AccountTotals{Increases: decimal.Zero, Decreases: decimal.Zero}
	for _, txn := range txns {
		if txn.TransactionType.Increases() {
			totals.Increases = totals.Increases.Add(txn.Amount)
		} else {
			totals.Decreases = totals.Decreases.Add(txn.Amount)
		}
		totals.Count++
	}
	return totals
}

// Balance applies the totals of an account's log to its initial balance.
func Balance(initial decimal.Decimal, totals domain.AccountTotals) decimal.Decimal {
	return initial.Add(totals.Increases).Sub(totals.Decreases).Round(2)
}
