package accounting_test

import (
	"testing"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalsAndBalance(t *testing.T) {
	txns := []domain.FinancialTransaction{
		{TransactionType: domain.Credit, Amount: decimal.NewFromInt(1000)},
		{TransactionType: domain.Debit, Amount: decimal.NewFromInt(200)},
		{TransactionType: domain.TransferIn, Amount: decimal.RequireFromString("50.25")},
		{TransactionType: domain.TransferOut, Amount: decimal.RequireFromString("0.25")},
	}

	totals := accounting.Totals(txns)
	assert.Equal(t, 4, totals.Count)
	assert.True(t, totals.Increases.Equal(decimal.RequireFromString("1050.25")))
	assert.True(t, totals.Decreases.Equal(decimal.RequireFromString("200.25")))

	balance := accounting.Balance(decimal.NewFromInt(100), totals)
	assert.True(t, balance.Equal(decimal.NewFromInt(950)), "got %s", balance)
}

func TestTotals_Empty(t *testing.T) {
	totals := accounting.Totals(nil)
	assert.Zero(t, totals.Count)
	assert.True(t, accounting.Balance(decimal.NewFromInt(5), totals).Equal(decimal.NewFromInt(5)))
}
