package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// TransactionReader defines read operations over the ledger log
type TransactionReader interface {
	// FindTransactionByID retrieves a single ledger row.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error)

	// FindTransactionsByTransferReference returns the legs of a transfer.
	FindTransactionsByTransferReference(ctx context.Context, transferReference string) ([]domain.FinancialTransaction, error)

	// FindTransactionsByRelated returns the rows pointing at an entity, restricted to categories when any are given.
	FindTransactionsByRelated(ctx context.Context, related domain.RelatedEntity, categories []domain.Category) ([]domain.FinancialTransaction, error)

	// ListTransactionsByAccount retrieves a filtered page of an account's rows, newest first.
	// It returns the rows, a token for the next page, and an error.
	ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.FinancialTransaction, *string, error)

	// SumTransactionsByAccount totals an account's log by direction.
	SumTransactionsByAccount(ctx context.Context, accountID string) (domain.AccountTotals, error)
}

// TransactionWriter defines the only two mutations the log allows
type TransactionWriter interface {
	// SaveTransaction appends a row. It returns apperrors.ErrDuplicate when the reference is taken.
	SaveTransaction(ctx context.Context, txn domain.FinancialTransaction) error

	// DeleteTransactions removes rows as a compensating action.
	DeleteTransactions(ctx context.Context, transactionIDs []string) error
}

// TransactionRepositoryFacade combines all ledger log repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// CategoryTotalsReader aggregates the log by category.
type CategoryTotalsReader interface {
	// SumTransactionsByCategory groups rows created in [from, to) by category, type and currency.
	SumTransactionsByCategory(ctx context.Context, from, to time.Time) ([]domain.CategoryTotal, error)
}
