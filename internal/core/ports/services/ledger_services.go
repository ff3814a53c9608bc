package services

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerWriterSvc defines the postings of the ledger. Each call joins the
// unit of work carried by ctx, or runs in its own.
type LedgerWriterSvc interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.FinancialTransaction, error)
	CreateTransfer(ctx context.Context, req dto.CreateTransferRequest, userID string) (*domain.Transfer, error)

	// DeleteRelatedTransactions removes the rows of an entity in the given
	// categories and refreshes the balances of the affected accounts. It is a
	// compensating action reserved to the domain layer.
	DeleteRelatedTransactions(ctx context.Context, related domain.RelatedEntity, categories []domain.Category, userID string) (int, error)
}

// LedgerReaderSvc defines reads over the ledger. Balances are derived from the log on every call.
type LedgerReaderSvc interface {
	GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetAccountBalanceInCurrency(ctx context.Context, accountID string, targetCurrency string) (decimal.Decimal, error)
	GetTotalBalance(ctx context.Context, targetCurrency string) (decimal.Decimal, error)
	GetTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.FinancialTransaction, *string, error)
	GetTransaction(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error)
	GetTransfer(ctx context.Context, transferReference string) (*domain.Transfer, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
