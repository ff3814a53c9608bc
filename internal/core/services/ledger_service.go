package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService posts and reads the append-only transaction log.
type ledgerService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
	allocator   *ReferenceAllocator
	currency    portssvc.CurrencySvcFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	allocator *ReferenceAllocator,
	currency portssvc.CurrencySvcFacade,
	options ...Option,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: newBaseService(options),
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		allocator:   allocator,
		currency:    currency,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.FinancialTransaction, error) {
	if !req.TransactionType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown transaction type %q", req.TransactionType))
	}
	// Transfer legs are only written in pairs by CreateTransfer.
	if req.TransactionType == domain.TransferIn || req.TransactionType == domain.TransferOut {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s rows are posted through transfers", req.TransactionType))
	}
	if req.Amount.IsNegative() {
		return nil, apperrors.NewValidationError("amount must not be negative")
	}
	if strings.TrimSpace(string(req.Category)) == "" {
		return nil, apperrors.NewValidationError("category is required")
	}
	related := req.Related()
	if related != nil && !related.Kind.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown related kind %q", related.Kind))
	}

	txn := domain.FinancialTransaction{
		TransactionID:    uuid.NewString(),
		AccountID:        req.AccountID,
		TransactionType:  req.TransactionType,
		Amount:           req.Amount.Round(moneyPlaces),
		CurrencyCode:     domain.NormalizeCurrency(req.CurrencyCode),
		Category:         req.Category,
		Related:          related,
		Description:      req.Description,
		ExchangeRateUsed: req.ExchangeRateUsed,
		CreatedBy:        userID,
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		accounts, err := s.lockAccounts(ctx, txn.AccountID)
		if err != nil {
			return err
		}
		if err := checkPostable(accounts[txn.AccountID], txn.CurrencyCode); err != nil {
			return err
		}
		if err := s.insert(ctx, &txn); err != nil {
			return err
		}
		return s.refreshBalance(ctx, accounts[txn.AccountID], userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transaction",
			slog.String("account_id", req.AccountID),
			slog.String("category", string(req.Category)))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("reference", txn.Reference),
		slog.String("account_id", txn.AccountID),
		slog.String("type", string(txn.TransactionType)),
		slog.String("amount", txn.Amount.StringFixed(2)))
	return &txn, nil
}

func (s *ledgerService) CreateTransfer(ctx context.Context, req dto.CreateTransferRequest, userID string) (*domain.Transfer, error) {
	switch {
	case req.SourceAccountID == req.DestinationAccountID:
		return nil, apperrors.NewValidationError("source and destination accounts must differ")
	case !req.SourceAmount.IsPositive() || !req.DestinationAmount.IsPositive():
		return nil, apperrors.NewValidationError("transfer amounts must be positive")
	case !req.ExchangeRate.IsPositive():
		return nil, apperrors.NewValidationError("exchange rate must be positive")
	}

	now := s.Now()
	transferRef := fmt.Sprintf("TRF-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
	rate := req.ExchangeRate
	transfer := domain.Transfer{
		TransferReference: transferRef,
		Debit: domain.FinancialTransaction{
			TransactionID:     uuid.NewString(),
			AccountID:         req.SourceAccountID,
			TransactionType:   domain.TransferOut,
			Amount:            req.SourceAmount.Round(moneyPlaces),
			CurrencyCode:      domain.NormalizeCurrency(req.SourceCurrency),
			Category:          domain.CategoryTransferConversion,
			Description:       req.Description,
			ExchangeRateUsed:  &rate,
			TransferReference: &transferRef,
			CreatedBy:         userID,
		},
		Credit: domain.FinancialTransaction{
			TransactionID:     uuid.NewString(),
			AccountID:         req.DestinationAccountID,
			TransactionType:   domain.TransferIn,
			Amount:            req.DestinationAmount.Round(moneyPlaces),
			CurrencyCode:      domain.NormalizeCurrency(req.DestinationCurrency),
			Category:          domain.CategoryTransferConversion,
			Description:       req.Description,
			ExchangeRateUsed:  &rate,
			TransferReference: &transferRef,
			CreatedBy:         userID,
		},
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		accounts, err := s.lockAccounts(ctx, req.SourceAccountID, req.DestinationAccountID)
		if err != nil {
			return err
		}
		// Both currencies are checked before the first leg is written.
		if err := checkPostable(accounts[req.SourceAccountID], transfer.Debit.CurrencyCode); err != nil {
			return err
		}
		if err := checkPostable(accounts[req.DestinationAccountID], transfer.Credit.CurrencyCode); err != nil {
			return err
		}

		if err := s.insert(ctx, &transfer.Debit); err != nil {
			return err
		}
		if err := s.insert(ctx, &transfer.Credit); err != nil {
			return err
		}
		if err := s.refreshBalance(ctx, accounts[req.SourceAccountID], userID); err != nil {
			return err
		}
		return s.refreshBalance(ctx, accounts[req.DestinationAccountID], userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transfer",
			slog.String("source_account_id", req.SourceAccountID),
			slog.String("destination_account_id", req.DestinationAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer created",
		slog.String("transfer_reference", transferRef),
		slog.String("source_amount", transfer.Debit.Amount.StringFixed(2)),
		slog.String("destination_amount", transfer.Credit.Amount.StringFixed(2)))
	return &transfer, nil
}

func (s *ledgerService) DeleteRelatedTransactions(ctx context.Context, related domain.RelatedEntity, categories []domain.Category, userID string) (int, error) {
	deleted := 0
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		txns, err := s.txnRepo.FindTransactionsByRelated(ctx, related, categories)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			return nil
		}

		ids := make([]string, 0, len(txns))
		accountIDs := make([]string, 0, len(txns))
		for _, txn := range txns {
			ids = append(ids, txn.TransactionID)
			accountIDs = append(accountIDs, txn.AccountID)
		}
		accounts, err := s.lockAccounts(ctx, accountIDs...)
		if err != nil {
			return err
		}
		if err := s.txnRepo.DeleteTransactions(ctx, ids); err != nil {
			return err
		}
		for _, account := range accounts {
			if err := s.refreshBalance(ctx, account, userID); err != nil {
				return err
			}
		}
		deleted = len(ids)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete related transactions",
			slog.String("related_kind", string(related.Kind)),
			slog.String("related_id", related.ID))
		return 0, err
	}

	if deleted > 0 {
		s.LogInfo(ctx, "Related transactions deleted",
			slog.String("related_kind", string(related.Kind)),
			slog.String("related_id", related.ID),
			slog.Int("count", deleted))
	}
	return deleted, nil
}

func (s *ledgerService) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.balanceOf(ctx, *account)
}

func (s *ledgerService) GetAccountBalanceInCurrency(ctx context.Context, accountID string, targetCurrency string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.balanceIn(ctx, *account, targetCurrency)
}

func (s *ledgerService) GetTotalBalance(ctx context.Context, targetCurrency string) (decimal.Decimal, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, true)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, account := range accounts {
		balance, err := s.balanceIn(ctx, account, targetCurrency)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(balance)
	}
	return total.Round(moneyPlaces), nil
}

func (s *ledgerService) GetTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.FinancialTransaction, *string, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, nil, err
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, nil, apperrors.NewValidationError("date range end must be after its start")
	}
	return s.txnRepo.ListTransactionsByAccount(ctx, accountID, filter)
}

func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

func (s *ledgerService) GetTransfer(ctx context.Context, transferReference string) (*domain.Transfer, error) {
	legs, err := s.txnRepo.FindTransactionsByTransferReference(ctx, transferReference)
	if err != nil {
		return nil, err
	}
	if len(legs) == 0 {
		return nil, apperrors.NewNotFoundError("transfer " + transferReference)
	}

	transfer := domain.Transfer{TransferReference: transferReference}
	var haveDebit, haveCredit bool
	for _, leg := range legs {
		switch leg.TransactionType {
		case domain.TransferOut:
			transfer.Debit, haveDebit = leg, true
		case domain.TransferIn:
			transfer.Credit, haveCredit = leg, true
		}
	}
	if len(legs) != 2 || !haveDebit || !haveCredit {
		err := fmt.Errorf("%w: transfer %s has %d legs", apperrors.ErrInternal, transferReference, len(legs))
		s.LogError(ctx, err, "Malformed transfer")
		return nil, err
	}
	return &transfer, nil
}

// lockAccounts locks the accounts in ID order and fails when one is missing.
func (s *ledgerService) lockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, apperrors.NewNotFoundError("account " + id)
		}
	}
	return accounts, nil
}

func (s *ledgerService) insert(ctx context.Context, txn *domain.FinancialTransaction) error {
	txn.CreatedAt = s.Now()
	_, err := s.allocator.Allocate(ctx, domain.TransactionReferencePattern(txn.CreatedAt), func(ctx context.Context, reference string) error {
		txn.Reference = reference
		return s.txnRepo.SaveTransaction(ctx, *txn)
	})
	return err
}

// refreshBalance rewrites the display balance of account from its log.
func (s *ledgerService) refreshBalance(ctx context.Context, account domain.Account, userID string) error {
	balance, err := s.balanceOf(ctx, account)
	if err != nil {
		return err
	}
	return s.accountRepo.UpdateCurrentBalance(ctx, account.AccountID, balance, userID, s.Now())
}

func (s *ledgerService) balanceOf(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	totals, err := s.txnRepo.SumTransactionsByAccount(ctx, account.AccountID)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.Balance(account.InitialBalance, totals), nil
}

func (s *ledgerService) balanceIn(ctx context.Context, account domain.Account, targetCurrency string) (decimal.Decimal, error) {
	balance, err := s.balanceOf(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	converted, _, err := s.currency.Convert(ctx, balance, account.CurrencyCode, targetCurrency)
	return converted, err
}

func checkPostable(account domain.Account, currency string) error {
	if account.CurrencyCode != currency {
		return apperrors.NewCurrencyMismatchError(account.CurrencyCode, currency)
	}
	if !account.IsActive {
		return apperrors.NewValidationError("account " + account.AccountID + " is inactive")
	}
	return nil
}
