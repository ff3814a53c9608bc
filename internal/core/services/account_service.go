package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/google/uuid"
)

type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
}

// NewAccountService creates a new account service.
func NewAccountService(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	options ...Option,
) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options),
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	currency := domain.NormalizeCurrency(req.CurrencyCode)
	if err := validateAccountFields(req.Name, req.AccountType, currency); err != nil {
		return nil, err
	}
	if req.InitialBalance.IsNegative() {
		return nil, apperrors.NewValidationError("initial balance must not be negative")
	}

	now := s.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Name:           strings.TrimSpace(req.Name),
		AccountType:    req.AccountType,
		CurrencyCode:   currency,
		InitialBalance: req.InitialBalance.Round(moneyPlaces),
		CurrentBalance: req.InitialBalance.Round(moneyPlaces),
		Description:    req.Description,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(userID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_name", account.Name))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("currency", account.CurrencyCode))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.LogDebug(ctx, "Account lookup failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, activeOnly)
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	var updated domain.Account
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		account, err := s.lockAccount(ctx, accountID)
		if err != nil {
			return err
		}

		frozen := (req.AccountType != nil && *req.AccountType != account.AccountType) ||
			(req.CurrencyCode != nil && domain.NormalizeCurrency(*req.CurrencyCode) != account.CurrencyCode) ||
			(req.InitialBalance != nil && !req.InitialBalance.Round(moneyPlaces).Equal(account.InitialBalance))
		if frozen {
			totals, err := s.txnRepo.SumTransactionsByAccount(ctx, accountID)
			if err != nil {
				return err
			}
			if totals.Count > 0 {
				return apperrors.NewConflictError("type, currency and initial balance cannot change once an account has transactions")
			}
		}

		if req.Name != nil {
			account.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			account.Description = *req.Description
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
		}
		if req.AccountType != nil {
			account.AccountType = *req.AccountType
		}
		if req.CurrencyCode != nil {
			account.CurrencyCode = domain.NormalizeCurrency(*req.CurrencyCode)
		}
		if req.InitialBalance != nil {
			if req.InitialBalance.IsNegative() {
				return apperrors.NewValidationError("initial balance must not be negative")
			}
			if initial := req.InitialBalance.Round(moneyPlaces); !initial.Equal(account.InitialBalance) {
				account.InitialBalance = initial
				account.CurrentBalance = initial
			}
		}
		if err := validateAccountFields(account.Name, account.AccountType, account.CurrencyCode); err != nil {
			return err
		}

		account.Touch(userID, s.Now())
		if err := s.accountRepo.UpdateAccount(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return &updated, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.lockAccount(ctx, accountID); err != nil {
			return err
		}
		totals, err := s.txnRepo.SumTransactionsByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if totals.Count > 0 {
			return apperrors.NewConflictError("an account with transactions cannot be deleted")
		}
		return s.accountRepo.DeleteAccount(ctx, accountID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("user_id", userID))
	return nil
}

func (s *accountService) lockAccount(ctx context.Context, accountID string) (domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, []string{accountID})
	if err != nil {
		return domain.Account{}, err
	}
	account, ok := accounts[accountID]
	if !ok {
		return domain.Account{}, apperrors.NewNotFoundError("account " + accountID)
	}
	return account, nil
}

func validateAccountFields(name string, accountType domain.AccountType, currency string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("account name is required")
	}
	if !accountType.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown account type %q", accountType))
	}
	if !domain.IsFirstClassCurrency(currency) {
		return apperrors.NewValidationError(fmt.Sprintf("account currency must be %s or %s, got %q", domain.CurrencyCFA, domain.CurrencyMAD, currency))
	}
	return nil
}
