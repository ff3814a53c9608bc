package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; exists {
			return apperrors.ErrDuplicate
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; !exists {
			return apperrors.NewNotFoundError("account " + account.AccountID)
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.accounts[accountID]; !exists {
			return apperrors.NewNotFoundError("account " + accountID)
		}
		delete(st.accounts, accountID)
		return nil
	})
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var found domain.Account
	err := s.view(ctx, func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok {
			return apperrors.NewNotFoundError("account " + accountID)
		}
		found = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	result := make([]domain.Account, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, acc := range st.accounts {
			if activeOnly && !acc.IsActive {
				continue
			}
			result = append(result, acc)
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].AccountID < result[j].AccountID
	})
	return result, nil
}

// FindAccountsByIDsForUpdate needs no row lock here since units are serialized.
func (s *Store) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	_ = s.view(ctx, func(st *state) error {
		for _, id := range accountIDs {
			if acc, ok := st.accounts[id]; ok {
				result[id] = acc
			}
		}
		return nil
	})
	return result, nil
}

func (s *Store) UpdateCurrentBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	return s.update(ctx, func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok {
			return apperrors.NewNotFoundError("account " + accountID)
		}
		acc.CurrentBalance = balance
		acc.Touch(userID, now)
		st.accounts[accountID] = acc
		return nil
	})
}
