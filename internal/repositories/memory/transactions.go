package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/utils/accounting"
	"github.com/SscSPs/cargo_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const defaultTransactionPageSize = 20

func (s *Store) SaveTransaction(ctx context.Context, txn domain.FinancialTransaction) error {
	return s.update(ctx, func(st *state) error {
		if _, exists := st.txns[txn.TransactionID]; exists {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		for _, existing := range st.txns {
			if existing.Reference == txn.Reference {
				return fmt.Errorf("%w: reference %s", apperrors.ErrDuplicate, txn.Reference)
			}
		}
		st.txns[txn.TransactionID] = txn
		return nil
	})
}

func (s *Store) DeleteTransactions(ctx context.Context, transactionIDs []string) error {
	return s.update(ctx, func(st *state) error {
		for _, id := range transactionIDs {
			delete(st.txns, id)
		}
		return nil
	})
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error) {
	var found domain.FinancialTransaction
	err := s.view(ctx, func(st *state) error {
		txn, ok := st.txns[transactionID]
		if !ok {
			return apperrors.NewNotFoundError("transaction " + transactionID)
		}
		found = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Store) FindTransactionsByTransferReference(ctx context.Context, transferReference string) ([]domain.FinancialTransaction, error) {
	return s.collectTransactions(ctx, func(txn domain.FinancialTransaction) bool {
		return txn.TransferReference != nil && *txn.TransferReference == transferReference
	}), nil
}

func (s *Store) FindTransactionsByRelated(ctx context.Context, related domain.RelatedEntity, categories []domain.Category) ([]domain.FinancialTransaction, error) {
	return s.collectTransactions(ctx, func(txn domain.FinancialTransaction) bool {
		if txn.Related == nil || *txn.Related != related {
			return false
		}
		return len(categories) == 0 || slices.Contains(categories, txn.Category)
	}), nil
}

func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.FinancialTransaction, *string, error) {
	var cursorAt time.Time
	var cursorID string
	if filter.NextToken != nil && *filter.NextToken != "" {
		var err error
		cursorAt, cursorID, err = pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
	}

	rows := s.collectTransactions(ctx, func(txn domain.FinancialTransaction) bool {
		switch {
		case txn.AccountID != accountID:
			return false
		case filter.Type != nil && txn.TransactionType != *filter.Type:
			return false
		case filter.Category != nil && txn.Category != *filter.Category:
			return false
		case filter.From != nil && txn.CreatedAt.Before(*filter.From):
			return false
		case filter.To != nil && !txn.CreatedAt.Before(*filter.To):
			return false
		case cursorID != "" && !pagination.IsAfterCursor(txn.CreatedAt, txn.TransactionID, cursorAt, cursorID):
			return false
		}
		return true
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}
	if len(rows) <= limit {
		return rows, nil, nil
	}
	page := rows[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
	return page, &token, nil
}

func (s *Store) SumTransactionsByAccount(ctx context.Context, accountID string) (domain.AccountTotals, error) {
	rows := s.collectTransactions(ctx, func(txn domain.FinancialTransaction) bool {
		return txn.AccountID == accountID
	})
	return accounting.Totals(rows), nil
}

func (s *Store) SumTransactionsByCategory(ctx context.Context, from, to time.Time) ([]domain.CategoryTotal, error) {
	type key struct {
		category domain.Category
		txnType  domain.TransactionType
		currency string
	}
	groups := make(map[key]*domain.CategoryTotal)
	rows := s.collectTransactions(ctx, func(txn domain.FinancialTransaction) bool {
		return !txn.CreatedAt.Before(from) && txn.CreatedAt.Before(to)
	})
	for _, txn := range rows {
		k := key{txn.Category, txn.TransactionType, txn.CurrencyCode}
		g, ok := groups[k]
		if !ok {
			g = &domain.CategoryTotal{Category: k.category, TransactionType: k.txnType, CurrencyCode: k.currency, Total: decimal.Zero}
			groups[k] = g
		}
		g.Total = g.Total.Add(txn.Amount)
		g.Count++
	}

	result := make([]domain.CategoryTotal, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	sortCategoryTotals(result)
	return result, nil
}

func sortCategoryTotals(totals []domain.CategoryTotal) {
	sort.Slice(totals, func(i, j int) bool {
		a, b := totals[i], totals[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.TransactionType != b.TransactionType {
			return a.TransactionType < b.TransactionType
		}
		return a.CurrencyCode < b.CurrencyCode
	})
}

// collectTransactions returns the matching rows ordered by (created_at, id) descending.
func (s *Store) collectTransactions(ctx context.Context, match func(domain.FinancialTransaction) bool) []domain.FinancialTransaction {
	result := make([]domain.FinancialTransaction, 0)
	_ = s.view(ctx, func(st *state) error {
		for _, txn := range st.txns {
			if match(txn) {
				result = append(result, txn)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].TransactionID > result[j].TransactionID
	})
	return result
}
