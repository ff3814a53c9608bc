package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cargo_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	transactionColumns = `transaction_id, account_id, transaction_type, amount, currency_code, reference, category,
	related_kind, related_id, description, exchange_rate_used, transfer_reference, created_by, created_at`

	defaultTransactionPageSize = 20
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)
	_ portsrepo.CategoryTotalsReader        = (*PgxTransactionRepository)(nil)
)

func scanTransaction(row rowScanner) (domain.FinancialTransaction, error) {
	var (
		txn         domain.FinancialTransaction
		relatedKind *string
		relatedID   *string
		rate        decimal.NullDecimal
	)
	err := row.Scan(
		&txn.TransactionID,
		&txn.AccountID,
		&txn.TransactionType,
		&txn.Amount,
		&txn.CurrencyCode,
		&txn.Reference,
		&txn.Category,
		&relatedKind,
		&relatedID,
		&txn.Description,
		&rate,
		&txn.TransferReference,
		&txn.CreatedBy,
		&txn.CreatedAt,
	)
	if err != nil {
		return txn, err
	}
	if relatedKind != nil && relatedID != nil {
		txn.Related = &domain.RelatedEntity{Kind: domain.RelatedKind(*relatedKind), ID: *relatedID}
	}
	if rate.Valid {
		txn.ExchangeRateUsed = &rate.Decimal
	}
	return txn, nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.FinancialTransaction, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.FinancialTransaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// SaveTransaction appends a row to the log.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.FinancialTransaction) error {
	var relatedKind, relatedID *string
	if txn.Related != nil {
		kind := string(txn.Related.Kind)
		relatedKind, relatedID = &kind, &txn.Related.ID
	}
	var rate decimal.NullDecimal
	if txn.ExchangeRateUsed != nil {
		rate = decimal.NewNullDecimal(*txn.ExchangeRateUsed)
	}

	query := `INSERT INTO financial_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`
	return r.insert(ctx, "transaction "+txn.Reference, query,
		txn.TransactionID,
		txn.AccountID,
		txn.TransactionType,
		txn.Amount,
		txn.CurrencyCode,
		txn.Reference,
		txn.Category,
		relatedKind,
		relatedID,
		txn.Description,
		rate,
		txn.TransferReference,
		txn.CreatedBy,
		txn.CreatedAt,
	)
}

// DeleteTransactions removes rows as a compensating action.
func (r *PgxTransactionRepository) DeleteTransactions(ctx context.Context, transactionIDs []string) error {
	if len(transactionIDs) == 0 {
		return nil
	}
	_, err := r.db(ctx).Exec(ctx, `DELETE FROM financial_transactions WHERE transaction_id = ANY($1);`, transactionIDs)
	if err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM financial_transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.db(ctx).QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, mapReadError(err, "transaction "+transactionID)
	}
	return &txn, nil
}

func (r *PgxTransactionRepository) FindTransactionsByTransferReference(ctx context.Context, transferReference string) ([]domain.FinancialTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM financial_transactions
		WHERE transfer_reference = $1
		ORDER BY created_at, transaction_id;`
	return r.queryTransactions(ctx, query, transferReference)
}

func (r *PgxTransactionRepository) FindTransactionsByRelated(ctx context.Context, related domain.RelatedEntity, categories []domain.Category) ([]domain.FinancialTransaction, error) {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	query := `SELECT ` + transactionColumns + ` FROM financial_transactions
		WHERE related_kind = $1 AND related_id = $2 AND (cardinality($3::text[]) = 0 OR category = ANY($3))
		ORDER BY created_at, transaction_id;`
	return r.queryTransactions(ctx, query, related.Kind, related.ID, names)
}

// ListTransactionsByAccount pages through an account's rows newest first with a keyset token.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.FinancialTransaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}

	conditions := []string{"account_id = $1"}
	args := []any{accountID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.Type != nil {
		add("transaction_type = $%d", *filter.Type)
	}
	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at < $%d", *filter.To)
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursorAt, cursorID, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		args = append(args, cursorAt, cursorID)
		conditions = append(conditions, fmt.Sprintf("(created_at, transaction_id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, limit+1)

	query := fmt.Sprintf(`SELECT %s FROM financial_transactions
		WHERE %s
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $%d;`, transactionColumns, strings.Join(conditions, " AND "), len(args))
	txns, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	if len(txns) <= limit {
		return txns, nil, nil
	}
	page := txns[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
	return page, &token, nil
}

// SumTransactionsByAccount totals an account's log by direction.
func (r *PgxTransactionRepository) SumTransactionsByAccount(ctx context.Context, accountID string) (domain.AccountTotals, error) {
	query := `SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type IN ('credit', 'transfer_in')), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type IN ('debit', 'transfer_out')), 0),
			COUNT(*)
		FROM financial_transactions
		WHERE account_id = $1;`
	var totals domain.AccountTotals
	err := r.db(ctx).QueryRow(ctx, query, accountID).Scan(&totals.Increases, &totals.Decreases, &totals.Count)
	if err != nil {
		return domain.AccountTotals{}, fmt.Errorf("failed to sum transactions of account %s: %w", accountID, err)
	}
	return totals, nil
}

// SumTransactionsByCategory groups rows created in [from, to) by category, type and currency.
func (r *PgxTransactionRepository) SumTransactionsByCategory(ctx context.Context, from, to time.Time) ([]domain.CategoryTotal, error) {
	query := `SELECT category, transaction_type, currency_code, SUM(amount), COUNT(*)
		FROM financial_transactions
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY category, transaction_type, currency_code
		ORDER BY category, transaction_type, currency_code;`
	rows, err := r.db(ctx).Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions by category: %w", err)
	}
	defer rows.Close()

	totals := make([]domain.CategoryTotal, 0)
	for rows.Next() {
		var t domain.CategoryTotal
		if err := rows.Scan(&t.Category, &t.TransactionType, &t.CurrencyCode, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category total rows: %w", err)
	}
	return totals, nil
}
