package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// txKey is the context key of the unit of work opened by WithinTransaction.
type txKey struct{}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// db returns the transaction of ctx when there is one, the pool otherwise.
func (r *BaseRepository) db(ctx context.Context) querier {
	if tx := getTx(ctx); tx != nil {
		return tx
	}
	return r.Pool
}

// insert runs an INSERT inside a savepoint when it is part of a unit, so a
// unique violation can be retried without aborting the surrounding transaction.
func (r *BaseRepository) insert(ctx context.Context, what, query string, args ...any) error {
	tx := getTx(ctx)
	if tx == nil {
		_, err := r.Pool.Exec(ctx, query, args...)
		return mapWriteError(err, what)
	}

	sp, err := tx.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to create savepoint", err)
	}
	if _, err := sp.Exec(ctx, query, args...); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return apperrors.NewAppError(500, "failed to roll back savepoint", rbErr)
		}
		return mapWriteError(err, what)
	}
	if err := sp.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to release savepoint", err)
	}
	return nil
}

// exec runs a statement that must touch at least one row.
func (r *BaseRepository) exec(ctx context.Context, what, query string, args ...any) error {
	tag, err := r.db(ctx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, what)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(what)
	}
	return nil
}

func mapWriteError(err error, what string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, what, pgErr.ConstraintName)
	}
	return fmt.Errorf("failed to write %s: %w", what, err)
}

func mapReadError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(what)
	}
	return fmt.Errorf("failed to read %s: %w", what, err)
}

// forUpdate appends a row lock to query when ctx carries a unit. Outside a
// unit the lock would be released immediately, so it is left out.
func forUpdate(ctx context.Context, query string) string {
	if getTx(ctx) == nil {
		return query
	}
	return strings.TrimSuffix(strings.TrimSpace(query), ";") + " FOR UPDATE"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PgxTransactionManager opens units of work on a pgx pool.
type PgxTransactionManager struct {
	pool *pgxpool.Pool
}

// NewTransactionManager creates a transaction manager backed by pool.
func NewTransactionManager(pool *pgxpool.Pool) *PgxTransactionManager {
	return &PgxTransactionManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// WithinTransaction runs fn in a transaction stored in the context handed to fn.
// A context that already carries one joins it; the outermost call commits.
func (tm *PgxTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if getTx(ctx) != nil {
		return fn(ctx)
	}

	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to rollback transaction", slog.String("error", err.Error()))
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

func getTx(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}
