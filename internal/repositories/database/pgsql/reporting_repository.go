package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	*PgxTransactionRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{newPgxTransactionRepository(pool)}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// CountInDebt counts the orders and parcels in debt, cancelled ones excluded.
func (r *PgxReportingRepository) CountInDebt(ctx context.Context) (int, int, error) {
	query := `SELECT
			(SELECT COUNT(*) FROM business_orders WHERE has_debt AND status <> 'cancelled'),
			(SELECT COUNT(*) FROM express_parcels WHERE has_debt AND status <> 'cancelled');`
	var orders, parcels int
	if err := r.db(ctx).QueryRow(ctx, query).Scan(&orders, &parcels); err != nil {
		return 0, 0, fmt.Errorf("failed to count entities in debt: %w", err)
	}
	return orders, parcels, nil
}
