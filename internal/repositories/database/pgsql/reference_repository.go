package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// referenceColumns maps each scope to the table and column holding its references.
var referenceColumns = map[domain.ReferenceScope]struct{ table, column string }{
	domain.ScopeTransaction: {"financial_transactions", "reference"},
	domain.ScopeOrder:       {"business_orders", "reference"},
	domain.ScopeParcel:      {"express_parcels", "reference"},
	domain.ScopeClient:      {"clients", "client_code"},
	domain.ScopeProduct:     {"products", "sku"},
}

type PgxReferenceRepository struct {
	BaseRepository
}

func newPgxReferenceRepository(pool *pgxpool.Pool) *PgxReferenceRepository {
	return &PgxReferenceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReferenceRepository = (*PgxReferenceRepository)(nil)

// LockReferences serializes allocators of one prefix with a transaction-scoped
// advisory lock, then returns the references already taken.
func (r *PgxReferenceRepository) LockReferences(ctx context.Context, pattern domain.ReferencePattern) ([]string, error) {
	target, ok := referenceColumns[pattern.Scope]
	if !ok {
		return nil, fmt.Errorf("unknown reference scope %q", pattern.Scope)
	}

	db := r.db(ctx)
	if getTx(ctx) != nil {
		if _, err := db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, pattern.Prefix); err != nil {
			return nil, fmt.Errorf("failed to lock reference prefix %s: %w", pattern.Prefix, err)
		}
	}

	query := fmt.Sprintf(`SELECT %[2]s FROM %[1]s WHERE %[2]s LIKE $1 || '%%';`, target.table, target.column)
	rows, err := db.Query(ctx, query, pattern.Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to read references with prefix %s: %w", pattern.Prefix, err)
	}
	defer rows.Close()

	refs := make([]string, 0)
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
