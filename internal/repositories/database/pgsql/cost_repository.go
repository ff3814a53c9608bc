package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

const costColumns = `cost_id, kind, owner_id, account_id, amount, currency_code, label, description, transaction_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCostRepository struct {
	BaseRepository
}

func newPgxCostRepository(pool *pgxpool.Pool) *PgxCostRepository {
	return &PgxCostRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CostRepositoryFacade = (*PgxCostRepository)(nil)

func scanCost(row rowScanner) (domain.Cost, error) {
	var c domain.Cost
	err := row.Scan(&c.CostID, &c.Kind, &c.OwnerID, &c.AccountID, &c.Amount, &c.CurrencyCode, &c.Label, &c.Description,
		&c.TransactionID, &c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	return c, err
}

func (r *PgxCostRepository) SaveCost(ctx context.Context, cost domain.Cost) error {
	query := `INSERT INTO costs (` + costColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	return r.insert(ctx, "cost "+cost.CostID, query,
		cost.CostID, cost.Kind, cost.OwnerID, cost.AccountID, cost.Amount, cost.CurrencyCode, cost.Label, cost.Description,
		cost.TransactionID, cost.CreatedAt, cost.CreatedBy, cost.LastUpdatedAt, cost.LastUpdatedBy)
}

func (r *PgxCostRepository) UpdateCost(ctx context.Context, cost domain.Cost) error {
	query := `UPDATE costs
		SET account_id = $2, amount = $3, currency_code = $4, label = $5, description = $6, transaction_id = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE cost_id = $1;`
	return r.exec(ctx, "cost "+cost.CostID, query,
		cost.CostID, cost.AccountID, cost.Amount, cost.CurrencyCode, cost.Label, cost.Description, cost.TransactionID,
		cost.LastUpdatedAt, cost.LastUpdatedBy)
}

func (r *PgxCostRepository) DeleteCost(ctx context.Context, costID string) error {
	return r.exec(ctx, "cost "+costID, `DELETE FROM costs WHERE cost_id = $1;`, costID)
}

func (r *PgxCostRepository) FindCostByID(ctx context.Context, costID string) (*domain.Cost, error) {
	return r.findCost(ctx, `SELECT `+costColumns+` FROM costs WHERE cost_id = $1`, costID)
}

func (r *PgxCostRepository) FindCostByIDForUpdate(ctx context.Context, costID string) (*domain.Cost, error) {
	return r.findCost(ctx, forUpdate(ctx, `SELECT `+costColumns+` FROM costs WHERE cost_id = $1`), costID)
}

func (r *PgxCostRepository) findCost(ctx context.Context, query, costID string) (*domain.Cost, error) {
	cost, err := scanCost(r.db(ctx).QueryRow(ctx, query, costID))
	if err != nil {
		return nil, mapReadError(err, "cost "+costID)
	}
	return &cost, nil
}

// ListCosts returns the costs of one owner in creation order.
func (r *PgxCostRepository) ListCosts(ctx context.Context, kind domain.CostKind, ownerID string) ([]domain.Cost, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+costColumns+` FROM costs
		WHERE kind = $1 AND owner_id = $2
		ORDER BY created_at, cost_id;`, kind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list costs: %w", err)
	}
	defer rows.Close()

	costs := make([]domain.Cost, 0)
	for rows.Next() {
		cost, err := scanCost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cost row: %w", err)
		}
		costs = append(costs, cost)
	}
	return costs, rows.Err()
}
