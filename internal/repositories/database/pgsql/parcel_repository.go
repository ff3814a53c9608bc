package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

const parcelColumns = `parcel_id, reference, client_id, wave_id, trip_id, description, weight_kg, status,
	currency_code, principal_amount, total_paid, has_debt,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxParcelRepository struct {
	BaseRepository
}

func newPgxParcelRepository(pool *pgxpool.Pool) *PgxParcelRepository {
	return &PgxParcelRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ParcelRepositoryFacade = (*PgxParcelRepository)(nil)

func scanParcel(row rowScanner) (domain.ExpressParcel, error) {
	var (
		p      domain.ExpressParcel
		tripID *string
	)
	err := row.Scan(
		&p.ParcelID,
		&p.Reference,
		&p.ClientID,
		&p.WaveID,
		&tripID,
		&p.Description,
		&p.WeightKg,
		&p.Status,
		&p.CurrencyCode,
		&p.PrincipalAmount,
		&p.TotalPaid,
		&p.HasDebt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	p.TripID = deref(tripID)
	return p, err
}

func (r *PgxParcelRepository) SaveParcel(ctx context.Context, parcel domain.ExpressParcel) error {
	query := `INSERT INTO express_parcels (` + parcelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	return r.insert(ctx, "parcel "+parcel.Reference, query,
		parcel.ParcelID,
		parcel.Reference,
		parcel.ClientID,
		parcel.WaveID,
		nullable(parcel.TripID),
		parcel.Description,
		parcel.WeightKg,
		parcel.Status,
		parcel.CurrencyCode,
		parcel.PrincipalAmount,
		parcel.TotalPaid,
		parcel.HasDebt,
		parcel.CreatedAt,
		parcel.CreatedBy,
		parcel.LastUpdatedAt,
		parcel.LastUpdatedBy,
	)
}

func (r *PgxParcelRepository) UpdateParcel(ctx context.Context, parcel domain.ExpressParcel) error {
	query := `UPDATE express_parcels
		SET client_id = $2, wave_id = $3, trip_id = $4, description = $5, weight_kg = $6, status = $7,
			currency_code = $8, principal_amount = $9, total_paid = $10, has_debt = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE parcel_id = $1;`
	return r.exec(ctx, "parcel "+parcel.ParcelID, query,
		parcel.ParcelID,
		parcel.ClientID,
		parcel.WaveID,
		nullable(parcel.TripID),
		parcel.Description,
		parcel.WeightKg,
		parcel.Status,
		parcel.CurrencyCode,
		parcel.PrincipalAmount,
		parcel.TotalPaid,
		parcel.HasDebt,
		parcel.LastUpdatedAt,
		parcel.LastUpdatedBy,
	)
}

func (r *PgxParcelRepository) DeleteParcel(ctx context.Context, parcelID string) error {
	return r.exec(ctx, "parcel "+parcelID, `DELETE FROM express_parcels WHERE parcel_id = $1;`, parcelID)
}

func (r *PgxParcelRepository) FindParcelByID(ctx context.Context, parcelID string) (*domain.ExpressParcel, error) {
	return r.findParcel(ctx, `SELECT `+parcelColumns+` FROM express_parcels WHERE parcel_id = $1`, parcelID)
}

func (r *PgxParcelRepository) FindParcelByIDForUpdate(ctx context.Context, parcelID string) (*domain.ExpressParcel, error) {
	return r.findParcel(ctx, forUpdate(ctx, `SELECT `+parcelColumns+` FROM express_parcels WHERE parcel_id = $1`), parcelID)
}

func (r *PgxParcelRepository) findParcel(ctx context.Context, query, parcelID string) (*domain.ExpressParcel, error) {
	parcel, err := scanParcel(r.db(ctx).QueryRow(ctx, query, parcelID))
	if err != nil {
		return nil, mapReadError(err, "parcel "+parcelID)
	}
	return &parcel, nil
}

// ListParcels returns the filtered parcels newest first.
func (r *PgxParcelRepository) ListParcels(ctx context.Context, filter domain.ParcelFilter) ([]domain.ExpressParcel, error) {
	var (
		conditions []string
		args       []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.ClientID != "" {
		add("client_id = $%d", filter.ClientID)
	}
	if filter.WaveID != "" {
		add("wave_id = $%d", filter.WaveID)
	}
	if filter.TripID != "" {
		add("trip_id = $%d", filter.TripID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.InDebt != nil {
		add("has_debt = $%d", *filter.InDebt)
	}

	query := `SELECT ` + parcelColumns + ` FROM express_parcels`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, reference DESC" + limitOffset(&args, filter.Limit, filter.Offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}
	defer rows.Close()

	parcels := make([]domain.ExpressParcel, 0)
	for rows.Next() {
		parcel, err := scanParcel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parcel row: %w", err)
		}
		parcels = append(parcels, parcel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parcel rows: %w", err)
	}
	return parcels, nil
}
