package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	waveColumns = `wave_id, name, kind, status, closed_at, created_at, created_by, last_updated_at, last_updated_by`
	legColumns  = `leg_id, wave_id, kind, name, status, departed_at, arrived_at, closed_at,
	created_at, created_by, last_updated_at, last_updated_by`
)

type PgxTransportRepository struct {
	BaseRepository
}

func newPgxTransportRepository(pool *pgxpool.Pool) *PgxTransportRepository {
	return &PgxTransportRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransportRepositoryFacade = (*PgxTransportRepository)(nil)

func scanWave(row rowScanner) (domain.Wave, error) {
	var w domain.Wave
	err := row.Scan(&w.WaveID, &w.Name, &w.Kind, &w.Status, &w.ClosedAt,
		&w.CreatedAt, &w.CreatedBy, &w.LastUpdatedAt, &w.LastUpdatedBy)
	return w, err
}

func scanLeg(row rowScanner) (domain.Leg, error) {
	var l domain.Leg
	err := row.Scan(&l.LegID, &l.WaveID, &l.Kind, &l.Name, &l.Status, &l.DepartedAt, &l.ArrivedAt, &l.ClosedAt,
		&l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy)
	return l, err
}

func (r *PgxTransportRepository) SaveWave(ctx context.Context, wave domain.Wave) error {
	query := `INSERT INTO waves (` + waveColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	return r.insert(ctx, "wave "+wave.WaveID, query,
		wave.WaveID, wave.Name, wave.Kind, wave.Status, wave.ClosedAt,
		wave.CreatedAt, wave.CreatedBy, wave.LastUpdatedAt, wave.LastUpdatedBy)
}

func (r *PgxTransportRepository) UpdateWave(ctx context.Context, wave domain.Wave) error {
	query := `UPDATE waves SET name = $2, status = $3, closed_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE wave_id = $1;`
	return r.exec(ctx, "wave "+wave.WaveID, query,
		wave.WaveID, wave.Name, wave.Status, wave.ClosedAt, wave.LastUpdatedAt, wave.LastUpdatedBy)
}

func (r *PgxTransportRepository) FindWaveByID(ctx context.Context, waveID string) (*domain.Wave, error) {
	return r.findWave(ctx, `SELECT `+waveColumns+` FROM waves WHERE wave_id = $1`, waveID)
}

func (r *PgxTransportRepository) FindWaveByIDForUpdate(ctx context.Context, waveID string) (*domain.Wave, error) {
	return r.findWave(ctx, forUpdate(ctx, `SELECT `+waveColumns+` FROM waves WHERE wave_id = $1`), waveID)
}

func (r *PgxTransportRepository) findWave(ctx context.Context, query, waveID string) (*domain.Wave, error) {
	wave, err := scanWave(r.db(ctx).QueryRow(ctx, query, waveID))
	if err != nil {
		return nil, mapReadError(err, "wave "+waveID)
	}
	return &wave, nil
}

func (r *PgxTransportRepository) ListWaves(ctx context.Context, kind *domain.WaveKind) ([]domain.Wave, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+waveColumns+` FROM waves
		WHERE ($1::text IS NULL OR kind = $1)
		ORDER BY created_at DESC, wave_id DESC;`, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list waves: %w", err)
	}
	defer rows.Close()

	waves := make([]domain.Wave, 0)
	for rows.Next() {
		wave, err := scanWave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wave row: %w", err)
		}
		waves = append(waves, wave)
	}
	return waves, rows.Err()
}

func (r *PgxTransportRepository) SaveLeg(ctx context.Context, leg domain.Leg) error {
	query := `INSERT INTO legs (` + legColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	return r.insert(ctx, "leg "+leg.LegID, query,
		leg.LegID, leg.WaveID, leg.Kind, leg.Name, leg.Status, leg.DepartedAt, leg.ArrivedAt, leg.ClosedAt,
		leg.CreatedAt, leg.CreatedBy, leg.LastUpdatedAt, leg.LastUpdatedBy)
}

func (r *PgxTransportRepository) UpdateLeg(ctx context.Context, leg domain.Leg) error {
	query := `UPDATE legs
		SET name = $2, status = $3, departed_at = $4, arrived_at = $5, closed_at = $6, last_updated_at = $7, last_updated_by = $8
		WHERE leg_id = $1;`
	return r.exec(ctx, "leg "+leg.LegID, query,
		leg.LegID, leg.Name, leg.Status, leg.DepartedAt, leg.ArrivedAt, leg.ClosedAt, leg.LastUpdatedAt, leg.LastUpdatedBy)
}

func (r *PgxTransportRepository) FindLegByID(ctx context.Context, legID string) (*domain.Leg, error) {
	return r.findLeg(ctx, `SELECT `+legColumns+` FROM legs WHERE leg_id = $1`, legID)
}

func (r *PgxTransportRepository) FindLegByIDForUpdate(ctx context.Context, legID string) (*domain.Leg, error) {
	return r.findLeg(ctx, forUpdate(ctx, `SELECT `+legColumns+` FROM legs WHERE leg_id = $1`), legID)
}

func (r *PgxTransportRepository) findLeg(ctx context.Context, query, legID string) (*domain.Leg, error) {
	leg, err := scanLeg(r.db(ctx).QueryRow(ctx, query, legID))
	if err != nil {
		return nil, mapReadError(err, "leg "+legID)
	}
	return &leg, nil
}

func (r *PgxTransportRepository) ListLegsByWave(ctx context.Context, waveID string) ([]domain.Leg, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+legColumns+` FROM legs WHERE wave_id = $1 ORDER BY created_at, leg_id;`, waveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list legs of wave %s: %w", waveID, err)
	}
	defer rows.Close()

	legs := make([]domain.Leg, 0)
	for rows.Next() {
		leg, err := scanLeg(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leg row: %w", err)
		}
		legs = append(legs, leg)
	}
	return legs, rows.Err()
}
