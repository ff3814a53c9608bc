package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingColumns = `setting_key, setting_value, setting_type, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxSettingRepository struct {
	BaseRepository
}

func newPgxSettingRepository(pool *pgxpool.Pool) *PgxSettingRepository {
	return &PgxSettingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingRepositoryFacade = (*PgxSettingRepository)(nil)

func scanSetting(row rowScanner) (domain.SystemSetting, error) {
	var s domain.SystemSetting
	err := row.Scan(&s.Key, &s.Value, &s.Type, &s.Description, &s.IsActive,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy)
	return s, err
}

func (r *PgxSettingRepository) FindSettingByKey(ctx context.Context, key string) (*domain.SystemSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM system_settings WHERE setting_key = $1;`
	setting, err := scanSetting(r.db(ctx).QueryRow(ctx, query, key))
	if err != nil {
		return nil, mapReadError(err, "setting "+key)
	}
	return &setting, nil
}

func (r *PgxSettingRepository) ListSettings(ctx context.Context) ([]domain.SystemSetting, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+settingColumns+` FROM system_settings ORDER BY setting_key;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := make([]domain.SystemSetting, 0)
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

// UpsertSetting keeps the original creation audit fields when the key already exists.
func (r *PgxSettingRepository) UpsertSetting(ctx context.Context, setting domain.SystemSetting) error {
	query := `INSERT INTO system_settings (` + settingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (setting_key) DO UPDATE
		SET setting_value = EXCLUDED.setting_value,
			setting_type = EXCLUDED.setting_type,
			description = EXCLUDED.description,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;`
	_, err := r.db(ctx).Exec(ctx, query,
		setting.Key,
		setting.Value,
		setting.Type,
		setting.Description,
		setting.IsActive,
		setting.CreatedAt,
		setting.CreatedBy,
		setting.LastUpdatedAt,
		setting.LastUpdatedBy,
	)
	return mapWriteError(err, "setting "+setting.Key)
}
