package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/resultbook/internal/database"
	"github.com/stemsi/resultbook/internal/model"
)

type SettingRepository struct {
	pool *pgxpool.Pool
}

func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

func (r *SettingRepository) GetAll(ctx context.Context) ([]model.AppSetting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, updated_at FROM app_settings ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.AppSetting, error) {
		var s model.AppSetting
		err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt)
		return s, err
	})
}

// UpsertMany writes all settings in one transaction.
func (r *SettingRepository) UpsertMany(ctx context.Context, settings map[string]string) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for key, value := range settings {
			if _, err := tx.Exec(ctx,
				`INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, NOW())
				 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
				key, value); err != nil {
				return err
			}
		}
		return nil
	})
}
