package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyflow/planner-backend/internal/model"
)

// SettingRepository handles key-value application settings.
type SettingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

// GetAll returns every stored setting.
func (r *SettingRepository) GetAll(ctx context.Context) ([]model.AppSetting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.AppSetting
	for rows.Next() {
		var s model.AppSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetByKey retrieves a single setting.
func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*model.AppSetting, error) {
	s := &model.AppSetting{}
	err := r.pool.QueryRow(ctx,
		`SELECT key, value, updated_at FROM settings WHERE key = $1`, key,
	).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert creates or updates a setting.
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	return err
}
