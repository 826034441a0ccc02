package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Setting — запись таблицы dashboard_settings.
type Setting struct {
	// Ключ настройки (dot-notation, например "dashboard.items_per_page")
	Key string
	// Значение настройки (строковое представление)
	Value string
	// Время последнего обновления
	UpdatedAt time.Time
	// Email администратора, изменившего настройку
	UpdatedBy string
}

// SettingsRepository — интерфейс таблицы dashboard_settings.
type SettingsRepository interface {
	// Get возвращает настройку по ключу. Если не найдена — ErrNotFound.
	Get(ctx context.Context, key string) (*Setting, error)
	// Set создаёт или обновляет настройку (upsert).
	Set(ctx context.Context, key, value, updatedBy string) error
	// List возвращает все настройки, отсортированные по ключу.
	List(ctx context.Context) ([]Setting, error)
	// Delete удаляет настройку по ключу.
	Delete(ctx context.Context, key string) error
}

// settingsRepo — реализация SettingsRepository.
type settingsRepo struct {
	db DBTX
}

// NewSettingsRepository создаёт репозиторий настроек панели.
func NewSettingsRepository(db DBTX) SettingsRepository {
	return &settingsRepo{db: db}
}

// Get возвращает настройку по ключу.
func (r *settingsRepo) Get(ctx context.Context, key string) (*Setting, error) {
	query := `
		SELECT key, value, updated_at, updated_by
		FROM dashboard_settings
		WHERE key = $1`

	s := &Setting{}
	err := r.db.QueryRow(ctx, query, key).Scan(
		&s.Key, &s.Value, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения dashboard_settings[%s]: %w", key, err)
	}
	return s, nil
}

// Set создаёт или обновляет настройку (INSERT ... ON CONFLICT DO UPDATE).
func (r *settingsRepo) Set(ctx context.Context, key, value, updatedBy string) error {
	query := `
		INSERT INTO dashboard_settings (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, key, value, updatedBy)
	if err != nil {
		return fmt.Errorf("ошибка сохранения dashboard_settings[%s]: %w", key, err)
	}
	return nil
}

// List возвращает все настройки, отсортированные по ключу.
func (r *settingsRepo) List(ctx context.Context) ([]Setting, error) {
	query := `
		SELECT key, value, updated_at, updated_by
		FROM dashboard_settings
		ORDER BY key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка dashboard_settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt, &s.UpdatedBy); err != nil {
			return nil, fmt.Errorf("ошибка сканирования dashboard_settings: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Delete удаляет настройку по ключу.
func (r *settingsRepo) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM dashboard_settings WHERE key = $1`
	tag, err := r.db.Exec(ctx, query, key)
	if err != nil {
		return fmt.Errorf("ошибка удаления dashboard_settings[%s]: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
