package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AccessAuditEntry — запись таблицы access_audit.
// Журнал хранит причину каждого отказа в доступе к панели:
// пользователю показывается единая точка выхода, причина — только здесь.
type AccessAuditEntry struct {
	// ID — идентификатор записи.
	ID uuid.UUID
	// Reason — причина отказа (no_session, invalid_session, not_admin).
	Reason string
	// Subject — claim sub access-токена, если токен был.
	Subject string
	// Path — запрошенный путь.
	Path string
	// OccurredAt — время отказа.
	OccurredAt time.Time
}

// AccessAuditRepository — интерфейс таблицы access_audit.
type AccessAuditRepository interface {
	// Insert добавляет запись об отказе.
	Insert(ctx context.Context, entry *AccessAuditEntry) error
	// ListRecent возвращает последние записи (новые первыми).
	ListRecent(ctx context.Context, limit int) ([]AccessAuditEntry, error)
	// CountByReason возвращает количество отказов по причинам.
	CountByReason(ctx context.Context) (map[string]int64, error)
	// DeleteOlderThan удаляет записи старше порога, возвращает их количество.
	DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error)
}

// accessAuditRepo — реализация AccessAuditRepository.
type accessAuditRepo struct {
	db DBTX
}

// NewAccessAuditRepository создаёт репозиторий журнала отказов.
func NewAccessAuditRepository(db DBTX) AccessAuditRepository {
	return &accessAuditRepo{db: db}
}

// Insert добавляет запись об отказе.
// Пустой ID заменяется новым uuid, нулевое время — NOW() на стороне базы.
func (r *accessAuditRepo) Insert(ctx context.Context, entry *AccessAuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO access_audit (id, reason, subject, path, occurred_at)
		VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, '0001-01-01 00:00:00+00'::timestamptz), NOW()))`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.Reason, entry.Subject, entry.Path, entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи access_audit: %w", err)
	}
	return nil
}

// ListRecent возвращает последние записи (новые первыми).
func (r *accessAuditRepo) ListRecent(ctx context.Context, limit int) ([]AccessAuditEntry, error) {
	query := `
		SELECT id, reason, subject, path, occurred_at
		FROM access_audit
		ORDER BY occurred_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения access_audit: %w", err)
	}
	defer rows.Close()

	var entries []AccessAuditEntry
	for rows.Next() {
		var e AccessAuditEntry
		if err := rows.Scan(&e.ID, &e.Reason, &e.Subject, &e.Path, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования access_audit: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByReason возвращает количество отказов по причинам.
func (r *accessAuditRepo) CountByReason(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT reason, COUNT(*)
		FROM access_audit
		GROUP BY reason`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта access_audit: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var reason string
		var count int64
		if err := rows.Scan(&reason, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования access_audit: %w", err)
		}
		counts[reason] = count
	}
	return counts, rows.Err()
}

// DeleteOlderThan удаляет записи старше порога, возвращает их количество.
func (r *accessAuditRepo) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM access_audit WHERE occurred_at < $1`, threshold)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки access_audit: %w", err)
	}
	return tag.RowsAffected(), nil
}
