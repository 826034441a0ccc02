// audit.go — сервис журнала отказов в доступе.
// Пользователю при отказе показывается единая страница входа без
// объяснения причины; причина фиксируется здесь — в логе и в базе.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sacdia/dashboard-module/internal/repository"
	"github.com/sacdia/dashboard-module/internal/session"
)

// AuditService — сервис журнала отказов.
// Реализует session.AuditRecorder.
type AuditService struct {
	repo   repository.AccessAuditRepository
	logger *slog.Logger
}

// NewAuditService создаёт сервис журнала отказов.
func NewAuditService(
	repo repository.AccessAuditRepository,
	logger *slog.Logger,
) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger.With(slog.String("service", "audit")),
	}
}

// RecordDenied фиксирует отказ в доступе.
// Запись best-effort: отказ пользователю уже отправлен, ошибка базы
// не должна влиять на обработку запроса — только логируется.
func (s *AuditService) RecordDenied(ctx context.Context, denied session.DeniedAccess) {
	entry := &repository.AccessAuditEntry{
		Reason:  denied.Reason,
		Subject: denied.Subject,
		Path:    denied.Path,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Error("Не удалось записать отказ в журнал",
			slog.String("reason", denied.Reason),
			slog.String("path", denied.Path),
			slog.String("error", err.Error()),
		)
	}
}

// ListRecent возвращает последние записи журнала (новые первыми).
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]repository.AccessAuditEntry, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала отказов: %w", err)
	}
	return entries, nil
}

// CountByReason возвращает количество отказов по причинам.
func (s *AuditService) CountByReason(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.CountByReason(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта журнала отказов: %w", err)
	}
	return counts, nil
}

// Cleanup удаляет записи старше retentionDays дней.
// Вызывается периодически из фоновой горутины main.
func (s *AuditService) Cleanup(ctx context.Context, retentionDays int) error {
	threshold := time.Now().AddDate(0, 0, -retentionDays)
	deleted, err := s.repo.DeleteOlderThan(ctx, threshold)
	if err != nil {
		return fmt.Errorf("ошибка очистки журнала отказов: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("Журнал отказов очищен",
			slog.Int64("deleted", deleted),
			slog.Int("retention_days", retentionDays),
		)
	}
	return nil
}
