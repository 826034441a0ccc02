package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sacdia/dashboard-module/internal/repository"
	"github.com/sacdia/dashboard-module/internal/session"
)

// mockAuditRepo — in-memory реализация repository.AccessAuditRepository.
type mockAuditRepo struct {
	entries    []repository.AccessAuditEntry
	insertErr  error
	deletedCnt int64
}

func (m *mockAuditRepo) Insert(_ context.Context, entry *repository.AccessAuditEntry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) ListRecent(_ context.Context, limit int) ([]repository.AccessAuditEntry, error) {
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[:limit], nil
}

func (m *mockAuditRepo) CountByReason(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, e := range m.entries {
		counts[e.Reason]++
	}
	return counts, nil
}

func (m *mockAuditRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return m.deletedCnt, nil
}

// TestRecordDenied проверяет запись отказа в журнал.
func TestRecordDenied(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, testLogger())

	svc.RecordDenied(context.Background(), session.DeniedAccess{
		Reason:  "not_admin",
		Subject: "user-123",
		Path:    "/dashboard/catalogs/countries",
	})

	if len(repo.entries) != 1 {
		t.Fatalf("записей в журнале %d; ожидали 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.Reason != "not_admin" || e.Subject != "user-123" || e.Path != "/dashboard/catalogs/countries" {
		t.Errorf("запись = %+v; поля не совпадают", e)
	}
}

// TestRecordDeniedBestEffort проверяет, что ошибка базы не паникует и не всплывает.
func TestRecordDeniedBestEffort(t *testing.T) {
	repo := &mockAuditRepo{insertErr: errors.New("база недоступна")}
	svc := NewAuditService(repo, testLogger())

	// Не должно паниковать: отказ уже отправлен пользователю
	svc.RecordDenied(context.Background(), session.DeniedAccess{
		Reason: "no_session",
		Path:   "/dashboard",
	})
}

// TestListRecentLimitClamp проверяет нормализацию некорректного лимита.
func TestListRecentLimitClamp(t *testing.T) {
	repo := &mockAuditRepo{}
	for i := 0; i < 60; i++ {
		repo.entries = append(repo.entries, repository.AccessAuditEntry{Reason: "no_session"})
	}
	svc := NewAuditService(repo, testLogger())

	entries, err := svc.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRecent() вернул ошибку: %v", err)
	}
	if len(entries) != 50 {
		t.Errorf("ListRecent(0) вернул %d записей; ожидали 50 (лимит по умолчанию)", len(entries))
	}
}

// TestAuditServiceImplementsRecorder — компиляционная проверка интерфейса.
func TestAuditServiceImplementsRecorder(t *testing.T) {
	var _ session.AuditRecorder = (*AuditService)(nil)
}
