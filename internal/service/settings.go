// settings.go — сервис настроек панели.
// Настройки хранятся в локальной базе и управляются администраторами
// со страницы настроек. Предоставляет типизированные геттеры,
// валидацию ключей и CRUD-операции.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sacdia/dashboard-module/internal/repository"
)

// Допустимые ключи настроек (dot-notation).
// Используется для валидации при Set.
var validSettingKeys = map[string]string{
	"dashboard.items_per_page":  "Количество элементов на странице списков",
	"dashboard.default_country": "Идентификатор страны по умолчанию в фильтрах",
	"audit.retention_days":      "Срок хранения журнала отказов в днях",
}

// SettingsService — сервис для работы с настройками панели.
type SettingsService struct {
	repo   repository.SettingsRepository
	logger *slog.Logger
}

// NewSettingsService создаёт сервис настроек панели.
func NewSettingsService(
	repo repository.SettingsRepository,
	logger *slog.Logger,
) *SettingsService {
	return &SettingsService{
		repo:   repo,
		logger: logger.With(slog.String("service", "settings")),
	}
}

// Get возвращает значение настройки по ключу.
// Возвращает ErrNotFound если настройка не существует.
func (s *SettingsService) Get(ctx context.Context, key string) (*repository.Setting, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения настройки %q: %w", key, err)
	}
	return setting, nil
}

// Set устанавливает значение настройки. Валидирует ключ и значение.
// updatedBy — email администратора, выполняющего изменение.
func (s *SettingsService) Set(ctx context.Context, key, value, updatedBy string) error {
	// Валидация ключа
	if _, ok := validSettingKeys[key]; !ok {
		return &ValidationError{Message: fmt.Sprintf("La clave de ajuste %s no es valida.", key)}
	}

	// Валидация значения по типу ключа
	if err := s.validateValue(key, value); err != nil {
		return err
	}

	if err := s.repo.Set(ctx, key, strings.TrimSpace(value), updatedBy); err != nil {
		return fmt.Errorf("ошибка сохранения настройки %q: %w", key, err)
	}

	s.logger.Info("Настройка обновлена",
		slog.String("key", key),
		slog.String("updated_by", updatedBy),
	)
	return nil
}

// List возвращает все настройки.
func (s *SettingsService) List(ctx context.Context) ([]repository.Setting, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка настроек: %w", err)
	}
	return settings, nil
}

// Delete удаляет настройку по ключу.
func (s *SettingsService) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка удаления настройки %q: %w", key, err)
	}

	s.logger.Info("Настройка удалена", slog.String("key", key))
	return nil
}

// KeyDescriptions возвращает допустимые ключи с описаниями
// для отображения на странице настроек.
func (s *SettingsService) KeyDescriptions() map[string]string {
	out := make(map[string]string, len(validSettingKeys))
	for k, v := range validSettingKeys {
		out[k] = v
	}
	return out
}

// --- Типизированные геттеры --- //

// ItemsPerPage возвращает количество элементов на странице списков.
// По умолчанию 20.
func (s *SettingsService) ItemsPerPage(ctx context.Context) int {
	setting, err := s.repo.Get(ctx, "dashboard.items_per_page")
	if err != nil {
		return 20
	}
	n, err := strconv.Atoi(setting.Value)
	if err != nil || n < 1 {
		return 20
	}
	return n
}

// DefaultCountry возвращает идентификатор страны по умолчанию
// для фильтров географической иерархии.
// Пустая строка — страна не настроена или значение повреждено.
func (s *SettingsService) DefaultCountry(ctx context.Context) string {
	setting, err := s.repo.Get(ctx, "dashboard.default_country")
	if err != nil {
		return ""
	}
	value := strings.TrimSpace(setting.Value)
	if _, err := strconv.Atoi(value); err != nil {
		return ""
	}
	return value
}

// AuditRetentionDays возвращает срок хранения журнала отказов в днях.
// По умолчанию 90.
func (s *SettingsService) AuditRetentionDays(ctx context.Context) int {
	setting, err := s.repo.Get(ctx, "audit.retention_days")
	if err != nil {
		return 90
	}
	n, err := strconv.Atoi(setting.Value)
	if err != nil || n < 1 {
		return 90
	}
	return n
}

// --- Валидация значений --- //

// validateValue проверяет корректность значения для указанного ключа.
// Тексты ошибок — для пользователя, поэтому на испанском.
func (s *SettingsService) validateValue(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "dashboard.items_per_page":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 200 {
			return &ValidationError{Message: "El valor debe ser un numero entero entre 1 y 200."}
		}
	case "dashboard.default_country":
		if value != "" {
			if _, err := strconv.Atoi(value); err != nil {
				return &ValidationError{Message: "El valor debe ser un identificador numerico."}
			}
		}
	case "audit.retention_days":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return &ValidationError{Message: "El valor debe ser un numero entero positivo."}
		}
	}
	return nil
}
