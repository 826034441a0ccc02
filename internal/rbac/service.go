// Пакет rbac — сервис управления permissions и ролями через бэкенд.
// Формат имени permission проверяется локально до любого сетевого вызова;
// отсутствие RBAC endpoint'ов в окружении — пустые списки, не ошибка.
package rbac

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sacdia/dashboard-module/internal/apiclient"
	"github.com/sacdia/dashboard-module/internal/domain/authz"
)

// Ошибки локальной валидации. Message — готовый текст для пользователя.
var (
	// ErrNameRequired — пустое имя permission.
	ErrNameRequired = errors.New("El nombre del permiso es obligatorio")
	// ErrNameFormat — имя не соответствует формату resource:action.
	ErrNameFormat = errors.New("El formato debe ser resource:action (minusculas, separado por :)")
)

// API — операции бэкенда, нужные сервису. Реализуется apiclient.Client.
type API interface {
	ListPermissions(ctx context.Context, token string) ([]map[string]any, error)
	GetPermission(ctx context.Context, token, id string) (map[string]any, error)
	CreatePermission(ctx context.Context, token string, body map[string]any) (map[string]any, error)
	UpdatePermission(ctx context.Context, token, id string, body map[string]any) error
	ListRoles(ctx context.Context, token string) ([]map[string]any, error)
	GetRole(ctx context.Context, token, id string) (map[string]any, error)
	SyncRolePermissions(ctx context.Context, token, roleID string, permissionIDs []string) error
}

// Service — сервис RBAC.
type Service struct {
	api    API
	logger *slog.Logger
}

// New создаёт сервис RBAC.
func New(api API, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.With(slog.String("component", "rbac_service")),
	}
}

// ListPermissions возвращает permissions. 404 endpoint'а — пустой список.
func (s *Service) ListPermissions(ctx context.Context, token string) ([]map[string]any, error) {
	permissions, err := s.api.ListPermissions(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return []map[string]any{}, nil
		}
		return nil, err
	}
	return permissions, nil
}

// GetPermission возвращает permission по id. 404 — (nil, nil).
func (s *Service) GetPermission(ctx context.Context, token, id string) (map[string]any, error) {
	permission, err := s.api.GetPermission(ctx, token, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return permission, nil
}

// CreatePermission создаёт permission после локальной валидации имени.
func (s *Service) CreatePermission(ctx context.Context, token, name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}

	body := map[string]any{"permission_name": name}
	if description = strings.TrimSpace(description); description != "" {
		body["description"] = description
	}

	if _, err := s.api.CreatePermission(ctx, token, body); err != nil {
		return err
	}

	s.logger.Info("Permission создан",
		slog.String("permission", name),
	)
	return nil
}

// UpdatePermission изменяет permission после локальной валидации имени.
func (s *Service) UpdatePermission(ctx context.Context, token, id, name, description string, active bool) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}

	body := map[string]any{
		"permission_name": name,
		"active":          active,
	}
	if description = strings.TrimSpace(description); description != "" {
		body["description"] = description
	}

	if err := s.api.UpdatePermission(ctx, token, id, body); err != nil {
		return err
	}

	s.logger.Info("Permission изменён",
		slog.String("id", id),
		slog.String("permission", name),
	)
	return nil
}

// ListRoles возвращает роли. 404 endpoint'а — пустой список.
func (s *Service) ListRoles(ctx context.Context, token string) ([]map[string]any, error) {
	roles, err := s.api.ListRoles(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return []map[string]any{}, nil
		}
		return nil, err
	}
	return roles, nil
}

// GetRole возвращает роль с назначенными permissions. 404 — (nil, nil).
func (s *Service) GetRole(ctx context.Context, token, id string) (map[string]any, error) {
	role, err := s.api.GetRole(ctx, token, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return role, nil
}

// SyncRolePermissions заменяет набор permissions роли целиком.
// permissionIDs — идентификаторы через запятую (формат формы матрицы ролей).
func (s *Service) SyncRolePermissions(ctx context.Context, token, roleID, permissionIDs string) error {
	ids := splitIDs(permissionIDs)

	if err := s.api.SyncRolePermissions(ctx, token, roleID, ids); err != nil {
		return err
	}

	s.logger.Info("Permissions роли синхронизированы",
		slog.String("role_id", roleID),
		slog.Int("count", len(ids)),
	)
	return nil
}

// validateName проверяет имя permission локально.
func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if !authz.ValidPermissionName(name) {
		return ErrNameFormat
	}
	return nil
}

// splitIDs разбирает список идентификаторов через запятую, отбрасывая пустые.
func splitIDs(raw string) []string {
	ids := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// isNotFound сообщает, является ли ошибка ответом 404.
func isNotFound(err error) bool {
	var apiErr *apiclient.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
