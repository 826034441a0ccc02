package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Типизированные операции поверх Do: клубы, пользователи, RBAC.
// Справочники (catalogs) ходят через Do напрямую — их пути декларативны.

// ListClubs возвращает список клубов.
func (c *Client) ListClubs(ctx context.Context, token string) ([]map[string]any, error) {
	payload, err := c.Get(ctx, "/clubs", token)
	if err != nil {
		return nil, err
	}
	return UnwrapList(payload), nil
}

// AdminUsersPage — страница списка пользователей админ-панели.
type AdminUsersPage struct {
	// Users — пользователи текущей страницы.
	Users []map[string]any
	// Total — общее число пользователей (0, если бэкенд не сообщил).
	Total int
}

// ListAdminUsers возвращает страницу пользователей.
// page нумеруется с 1, limit — размер страницы.
func (c *Client) ListAdminUsers(ctx context.Context, token string, page, limit int) (*AdminUsersPage, error) {
	path := fmt.Sprintf("/admin/users?page=%d&limit=%d", page, limit)
	payload, err := c.Get(ctx, path, token)
	if err != nil {
		return nil, err
	}

	result := &AdminUsersPage{Users: UnwrapList(payload)}
	if obj, ok := payload.(map[string]any); ok {
		if total, ok := obj["total"].(float64); ok {
			result.Total = int(total)
		}
	}
	return result, nil
}

// ListPermissions возвращает список permissions RBAC.
func (c *Client) ListPermissions(ctx context.Context, token string) ([]map[string]any, error) {
	payload, err := c.Get(ctx, "/admin/rbac/permissions", token)
	if err != nil {
		return nil, err
	}
	return UnwrapList(payload), nil
}

// GetPermission возвращает permission по идентификатору.
func (c *Client) GetPermission(ctx context.Context, token, id string) (map[string]any, error) {
	payload, err := c.Get(ctx, "/admin/rbac/permissions/"+url.PathEscape(id), token)
	if err != nil {
		return nil, err
	}
	return UnwrapObject(payload), nil
}

// CreatePermission создаёт permission RBAC.
// Валидация имени (resource:action) выполняется вызывающим кодом до запроса.
func (c *Client) CreatePermission(ctx context.Context, token string, body map[string]any) (map[string]any, error) {
	payload, err := c.Do(ctx, http.MethodPost, "/admin/rbac/permissions", token, body)
	if err != nil {
		return nil, err
	}
	return UnwrapObject(payload), nil
}

// UpdatePermission изменяет permission (частичное обновление).
func (c *Client) UpdatePermission(ctx context.Context, token, id string, body map[string]any) error {
	_, err := c.Do(ctx, http.MethodPatch, "/admin/rbac/permissions/"+url.PathEscape(id), token, body)
	return err
}

// ListRoles возвращает список ролей RBAC.
func (c *Client) ListRoles(ctx context.Context, token string) ([]map[string]any, error) {
	payload, err := c.Get(ctx, "/admin/rbac/roles", token)
	if err != nil {
		return nil, err
	}
	return UnwrapList(payload), nil
}

// GetRole возвращает роль (с назначенными permissions) по идентификатору.
func (c *Client) GetRole(ctx context.Context, token, id string) (map[string]any, error) {
	payload, err := c.Get(ctx, "/admin/rbac/roles/"+url.PathEscape(id), token)
	if err != nil {
		return nil, err
	}
	return UnwrapObject(payload), nil
}

// SyncRolePermissions заменяет набор permissions роли целиком.
func (c *Client) SyncRolePermissions(ctx context.Context, token, roleID string, permissionIDs []string) error {
	path := "/admin/rbac/roles/" + url.PathEscape(roleID) + "/permissions"
	_, err := c.Do(ctx, http.MethodPut, path, token, map[string]any{
		"permission_ids": permissionIDs,
	})
	return err
}
