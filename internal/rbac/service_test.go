package rbac

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/sacdia/dashboard-module/internal/apiclient"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockAPI — API с фиксированными ответами и записью вызовов.
type mockAPI struct {
	permissions []map[string]any
	roles       []map[string]any
	err         error

	createdBody map[string]any
	syncedIDs   []string
	calls       int
}

func (m *mockAPI) ListPermissions(ctx context.Context, token string) ([]map[string]any, error) {
	m.calls++
	return m.permissions, m.err
}

func (m *mockAPI) GetPermission(ctx context.Context, token, id string) (map[string]any, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.permissions) > 0 {
		return m.permissions[0], nil
	}
	return nil, nil
}

func (m *mockAPI) CreatePermission(ctx context.Context, token string, body map[string]any) (map[string]any, error) {
	m.calls++
	m.createdBody = body
	return body, m.err
}

func (m *mockAPI) UpdatePermission(ctx context.Context, token, id string, body map[string]any) error {
	m.calls++
	m.createdBody = body
	return m.err
}

func (m *mockAPI) ListRoles(ctx context.Context, token string) ([]map[string]any, error) {
	m.calls++
	return m.roles, m.err
}

func (m *mockAPI) GetRole(ctx context.Context, token, id string) (map[string]any, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.roles) > 0 {
		return m.roles[0], nil
	}
	return nil, nil
}

func (m *mockAPI) SyncRolePermissions(ctx context.Context, token, roleID string, permissionIDs []string) error {
	m.calls++
	m.syncedIDs = permissionIDs
	return m.err
}

// TestService_CreatePermission_Validation проверяет локальную валидацию имени
// до любого сетевого вызова.
func TestService_CreatePermission_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"корректное имя", "clubs:create", nil},
		{"подчёркивания", "club_members:read_all", nil},
		{"пустое имя", "", ErrNameRequired},
		{"пробелы", "   ", ErrNameRequired},
		{"без двоеточия", "resource_action", ErrNameFormat},
		{"верхний регистр", "Clubs:create", ErrNameFormat},
		{"цифры", "clubs1:create", ErrNameFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{}
			service := New(api, testLogger())

			err := service.CreatePermission(context.Background(), "token", tt.input, "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ожидалась ошибка %v, получена %v", tt.wantErr, err)
				}
				if api.calls != 0 {
					t.Errorf("сетевых вызовов быть не должно, было %d", api.calls)
				}
				return
			}
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if api.createdBody["permission_name"] != tt.input {
				t.Errorf("ожидался permission_name=%q, получен %v", tt.input, api.createdBody["permission_name"])
			}
		})
	}
}

// TestService_CreatePermission_Description проверяет, что пустое описание
// не попадает в payload.
func TestService_CreatePermission_Description(t *testing.T) {
	api := &mockAPI{}
	service := New(api, testLogger())

	if err := service.CreatePermission(context.Background(), "token", "clubs:create", "  "); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if _, ok := api.createdBody["description"]; ok {
		t.Error("пустое описание не должно попадать в payload")
	}

	if err := service.CreatePermission(context.Background(), "token", "clubs:create", "Crear clubes"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if api.createdBody["description"] != "Crear clubes" {
		t.Errorf("неожиданное описание: %v", api.createdBody["description"])
	}
}

// TestService_ListPermissions_NotFound проверяет, что 404 — пустой список.
func TestService_ListPermissions_NotFound(t *testing.T) {
	api := &mockAPI{err: &apiclient.APIError{Status: http.StatusNotFound}}
	service := New(api, testLogger())

	permissions, err := service.ListPermissions(context.Background(), "token")
	if err != nil {
		t.Fatalf("404 не должен быть ошибкой: %v", err)
	}
	if len(permissions) != 0 {
		t.Errorf("ожидался пустой список, получено %d", len(permissions))
	}

	// Прочие ошибки распространяются
	api.err = &apiclient.APIError{Status: http.StatusInternalServerError}
	if _, err := service.ListPermissions(context.Background(), "token"); err == nil {
		t.Error("ожидалась ошибка, получен nil")
	}
}

// TestService_GetRole_NotFound проверяет (nil, nil) для отсутствующей роли.
func TestService_GetRole_NotFound(t *testing.T) {
	api := &mockAPI{err: &apiclient.APIError{Status: http.StatusNotFound}}
	service := New(api, testLogger())

	role, err := service.GetRole(context.Background(), "token", "r-1")
	if err != nil {
		t.Fatalf("404 не должен быть ошибкой: %v", err)
	}
	if role != nil {
		t.Errorf("ожидался nil, получено %v", role)
	}
}

// TestService_SyncRolePermissions проверяет разбор списка идентификаторов.
func TestService_SyncRolePermissions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"обычный список", "1,2,3", []string{"1", "2", "3"}},
		{"пустые элементы отбрасываются", "1,,2, ,3", []string{"1", "2", "3"}},
		{"пустая строка — пустой набор", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{}
			service := New(api, testLogger())

			if err := service.SyncRolePermissions(context.Background(), "token", "r-1", tt.input); err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if len(api.syncedIDs) != len(tt.want) {
				t.Fatalf("ожидалось %v, получено %v", tt.want, api.syncedIDs)
			}
			for i, id := range tt.want {
				if api.syncedIDs[i] != id {
					t.Errorf("позиция %d: ожидалось %s, получено %s", i, id, api.syncedIDs[i])
				}
			}
		})
	}
}
