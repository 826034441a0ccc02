package authz

import (
	"reflect"
	"testing"
)

// TestExtractRoles проверяет сбор ролей из всех известных форм объекта пользователя.
func TestExtractRoles(t *testing.T) {
	tests := []struct {
		name string
		user map[string]any
		want []string
	}{
		{
			name: "плоское поле role",
			user: map[string]any{"role": "Admin"},
			want: []string{"admin"},
		},
		{
			name: "массив roles",
			user: map[string]any{"roles": []any{"admin", "coordinator"}},
			want: []string{"admin", "coordinator"},
		},
		{
			name: "global_role скаляр",
			user: map[string]any{"global_role": "super_admin"},
			want: []string{"super_admin"},
		},
		{
			name: "global_roles массив",
			user: map[string]any{"global_roles": []any{"admin"}},
			want: []string{"admin"},
		},
		{
			name: "club_roles массив",
			user: map[string]any{"club_roles": []any{"director", "counselor"}},
			want: []string{"director", "counselor"},
		},
		{
			name: "join-таблица users_roles",
			user: map[string]any{
				"users_roles": []any{
					map[string]any{"roles": map[string]any{"role_name": "admin"}},
					map[string]any{"roles": map[string]any{"role_name": "director"}},
				},
			},
			want: []string{"admin", "director"},
		},
		{
			name: "metadata.role и metadata.roles",
			user: map[string]any{
				"metadata": map[string]any{
					"role":  "coordinator",
					"roles": []any{"editor"},
				},
			},
			want: []string{"coordinator", "editor"},
		},
		{
			name: "формы объединяются, дубликаты убираются",
			user: map[string]any{
				"role":  "admin",
				"roles": []any{"ADMIN", "coordinator"},
				"metadata": map[string]any{
					"roles": []any{"coordinator", "viewer"},
				},
			},
			want: []string{"admin", "coordinator", "viewer"},
		},
		{
			name: "нормализация регистра и пробелов",
			user: map[string]any{"roles": []any{"  Admin  ", "ADMIN"}},
			want: []string{"admin"},
		},
		{
			name: "конверт {status, data} разворачивается",
			user: map[string]any{
				"status": "success",
				"data":   map[string]any{"role": "admin"},
			},
			want: []string{"admin"},
		},
		{
			name: "мусорные значения игнорируются",
			user: map[string]any{
				"role":  42,
				"roles": []any{nil, "", "admin", 7},
				"users_roles": []any{
					"not-an-object",
					map[string]any{"roles": "not-an-object"},
				},
			},
			want: []string{"admin"},
		},
		{
			name: "пустой объект",
			user: map[string]any{},
			want: []string{},
		},
		{
			name: "nil пользователь",
			user: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRoles(tt.user)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ожидалось %v, получено %v", tt.want, got)
			}
		})
	}
}

// TestHasAdminRole проверяет allow-list административных ролей.
func TestHasAdminRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  bool
	}{
		{"super_admin", []string{"super_admin"}, true},
		{"admin", []string{"admin"}, true},
		{"coordinator", []string{"coordinator"}, true},
		{"админ среди прочих", []string{"viewer", "admin"}, true},
		{"регистр не важен", []string{"Admin"}, true},
		{"обычный пользователь", []string{"director", "counselor"}, false},
		{"пустой набор", []string{}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAdminRole(tt.roles); got != tt.want {
				t.Errorf("ожидалось %v, получено %v", tt.want, got)
			}
		})
	}
}

// TestUser_FullName проверяет выбор отображаемого имени.
func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full_name", User{"full_name": "Ana López"}, "Ana López"},
		{"name", User{"name": "Ana"}, "Ana"},
		{"first+last", User{"first_name": "Ana", "last_name": "López"}, "Ana López"},
		{"только first", User{"first_name": "Ana"}, "Ana"},
		{"fallback на email", User{"email": "ana@sacdia.app"}, "ana@sacdia.app"},
		{"пустой объект", User{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.FullName(); got != tt.want {
				t.Errorf("ожидалось %q, получено %q", tt.want, got)
			}
		})
	}
}
