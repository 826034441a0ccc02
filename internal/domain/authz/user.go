package authz

import "strings"

// User — объект пользователя бэкенда.
// Набор полей открытый и различается между окружениями,
// поэтому тип — map с типизированными аксессорами.
type User map[string]any

// ID возвращает идентификатор пользователя (поле id или user_id).
func (u User) ID() string {
	if id, ok := u["id"].(string); ok && id != "" {
		return id
	}
	id, _ := u["user_id"].(string)
	return id
}

// Email возвращает email пользователя.
func (u User) Email() string {
	email, _ := u["email"].(string)
	return email
}

// FullName возвращает отображаемое имя: full_name, name
// или комбинация first_name + last_name; иначе email.
func (u User) FullName() string {
	for _, key := range []string{"full_name", "name"} {
		if name, ok := u[key].(string); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}

	first, _ := u["first_name"].(string)
	last, _ := u["last_name"].(string)
	if combined := strings.TrimSpace(first + " " + last); combined != "" {
		return combined
	}

	return u.Email()
}

// Roles возвращает нормализованный набор ролей пользователя.
func (u User) Roles() []string {
	return ExtractRoles(u)
}

// IsAdmin сообщает, есть ли у пользователя роль административной панели.
func (u User) IsAdmin() bool {
	return HasAdminRole(u.Roles())
}
