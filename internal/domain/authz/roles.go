// Пакет authz — чистая логика ролей и permissions административной панели.
// Объект пользователя приходит от бэкенда в разных формах (плоская роль,
// массивы ролей, join-таблица users_roles, metadata) — пакет собирает роли
// из всех известных форм и объединяет их в один набор.
package authz

import "strings"

// Роли с доступом в административную панель.
const (
	RoleSuperAdmin  = "super_admin"
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
)

// adminRoles — allow-list ролей административной панели.
var adminRoles = map[string]bool{
	RoleSuperAdmin:  true,
	RoleAdmin:       true,
	RoleCoordinator: true,
}

// ExtractRoles собирает роли пользователя из всех известных форм объекта:
//   - плоское поле role;
//   - массив roles;
//   - global_role / global_roles / club_roles (скаляр или массив);
//   - join-таблица users_roles: [{roles: {role_name}}];
//   - metadata.role / metadata.roles.
//
// Формы не исключают друг друга: роли собираются из всех и объединяются.
// Результат — нормализованный набор (trim, lowercase, без дубликатов).
// Конверт {status, data} разворачивается до обхода.
func ExtractRoles(user map[string]any) []string {
	user = unwrapEnvelope(user)
	if user == nil {
		return []string{}
	}

	var gathered []string

	gathered = appendRoleValue(gathered, user["role"])
	gathered = appendRoleList(gathered, user["roles"])

	for _, key := range []string{"global_role", "global_roles", "club_roles"} {
		gathered = appendRoleValue(gathered, user[key])
		gathered = appendRoleList(gathered, user[key])
	}

	// users_roles — форма join-таблицы: [{roles: {role_name: "..."}}]
	if joins, ok := user["users_roles"].([]any); ok {
		for _, join := range joins {
			entry, ok := join.(map[string]any)
			if !ok {
				continue
			}
			if roleObj, ok := entry["roles"].(map[string]any); ok {
				gathered = appendRoleValue(gathered, roleObj["role_name"])
			}
		}
	}

	if metadata, ok := user["metadata"].(map[string]any); ok {
		gathered = appendRoleValue(gathered, metadata["role"])
		gathered = appendRoleList(gathered, metadata["roles"])
	}

	return normalizeRoles(gathered)
}

// HasAdminRole сообщает, содержит ли набор хотя бы одну роль allow-list.
// Пустой набор — не администратор.
func HasAdminRole(roles []string) bool {
	for _, role := range roles {
		if adminRoles[strings.ToLower(strings.TrimSpace(role))] {
			return true
		}
	}
	return false
}

// unwrapEnvelope разворачивает конверт {status, data} вокруг объекта пользователя.
func unwrapEnvelope(user map[string]any) map[string]any {
	if user == nil {
		return nil
	}
	if _, hasStatus := user["status"].(string); hasStatus {
		if data, ok := user["data"].(map[string]any); ok {
			return data
		}
	}
	return user
}

// appendRoleValue добавляет скалярную роль, если значение — непустая строка.
func appendRoleValue(dst []string, v any) []string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		dst = append(dst, s)
	}
	return dst
}

// appendRoleList добавляет роли из массива строк.
func appendRoleList(dst []string, v any) []string {
	items, ok := v.([]any)
	if !ok {
		return dst
	}
	for _, item := range items {
		dst = appendRoleValue(dst, item)
	}
	return dst
}

// normalizeRoles применяет trim и lowercase, убирает дубликаты.
// Порядок первых вхождений сохраняется.
func normalizeRoles(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	result := make([]string, 0, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}
