package authz

import (
	"regexp"
	"strings"
)

// validPermissionName — формат имени permission: resource:action,
// обе части из строчных латинских букв и подчёркиваний.
var validPermissionName = regexp.MustCompile(`^[a-z_]+:[a-z_]+$`)

// ValidPermissionName проверяет имя permission локально, до обращения к бэкенду.
func ValidPermissionName(name string) bool {
	return validPermissionName.MatchString(name)
}

// PermissionSet — набор ролей и permissions пользователя для проверок доступа.
// super_admin проходит любую проверку permission безусловно.
type PermissionSet struct {
	roles       map[string]bool
	permissions map[string]bool
}

// NewPermissionSet создаёт набор из ролей и permissions.
// Значения нормализуются (trim, lowercase).
func NewPermissionSet(roles, permissions []string) *PermissionSet {
	return &PermissionSet{
		roles:       toNormalizedSet(roles),
		permissions: toNormalizedSet(permissions),
	}
}

// HasRole проверяет наличие роли.
func (p *PermissionSet) HasRole(role string) bool {
	return p.roles[strings.ToLower(strings.TrimSpace(role))]
}

// Can проверяет наличие permission. super_admin может всё.
func (p *PermissionSet) Can(permission string) bool {
	if p.roles[RoleSuperAdmin] {
		return true
	}
	return p.permissions[strings.ToLower(strings.TrimSpace(permission))]
}

// CanAny проверяет наличие хотя бы одной permission из набора.
// Пустой набор — false (кроме super_admin).
func (p *PermissionSet) CanAny(permissions ...string) bool {
	if p.roles[RoleSuperAdmin] {
		return true
	}
	for _, permission := range permissions {
		if p.Can(permission) {
			return true
		}
	}
	return false
}

// CanAll проверяет наличие всех permissions набора.
// Пустой набор — true.
func (p *PermissionSet) CanAll(permissions ...string) bool {
	if p.roles[RoleSuperAdmin] {
		return true
	}
	for _, permission := range permissions {
		if !p.Can(permission) {
			return false
		}
	}
	return true
}

// toNormalizedSet строит множество нормализованных значений.
func toNormalizedSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		normalized := strings.ToLower(strings.TrimSpace(v))
		if normalized != "" {
			set[normalized] = true
		}
	}
	return set
}
