// rbac.go — страницы управления ролями и разрешениями.
// Создание и изменение разрешений валидируется локально до обращения
// к бэкенду; назначение разрешений роли — полная синхронизация списка.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sacdia/dashboard-module/internal/domain/authz"
	"github.com/sacdia/dashboard-module/internal/rbac"
	"github.com/sacdia/dashboard-module/internal/session"
	"github.com/sacdia/dashboard-module/internal/ui/messages"
	"github.com/sacdia/dashboard-module/internal/ui/pages"
)

// RBACHandler — обработчики страниц RBAC.
type RBACHandler struct {
	service  *rbac.Service
	resolver *session.Resolver
	cookies  *session.Manager
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewRBACHandler создаёт обработчики RBAC.
func NewRBACHandler(
	service *rbac.Service,
	resolver *session.Resolver,
	cookies *session.Manager,
	renderer *pages.Renderer,
	logger *slog.Logger,
) *RBACHandler {
	return &RBACHandler{
		service:  service,
		resolver: resolver,
		cookies:  cookies,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.rbac")),
	}
}

// Mount регистрирует маршруты RBAC на роутере.
func (h *RBACHandler) Mount(router chi.Router) {
	router.Route("/dashboard/rbac", func(r chi.Router) {
		r.Get("/", h.HandleRoles)
		r.Get("/permissions", h.HandlePermissions)
		r.Get("/permissions/new", h.HandlePermissionNew)
		r.Post("/permissions/new", h.HandlePermissionCreate)
		r.Get("/permissions/{id}", h.HandlePermissionEdit)
		r.Post("/permissions/{id}", h.HandlePermissionUpdate)
		r.Get("/roles/{id}", h.HandleRoleDetail)
		r.Post("/roles/{id}", h.HandleRoleSync)
	})
}

// HandleRoles — GET /dashboard/rbac: список ролей.
func (h *RBACHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	token := h.cookies.Tokens(r).Access

	roles, err := h.service.ListRoles(r.Context(), token)
	if err != nil {
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "No se pudo cargar la lista de roles.", "/admin/rbac/roles"))
		return
	}

	data := pages.RBACRolesData{
		Base:  buildBase(r, user, "Roles", "rbac"),
		Roles: roleViews(roles),
	}
	h.renderer.Render(w, pages.PageRBACRoles, data)
}

// HandlePermissions — GET /dashboard/rbac/permissions.
func (h *RBACHandler) HandlePermissions(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	token := h.cookies.Tokens(r).Access

	permissions, err := h.service.ListPermissions(r.Context(), token)
	if err != nil {
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "No se pudo cargar la lista de permisos.", "/admin/rbac/permissions"))
		return
	}

	data := pages.RBACPermissionsData{
		Base:        buildBase(r, user, "Permisos", "rbac"),
		Permissions: permissionViews(permissions),
	}
	h.renderer.Render(w, pages.PageRBACPermissions, data)
}

// HandlePermissionNew — GET /dashboard/rbac/permissions/new.
func (h *RBACHandler) HandlePermissionNew(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	h.renderer.Render(w, pages.PageRBACPermissionForm, pages.RBACPermissionFormData{
		Base: buildBase(r, user, "Crear permiso", "rbac"),
	})
}

// HandlePermissionCreate — POST /dashboard/rbac/permissions/new.
func (h *RBACHandler) HandlePermissionCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	token := h.cookies.Tokens(r).Access

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/dashboard/rbac/permissions", "No fue posible procesar el formulario.")
		return
	}

	name := r.PostFormValue("permission_name")
	description := r.PostFormValue("description")

	if err := h.service.CreatePermission(r.Context(), token, name, description); err != nil {
		data := pages.RBACPermissionFormData{
			Base:        buildBase(r, user, "Crear permiso", "rbac"),
			Name:        name,
			Description: description,
		}
		data.Error = h.permissionError(err)
		h.renderer.Render(w, pages.PageRBACPermissionForm, data)
		return
	}

	redirectWithFlash(w, r, "/dashboard/rbac/permissions", "Permiso creado correctamente.")
}

// HandlePermissionEdit — GET /dashboard/rbac/permissions/{id}.
func (h *RBACHandler) HandlePermissionEdit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	token := h.cookies.Tokens(r).Access
	id := chi.URLParam(r, "id")

	permission, err := h.service.GetPermission(r.Context(), token, id)
	if err != nil {
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "No se pudo cargar el permiso.", "/admin/rbac/permissions"))
		return
	}
	if permission == nil {
		h.renderer.RenderError(w, http.StatusNotFound, "Permiso no encontrado.")
		return
	}

	view := permissionView(permission)
	h.renderer.Render(w, pages.PageRBACPermissionForm, pages.RBACPermissionFormData{
		Base:        buildBase(r, user, "Editar permiso", "rbac"),
		IsEdit:      true,
		ID:          id,
		Name:        view.Name,
		Description: view.Description,
	})
}

// HandlePermissionUpdate — POST /dashboard/rbac/permissions/{id}.
func (h *RBACHandler) HandlePermissionUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	token := h.cookies.Tokens(r).Access
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/dashboard/rbac/permissions", "No fue posible procesar el formulario.")
		return
	}

	name := r.PostFormValue("permission_name")
	description := r.PostFormValue("description")

	if err := h.service.UpdatePermission(r.Context(), token, id, name, description, true); err != nil {
		data := pages.RBACPermissionFormData{
			Base:        buildBase(r, user, "Editar permiso", "rbac"),
			IsEdit:      true,
			ID:          id,
			Name:        name,
			Description: description,
		}
		data.Error = h.permissionError(err)
		h.renderer.Render(w, pages.PageRBACPermissionForm, data)
		return
	}

	redirectWithFlash(w, r, "/dashboard/rbac/permissions", "Permiso actualizado correctamente.")
}

// HandleRoleDetail — GET /dashboard/rbac/roles/{id}: назначение разрешений.
func (h *RBACHandler) HandleRoleDetail(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	token := h.cookies.Tokens(r).Access
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	role, err := h.service.GetRole(ctx, token, id)
	if err != nil {
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "No se pudo cargar el rol.", "/admin/rbac/roles"))
		return
	}
	if role == nil {
		h.renderer.RenderError(w, http.StatusNotFound, "Rol no encontrado.")
		return
	}

	permissions, err := h.service.ListPermissions(ctx, token)
	if err != nil {
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "No se pudo cargar la lista de permisos.", "/admin/rbac/permissions"))
		return
	}

	roleView := roleView(role)
	assigned := make(map[string]bool, len(roleView.Permissions))
	for _, p := range roleView.Permissions {
		assigned[p.ID] = true
	}

	h.renderer.Render(w, pages.PageRBACRoleDetail, pages.RBACRoleDetailData{
		Base:           buildBase(r, user, "Rol "+roleView.Name, "rbac"),
		Role:           roleView,
		AllPermissions: permissionViews(permissions),
		Assigned:       assigned,
	})
}

// HandleRoleSync — POST /dashboard/rbac/roles/{id}: полная замена
// набора разрешений роли отмеченными чекбоксами.
func (h *RBACHandler) HandleRoleSync(w http.ResponseWriter, r *http.Request) {
	_, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	token := h.cookies.Tokens(r).Access
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/dashboard/rbac", "No fue posible procesar el formulario.")
		return
	}

	ids := strings.Join(r.PostForm["permission_ids"], ",")
	if err := h.service.SyncRolePermissions(r.Context(), token, id, ids); err != nil {
		redirectWithError(w, r, "/dashboard/rbac/roles/"+id,
			messages.ActionError(err, "No se pudo actualizar el rol.", "/admin/rbac/roles"))
		return
	}

	h.logger.Info("Разрешения роли синхронизированы",
		slog.String("role_id", id),
	)
	redirectWithFlash(w, r, "/dashboard/rbac/roles/"+id, "Permisos del rol actualizados.")
}

// requireAdmin разрешает сессию; при сбое бэкенда показывает страницу ошибки.
func (h *RBACHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (authz.User, bool) {
	user, ok, err := h.resolver.RequireAdminUser(w, r)
	if err != nil {
		h.logger.Error("Сбой разрешения сессии", slog.String("error", err.Error()))
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "El backend no respondió.", ""))
		return nil, false
	}
	return user, ok
}

// permissionError — сообщение об ошибке создания/изменения разрешения.
// Локальные ошибки валидации показываются как есть.
func (h *RBACHandler) permissionError(err error) string {
	if errors.Is(err, rbac.ErrNameRequired) || errors.Is(err, rbac.ErrNameFormat) {
		return err.Error()
	}
	return messages.ActionError(err, "No se pudo guardar el permiso.", "/admin/rbac/permissions")
}

// permissionViews готовит разрешения к отображению.
func permissionViews(items []map[string]any) []pages.PermissionView {
	views := make([]pages.PermissionView, 0, len(items))
	for _, item := range items {
		views = append(views, permissionView(item))
	}
	return views
}

// permissionView готовит одно разрешение к отображению.
func permissionView(item map[string]any) pages.PermissionView {
	return pages.PermissionView{
		ID:          idString(item["id"]),
		Name:        stringValue(item["permission_name"]),
		Description: stringValue(item["description"]),
	}
}

// roleViews готовит роли к отображению.
func roleViews(items []map[string]any) []pages.RoleView {
	views := make([]pages.RoleView, 0, len(items))
	for _, item := range items {
		views = append(views, roleView(item))
	}
	return views
}

// roleView готовит роль к отображению, включая назначенные разрешения.
func roleView(item map[string]any) pages.RoleView {
	view := pages.RoleView{
		ID:          idString(item["id"]),
		Name:        stringValue(item["role_name"]),
		Description: stringValue(item["description"]),
	}
	if view.Name == "" {
		view.Name = stringValue(item["name"])
	}
	if list, ok := item["permissions"].([]any); ok {
		for _, entry := range list {
			if obj, ok := entry.(map[string]any); ok {
				view.Permissions = append(view.Permissions, permissionView(obj))
			}
		}
	}
	return view
}

// idString приводит идентификатор бэкенда (строка или число) к строке.
func idString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}

// stringValue возвращает строковое значение или пустую строку.
func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
