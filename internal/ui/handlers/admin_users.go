// admin_users.go — страница пользователей бэкенда с пагинацией.
// Endpoint пользователей может отсутствовать в окружении: 404/405
// показываются как «недоступно», а не как ошибка.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sacdia/dashboard-module/internal/apiclient"
	"github.com/sacdia/dashboard-module/internal/domain/authz"
	"github.com/sacdia/dashboard-module/internal/service"
	"github.com/sacdia/dashboard-module/internal/session"
	"github.com/sacdia/dashboard-module/internal/ui/messages"
	"github.com/sacdia/dashboard-module/internal/ui/pages"
)

// AdminUsersHandler — обработчик страницы пользователей.
type AdminUsersHandler struct {
	api      *apiclient.Client
	settings *service.SettingsService
	resolver *session.Resolver
	cookies  *session.Manager
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewAdminUsersHandler создаёт обработчик страницы пользователей.
func NewAdminUsersHandler(
	api *apiclient.Client,
	settings *service.SettingsService,
	resolver *session.Resolver,
	cookies *session.Manager,
	renderer *pages.Renderer,
	logger *slog.Logger,
) *AdminUsersHandler {
	return &AdminUsersHandler{
		api:      api,
		settings: settings,
		resolver: resolver,
		cookies:  cookies,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.admin_users")),
	}
}

// HandleAdminUsers — GET /dashboard/admin-users.
func (h *AdminUsersHandler) HandleAdminUsers(w http.ResponseWriter, r *http.Request) {
	user, ok, err := h.resolver.RequireAdminUser(w, r)
	if err != nil {
		h.logger.Error("Сбой разрешения сессии", slog.String("error", err.Error()))
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "El backend no respondió.", ""))
		return
	}
	if !ok {
		return
	}

	// Размер страницы по умолчанию управляется настройкой панели
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", h.settings.ItemsPerPage(r.Context()))

	data := pages.AdminUsersData{
		Base:  buildBase(r, user, "Usuarios", "admin-users"),
		Page:  page,
		Limit: limit,
	}

	token := h.cookies.Tokens(r).Access
	result, err := h.api.ListAdminUsers(r.Context(), token, page, limit)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusMethodNotAllowed) {
			h.logger.Debug("Endpoint пользователей недоступен на бэкенде")
			data.Unavailable = true
			h.renderer.Render(w, pages.PageAdminUsers, data)
			return
		}
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "No se pudo cargar la lista de usuarios.", "/admin/users"))
		return
	}

	data.Total = result.Total
	data.Users = userViews(result.Users)
	h.renderer.Render(w, pages.PageAdminUsers, data)
}

// userViews готовит пользователей к отображению.
func userViews(items []map[string]any) []pages.AdminUserView {
	views := make([]pages.AdminUserView, 0, len(items))
	for _, item := range items {
		u := authz.User(item)
		views = append(views, pages.AdminUserView{
			ID:    u.ID(),
			Email: u.Email(),
			Name:  u.FullName(),
			Roles: u.Roles(),
		})
	}
	return views
}

// queryInt возвращает положительный целый query-параметр или значение по умолчанию.
func queryInt(r *http.Request, name string, defaultVal int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultVal
	}
	return n
}
