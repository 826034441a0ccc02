// dashboard.go — главная страница панели.
// Список клубов — вторичные данные: их недоступность не ломает страницу,
// показывается предупреждение вместо таблицы.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/sacdia/dashboard-module/internal/apiclient"
	"github.com/sacdia/dashboard-module/internal/session"
	"github.com/sacdia/dashboard-module/internal/ui/messages"
	"github.com/sacdia/dashboard-module/internal/ui/pages"
)

// DashboardHandler — обработчик главной страницы.
type DashboardHandler struct {
	api      *apiclient.Client
	resolver *session.Resolver
	cookies  *session.Manager
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewDashboardHandler создаёт обработчик главной страницы.
func NewDashboardHandler(
	api *apiclient.Client,
	resolver *session.Resolver,
	cookies *session.Manager,
	renderer *pages.Renderer,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		api:      api,
		resolver: resolver,
		cookies:  cookies,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.dashboard")),
	}
}

// HandleDashboard — GET /dashboard.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok, err := h.resolver.RequireAdminUser(w, r)
	if err != nil {
		h.logger.Error("Сбой разрешения сессии", slog.String("error", err.Error()))
		h.renderer.RenderError(w, http.StatusBadGateway, messages.ActionError(err, "El backend no respondió.", ""))
		return
	}
	if !ok {
		return
	}

	data := pages.DashboardData{
		Base:      buildBase(r, user, "Panel", "dashboard"),
		ClubCount: -1,
	}

	token := h.cookies.Tokens(r).Access
	clubs, err := h.api.ListClubs(r.Context(), token)
	if err != nil {
		h.logger.Warn("Список клубов недоступен", slog.String("error", err.Error()))
		data.ClubsError = messages.ActionError(err, "No se pudo cargar la lista de clubes.", "/clubs")
	} else {
		data.Clubs = clubs
		data.ClubCount = len(clubs)
	}

	h.renderer.Render(w, pages.PageDashboard, data)
}
