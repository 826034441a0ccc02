// settings.go — страницы настроек панели и журнала отказов в доступе.
// Оба раздела работают с локальной базой, не с бэкендом SACDIA.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/sacdia/dashboard-module/internal/service"
	"github.com/sacdia/dashboard-module/internal/session"
	"github.com/sacdia/dashboard-module/internal/ui/messages"
	"github.com/sacdia/dashboard-module/internal/ui/pages"
)

// auditPageLimit — количество записей журнала на странице.
const auditPageLimit = 100

// SettingsHandler — обработчики настроек и журнала отказов.
type SettingsHandler struct {
	settings *service.SettingsService
	audit    *service.AuditService
	resolver *session.Resolver
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewSettingsHandler создаёт обработчики настроек.
func NewSettingsHandler(
	settings *service.SettingsService,
	audit *service.AuditService,
	resolver *session.Resolver,
	renderer *pages.Renderer,
	logger *slog.Logger,
) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		audit:    audit,
		resolver: resolver,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.settings")),
	}
}

// HandleSettings — GET /dashboard/settings.
func (h *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	user, ok, err := h.resolver.RequireAdminUser(w, r)
	if err != nil {
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "El backend no respondió.", ""))
		return
	}
	if !ok {
		return
	}

	stored, err := h.settings.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка чтения настроек", slog.String("error", err.Error()))
		h.renderer.RenderError(w, http.StatusInternalServerError, "No se pudieron cargar los ajustes.")
		return
	}

	// Показываются все допустимые ключи, даже ещё не сохранённые
	byKey := make(map[string]pages.SettingView)
	for _, s := range stored {
		byKey[s.Key] = pages.SettingView{
			Key:       s.Key,
			Value:     s.Value,
			UpdatedBy: s.UpdatedBy,
			UpdatedAt: s.UpdatedAt.Format("2006-01-02 15:04"),
		}
	}

	descriptions := h.settings.KeyDescriptions()
	views := make([]pages.SettingView, 0, len(descriptions))
	for _, key := range sortedKeys(descriptions) {
		view, exists := byKey[key]
		if !exists {
			view = pages.SettingView{Key: key}
		}
		view.Description = descriptions[key]
		views = append(views, view)
	}

	h.renderer.Render(w, pages.PageSettings, pages.SettingsData{
		Base:     buildBase(r, user, "Ajustes", "settings"),
		Settings: views,
	})
}

// HandleSettingsUpdate — POST /dashboard/settings.
func (h *SettingsHandler) HandleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok, err := h.resolver.RequireAdminUser(w, r)
	if err != nil {
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "El backend no respondió.", ""))
		return
	}
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/dashboard/settings", "No fue posible procesar el formulario.")
		return
	}

	key := r.PostFormValue("key")
	value := r.PostFormValue("value")

	if err := h.settings.Set(r.Context(), key, value, user.Email()); err != nil {
		if errors.Is(err, service.ErrValidation) {
			redirectWithError(w, r, "/dashboard/settings", err.Error())
			return
		}
		h.logger.Error("Ошибка сохранения настройки",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		redirectWithError(w, r, "/dashboard/settings", "No se pudo guardar el ajuste.")
		return
	}

	redirectWithFlash(w, r, "/dashboard/settings", "Ajuste guardado correctamente.")
}

// HandleAudit — GET /dashboard/audit: журнал отказов в доступе.
func (h *SettingsHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	user, ok, err := h.resolver.RequireAdminUser(w, r)
	if err != nil {
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "El backend no respondió.", ""))
		return
	}
	if !ok {
		return
	}
	ctx := r.Context()

	entries, err := h.audit.ListRecent(ctx, auditPageLimit)
	if err != nil {
		h.logger.Error("Ошибка чтения журнала отказов", slog.String("error", err.Error()))
		h.renderer.RenderError(w, http.StatusInternalServerError, "No se pudo cargar la auditoría.")
		return
	}

	counts, err := h.audit.CountByReason(ctx)
	if err != nil {
		h.logger.Error("Ошибка подсчёта журнала отказов", slog.String("error", err.Error()))
		counts = map[string]int64{}
	}

	h.renderer.Render(w, pages.PageAudit, pages.AuditData{
		Base:    buildBase(r, user, "Auditoría", "audit"),
		Entries: entries,
		Counts:  counts,
	})
}

// sortedKeys возвращает ключи карты в отсортированном порядке.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
