// catalogs.go — страницы справочников: список, создание, редактирование,
// деактивация. Все обработчики параметризованы ключом справочника и
// работают через движок CRUD, сами страницы строятся по EntityConfig.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sacdia/dashboard-module/internal/catalogs"
	"github.com/sacdia/dashboard-module/internal/domain/authz"
	"github.com/sacdia/dashboard-module/internal/domain/catalog"
	"github.com/sacdia/dashboard-module/internal/service"
	"github.com/sacdia/dashboard-module/internal/session"
	"github.com/sacdia/dashboard-module/internal/ui/messages"
	"github.com/sacdia/dashboard-module/internal/ui/pages"
)

// CatalogHandler — обработчики страниц справочников.
type CatalogHandler struct {
	engine   *catalogs.Engine
	settings *service.SettingsService
	resolver *session.Resolver
	cookies  *session.Manager
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewCatalogHandler создаёт обработчики справочников.
func NewCatalogHandler(
	engine *catalogs.Engine,
	settings *service.SettingsService,
	resolver *session.Resolver,
	cookies *session.Manager,
	renderer *pages.Renderer,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		engine:   engine,
		settings: settings,
		resolver: resolver,
		cookies:  cookies,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.catalogs")),
	}
}

// Mount регистрирует маршруты всех справочников на роутере.
func (h *CatalogHandler) Mount(router chi.Router) {
	for _, config := range catalog.All() {
		key := config.Key
		router.Route(config.RouteBase, func(r chi.Router) {
			r.Get("/", h.handleList(key))
			r.Get("/new", h.handleForm(key, false))
			r.Post("/new", h.handleCreate(key))
			r.Get("/{id}/edit", h.handleForm(key, true))
			r.Post("/{id}/edit", h.handleUpdate(key))
			r.Get("/{id}/deactivate", h.handleDeactivateForm(key))
			r.Post("/{id}/deactivate", h.handleDeactivate(key))
		})
	}
}

// handleList — GET {route}: список элементов с фильтром по родителю.
func (h *CatalogHandler) handleList(entityKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireAdmin(w, r)
		if !ok {
			return
		}
		config, _ := catalog.Get(entityKey)
		token := h.cookies.Tokens(r).Access
		ctx := r.Context()

		// Страна по умолчанию применяется, пока фильтр не задан явно:
		// присутствующий (пусть и пустой) query-параметр значит «все»
		parentValue := strings.TrimSpace(r.URL.Query().Get("parent"))
		if config.ParentFilter != nil &&
			config.ParentFilter.EntityKey == "countries" &&
			!r.URL.Query().Has("parent") {
			parentValue = h.settings.DefaultCountry(ctx)
		}

		items, err := h.engine.List(ctx, token, entityKey, parentValue)
		if err != nil {
			h.renderer.RenderError(w, http.StatusBadGateway,
				messages.ActionError(err, "No se pudo cargar el catalogo.", config.ListEndpoint))
			return
		}

		data := pages.CatalogListData{
			Base:           buildBase(r, user, config.Title, config.Key),
			Config:         config,
			Items:          itemViews(config, items),
			ParentSelected: parentValue,
		}

		if config.ParentFilter != nil {
			options, optErr := h.engine.SelectOptions(ctx, token, config.ParentFilter.EntityKey)
			if optErr != nil {
				h.logger.Warn("Опции родительского фильтра недоступны",
					slog.String("entity", entityKey),
					slog.String("error", optErr.Error()),
				)
			} else {
				data.ParentOptions = options
			}
		}

		h.renderer.Render(w, pages.PageCatalogList, data)
	}
}

// handleForm — GET {route}/new и GET {route}/{id}/edit.
func (h *CatalogHandler) handleForm(entityKey string, isEdit bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireAdmin(w, r)
		if !ok {
			return
		}
		config, _ := catalog.Get(entityKey)
		if config.ReadOnly {
			redirectWithError(w, r, config.RouteBase, messages.ReadOnlyMessage)
			return
		}
		token := h.cookies.Tokens(r).Access
		ctx := r.Context()

		data := pages.CatalogFormData{
			Base:   buildBase(r, user, config.SingularTitle, config.Key),
			Config: config,
			IsEdit: isEdit,
			Values: map[string]string{},
		}

		if isEdit {
			id, err := parseID(r)
			if err != nil {
				h.renderer.RenderError(w, http.StatusNotFound, "Elemento no encontrado.")
				return
			}
			item, err := h.engine.GetByID(ctx, token, entityKey, id)
			if err != nil {
				h.renderItemError(w, config, err)
				return
			}
			data.ItemID = id
			data.Values = formValues(config, item)
		}

		data.Options = h.loadSelectOptions(r, token, config)
		h.renderer.Render(w, pages.PageCatalogForm, data)
	}
}

// handleCreate — POST {route}/new.
func (h *CatalogHandler) handleCreate(entityKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireAdmin(w, r)
		if !ok {
			return
		}
		config, _ := catalog.Get(entityKey)
		token := h.cookies.Tokens(r).Access
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, config.RouteBase, "No fue posible procesar el formulario.")
			return
		}

		payload, err := catalog.BuildPayload(config, r.PostForm)
		if err != nil {
			h.renderFormWithError(w, r, user, config, false, 0, err)
			return
		}

		if err := h.engine.Create(ctx, token, entityKey, payload); err != nil {
			h.renderFormWithError(w, r, user, config, false, 0, err)
			return
		}

		redirectWithFlash(w, r, config.RouteBase,
			fmt.Sprintf("%s creado correctamente.", config.SingularTitle))
	}
}

// handleUpdate — POST {route}/{id}/edit.
func (h *CatalogHandler) handleUpdate(entityKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireAdmin(w, r)
		if !ok {
			return
		}
		config, _ := catalog.Get(entityKey)
		token := h.cookies.Tokens(r).Access
		ctx := r.Context()

		id, err := parseID(r)
		if err != nil {
			h.renderer.RenderError(w, http.StatusNotFound, "Elemento no encontrado.")
			return
		}

		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, config.RouteBase, "No fue posible procesar el formulario.")
			return
		}

		payload, err := catalog.BuildPayload(config, r.PostForm)
		if err != nil {
			h.renderFormWithError(w, r, user, config, true, id, err)
			return
		}

		if err := h.engine.Update(ctx, token, entityKey, id, payload); err != nil {
			h.renderFormWithError(w, r, user, config, true, id, err)
			return
		}

		redirectWithFlash(w, r, config.RouteBase,
			fmt.Sprintf("%s actualizado correctamente.", config.SingularTitle))
	}
}

// handleDeactivateForm — GET {route}/{id}/deactivate: страница подтверждения.
func (h *CatalogHandler) handleDeactivateForm(entityKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireAdmin(w, r)
		if !ok {
			return
		}
		config, _ := catalog.Get(entityKey)
		if config.ReadOnly {
			redirectWithError(w, r, config.RouteBase, messages.ReadOnlyMessage)
			return
		}
		token := h.cookies.Tokens(r).Access

		id, err := parseID(r)
		if err != nil {
			h.renderer.RenderError(w, http.StatusNotFound, "Elemento no encontrado.")
			return
		}

		item, err := h.engine.GetByID(r.Context(), token, entityKey, id)
		if err != nil {
			h.renderItemError(w, config, err)
			return
		}

		h.renderer.Render(w, pages.PageCatalogDeactivate, pages.CatalogDeactivateData{
			Base:     buildBase(r, user, "Desactivar "+config.SingularTitle, config.Key),
			Config:   config,
			ItemID:   id,
			ItemName: catalog.DisplayName(item, config),
		})
	}
}

// handleDeactivate — POST {route}/{id}/deactivate.
// Требует подтверждения именем элемента; элемент помечается inactive,
// жёсткого удаления в справочниках нет.
func (h *CatalogHandler) handleDeactivate(entityKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := h.requireAdmin(w, r)
		if !ok {
			return
		}
		config, _ := catalog.Get(entityKey)
		token := h.cookies.Tokens(r).Access
		ctx := r.Context()

		id, err := parseID(r)
		if err != nil {
			h.renderer.RenderError(w, http.StatusNotFound, "Elemento no encontrado.")
			return
		}

		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, config.RouteBase, "No fue posible procesar el formulario.")
			return
		}

		item, err := h.engine.GetByID(ctx, token, entityKey, id)
		if err != nil {
			h.renderItemError(w, config, err)
			return
		}

		confirm := strings.TrimSpace(r.PostFormValue("confirm_name"))
		if confirm != catalog.DisplayName(item, config) {
			redirectWithError(w, r, fmt.Sprintf("%s/%d/deactivate", config.RouteBase, id),
				"El nombre no coincide. Verifica e intenta de nuevo.")
			return
		}

		if err := h.engine.Deactivate(ctx, token, entityKey, id); err != nil {
			redirectWithError(w, r, config.RouteBase, h.mutationError(err, config))
			return
		}

		h.logger.Info("Элемент справочника деактивирован",
			slog.String("entity", entityKey),
			slog.Int64("id", id),
		)
		redirectWithFlash(w, r, config.RouteBase,
			fmt.Sprintf("%s desactivado.", config.SingularTitle))
	}
}

// requireAdmin разрешает сессию; при сбое бэкенда показывает страницу ошибки.
func (h *CatalogHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (authz.User, bool) {
	user, ok, err := h.resolver.RequireAdminUser(w, r)
	if err != nil {
		h.logger.Error("Сбой разрешения сессии", slog.String("error", err.Error()))
		h.renderer.RenderError(w, http.StatusBadGateway,
			messages.ActionError(err, "El backend no respondió.", ""))
		return nil, false
	}
	return user, ok
}

// renderFormWithError повторно отрисовывает форму с введёнными значениями.
func (h *CatalogHandler) renderFormWithError(
	w http.ResponseWriter, r *http.Request,
	user authz.User, config *catalog.EntityConfig,
	isEdit bool, id int64, err error,
) {
	token := h.cookies.Tokens(r).Access

	data := pages.CatalogFormData{
		Base:    buildBase(r, user, config.SingularTitle, config.Key),
		Config:  config,
		IsEdit:  isEdit,
		ItemID:  id,
		Values:  postedValues(config, r),
		Options: h.loadSelectOptions(r, token, config),
	}
	data.Error = h.mutationError(err, config)
	h.renderer.Render(w, pages.PageCatalogForm, data)
}

// mutationError преобразует ошибку мутации в сообщение для пользователя.
func (h *CatalogHandler) mutationError(err error, config *catalog.EntityConfig) string {
	var validationErr *catalog.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, catalogs.ErrReadOnly):
		return messages.ReadOnlyMessage
	default:
		return messages.ActionError(err, "No se pudo guardar el elemento.", config.AdminEndpoint)
	}
}

// renderItemError — страница ошибки для сбоев чтения элемента.
func (h *CatalogHandler) renderItemError(w http.ResponseWriter, config *catalog.EntityConfig, err error) {
	if errors.Is(err, catalogs.ErrNotFound) {
		h.renderer.RenderError(w, http.StatusNotFound, "Elemento no encontrado.")
		return
	}
	h.renderer.RenderError(w, http.StatusBadGateway,
		messages.ActionError(err, "No se pudo cargar el elemento.", config.AdminEndpoint))
}

// loadSelectOptions загружает опции всех select-полей формы.
// Недоступный справочник-источник опций не ломает форму.
func (h *CatalogHandler) loadSelectOptions(r *http.Request, token string, config *catalog.EntityConfig) map[string][]catalogs.Option {
	options := make(map[string][]catalogs.Option)
	for _, field := range config.Fields {
		if field.Type != catalog.FieldSelect || field.OptionsEntity == "" {
			continue
		}
		opts, err := h.engine.SelectOptions(r.Context(), token, field.OptionsEntity)
		if err != nil {
			h.logger.Warn("Опции select-поля недоступны",
				slog.String("field", field.Name),
				slog.String("source", field.OptionsEntity),
				slog.String("error", err.Error()),
			)
			continue
		}
		options[field.Name] = opts
	}
	return options
}

// parseID извлекает числовой идентификатор из URL.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// itemViews готовит элементы списка к отображению.
func itemViews(config *catalog.EntityConfig, items []catalog.Item) []pages.CatalogItemView {
	views := make([]pages.CatalogItemView, 0, len(items))
	for _, item := range items {
		view := pages.CatalogItemView{
			ID:     catalog.IDValue(item, config),
			Name:   catalog.DisplayName(item, config),
			Active: catalog.IsActive(item),
			Cells:  make([]string, 0, len(config.Fields)),
		}
		for _, field := range config.Fields {
			view.Cells = append(view.Cells, cellValue(item[field.Name]))
		}
		views = append(views, view)
	}
	return views
}

// formValues готовит значения элемента для полей формы.
func formValues(config *catalog.EntityConfig, item catalog.Item) map[string]string {
	values := make(map[string]string, len(config.Fields))
	for _, field := range config.Fields {
		values[field.Name] = cellValue(item[field.Name])
	}
	return values
}

// postedValues собирает отправленные значения формы для повторного показа.
func postedValues(config *catalog.EntityConfig, r *http.Request) map[string]string {
	values := make(map[string]string, len(config.Fields))
	for _, field := range config.Fields {
		if field.Type == catalog.FieldCheckbox {
			raw := r.PostFormValue(field.Name)
			values[field.Name] = strconv.FormatBool(raw == "on" || raw == "true")
			continue
		}
		values[field.Name] = strings.TrimSpace(r.PostFormValue(field.Name))
	}
	return values
}

// cellValue приводит значение поля к строке для отображения.
func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
