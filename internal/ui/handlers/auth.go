// auth.go — вход по email/паролю и выход из панели.
// Роль проверяется ДО установки cookie: пользователь без административной
// роли не получает сессию панели даже при валидных учётных данных.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sacdia/dashboard-module/internal/apiclient"
	"github.com/sacdia/dashboard-module/internal/domain/authz"
	"github.com/sacdia/dashboard-module/internal/session"
	"github.com/sacdia/dashboard-module/internal/ui/messages"
	"github.com/sacdia/dashboard-module/internal/ui/pages"
)

// AuthHandler — обработчики входа и выхода.
type AuthHandler struct {
	api      *apiclient.Client
	cookies  *session.Manager
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewAuthHandler создаёт обработчики входа и выхода.
func NewAuthHandler(
	api *apiclient.Client,
	cookies *session.Manager,
	renderer *pages.Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		api:      api,
		cookies:  cookies,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.auth")),
	}
}

// HandleLoginPage — GET /login.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, "", r.URL.Query().Get("error"))
}

// HandleLoginSubmit — POST /login.
func (h *AuthHandler) HandleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, "", "No fue posible procesar el formulario.")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	// 1. Локальная валидация
	if email == "" || password == "" {
		h.renderLogin(w, r, email, "Correo y contrasena son obligatorios.")
		return
	}

	// 2. Аутентификация на бэкенде
	result, err := h.api.Login(ctx, email, password)
	if err != nil {
		h.logger.Info("Ошибка входа",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		h.renderLogin(w, r, email, messages.LoginError(err, messages.LoginStepLogin))
		return
	}

	// 3. 200 без токена — бэкенд отказал без HTTP-ошибки
	if result.AccessToken == "" {
		technical := messages.DeniedTechnical(result.Raw)
		h.logger.Info("Вход отклонён бэкендом без токена",
			slog.String("email", email),
			slog.String("technical", technical),
		)
		h.renderLogin(w, r, email, messages.DeniedAccess(technical))
		return
	}

	// 4. Валидация профиля и роли до установки cookie
	profile, err := h.api.Me(ctx, result.AccessToken)
	if err != nil {
		h.logger.Warn("Вход выполнен, но профиль недоступен",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		h.renderLogin(w, r, email, messages.LoginError(err, messages.LoginStepProfile))
		return
	}

	roles := authz.ExtractRoles(profile)
	if !authz.HasAdminRole(roles) {
		h.logger.Info("Вход отклонён: нет административной роли",
			slog.String("email", email),
			slog.Any("roles", roles),
		)
		h.renderLogin(w, r, email, messages.NoAdminRoleMessage)
		return
	}

	// 5. Установка cookie и переход в панель
	h.cookies.SetCookies(w, session.Tokens{
		Access:  result.AccessToken,
		Refresh: result.RefreshToken,
	})

	h.logger.Info("Администратор вошёл в панель",
		slog.String("email", email),
	)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogout — GET /api/auth/logout?next=...
// Инвалидирует сессию и перенаправляет на next (только локальные пути)
// либо на /login.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.invalidateSession(w, r)

	// Открытый redirect недопустим: только локальные пути
	next := r.URL.Query().Get("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/login"
	}
	http.Redirect(w, r, next, http.StatusFound)
}

// HandleLogoutAPI — POST /api/auth/logout.
// Тот же выход, но с JSON-ответом: маршрут вызывается клиентским
// кодом, а не переходом по ссылке.
func (h *AuthHandler) HandleLogoutAPI(w http.ResponseWriter, r *http.Request) {
	h.invalidateSession(w, r)

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"message":"ok"}`)
}

// invalidateSession завершает сессию: best-effort logout на бэкенде
// и очистка локальных cookie.
func (h *AuthHandler) invalidateSession(w http.ResponseWriter, r *http.Request) {
	tokens := h.cookies.Tokens(r)
	if tokens.Access != "" {
		if err := h.api.Logout(r.Context(), tokens.Access, tokens.Refresh); err != nil {
			h.logger.Debug("Ошибка logout на бэкенде",
				slog.String("error", err.Error()),
			)
		}
	}

	h.cookies.ClearCookies(w)
}

// renderLogin отрисовывает страницу входа с сообщением об ошибке.
func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, email, errMsg string) {
	data := pages.LoginData{
		Base:  buildBase(r, nil, "Iniciar sesión", ""),
		Email: email,
	}
	data.Error = errMsg
	h.renderer.Render(w, pages.PageLogin, data)
}
