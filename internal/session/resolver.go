package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sacdia/dashboard-module/internal/apiclient"
	"github.com/sacdia/dashboard-module/internal/domain/authz"
)

// AdminLogoutRedirect — единая точка выхода при отказе в доступе.
// И «нет сессии», и «недостаточная роль» ведут сюда: причина отказа
// фиксируется в аудите, но пользователю не раскрывается.
const AdminLogoutRedirect = "/api/auth/logout?next=/login"

// Причины отказа в доступе (для аудита).
const (
	DenyReasonNoSession      = "no_session"
	DenyReasonInvalidSession = "invalid_session"
	DenyReasonNotAdmin       = "not_admin"
)

// UserAPI — операция бэкенда для получения текущего пользователя.
// Реализуется apiclient.Client.
type UserAPI interface {
	Me(ctx context.Context, accessToken string) (map[string]any, error)
}

// DeniedAccess — запись об отказе в доступе.
type DeniedAccess struct {
	// Reason — причина отказа (DenyReason*).
	Reason string
	// Subject — claim sub access-токена, если токен был.
	Subject string
	// Path — запрошенный путь.
	Path string
}

// AuditRecorder — приёмник записей об отказах в доступе.
type AuditRecorder interface {
	RecordDenied(ctx context.Context, denied DeniedAccess)
}

// Resolver разрешает сессию запроса в пользователя бэкенда.
type Resolver struct {
	api     UserAPI
	cookies *Manager
	audit   AuditRecorder
	logger  *slog.Logger
}

// NewResolver создаёт резолвер сессий.
// audit может быть nil — отказы тогда только логируются.
func NewResolver(api UserAPI, cookies *Manager, audit AuditRecorder, logger *slog.Logger) *Resolver {
	return &Resolver{
		api:     api,
		cookies: cookies,
		audit:   audit,
		logger:  logger.With(slog.String("component", "session_resolver")),
	}
}

// CurrentUser возвращает текущего пользователя по access-cookie запроса.
// «Нет пользователя» — это (nil, nil), не ошибка:
//   - cookie отсутствует;
//   - claim exp токена истёк — сессия невалидна без запроса к бэкенду,
//     обе cookie очищаются;
//   - бэкенд ответил 401/403 — сессия невалидна, обе cookie очищаются;
//   - бэкенд ответил 429 или 5xx — состояние сессии неизвестно,
//     cookie сохраняются до восстановления бэкенда.
//
// Прочие ошибки бэкенда и транспортные ошибки распространяются.
func (r *Resolver) CurrentUser(ctx context.Context, w http.ResponseWriter, req *http.Request) (authz.User, error) {
	// 1. Токен из cookie
	tokens := r.cookies.Tokens(req)
	if tokens.Access == "" {
		return nil, nil
	}

	// 2. Истёкший токен отклоняется локально — бэкенд ответил бы 401
	if TokenExpired(tokens.Access) {
		r.cookies.ClearCookies(w)
		r.logger.Debug("Access-токен истёк, cookie очищены")
		return nil, nil
	}

	// 3. Запрос профиля у бэкенда
	user, err := r.api.Me(ctx, tokens.Access)
	if err == nil {
		return authz.User(user), nil
	}

	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return nil, err
	}

	switch {
	case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
		// 4. Сессия невалидна — cookie очищаются
		r.cookies.ClearCookies(w)
		r.logger.Debug("Сессия невалидна, cookie очищены",
			slog.Int("status", apiErr.Status),
		)
		return nil, nil
	case apiErr.Status == http.StatusTooManyRequests:
		r.logger.Warn("Rate limit бэкенда при разрешении сессии")
		return nil, nil
	case apiErr.Status >= 500:
		r.logger.Warn("Бэкенд недоступен при разрешении сессии",
			slog.Int("status", apiErr.Status),
		)
		return nil, nil
	}

	return nil, err
}

// RequireAdminUser возвращает пользователя с административной ролью.
// Если пользователя нет или роль недостаточна — пишет redirect на
// AdminLogoutRedirect, фиксирует отказ в аудите и возвращает ok=false.
// Ошибка означает сбой разрешения сессии: redirect не выполнен,
// вызывающий код показывает страницу ошибки.
func (r *Resolver) RequireAdminUser(w http.ResponseWriter, req *http.Request) (authz.User, bool, error) {
	ctx := req.Context()

	user, err := r.CurrentUser(ctx, w, req)
	if err != nil {
		return nil, false, err
	}

	if user == nil {
		reason := DenyReasonNoSession
		if r.cookies.HasAccessToken(req) {
			reason = DenyReasonInvalidSession
		}
		r.deny(ctx, w, req, reason)
		return nil, false, nil
	}

	if !user.IsAdmin() {
		r.deny(ctx, w, req, DenyReasonNotAdmin)
		return nil, false, nil
	}

	return user, true, nil
}

// deny фиксирует отказ и направляет пользователя в точку выхода.
func (r *Resolver) deny(ctx context.Context, w http.ResponseWriter, req *http.Request, reason string) {
	denied := DeniedAccess{
		Reason:  reason,
		Subject: TokenSubject(r.cookies.Tokens(req).Access),
		Path:    req.URL.Path,
	}

	r.logger.Info("Отказ в доступе к панели",
		slog.String("reason", denied.Reason),
		slog.String("path", denied.Path),
	)
	if r.audit != nil {
		r.audit.RecordDenied(ctx, denied)
	}

	http.Redirect(w, req, AdminLogoutRedirect, http.StatusFound)
}
