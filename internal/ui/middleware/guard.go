// Пакет middleware — HTTP middleware панели.
// guard.go — маршрутный фильтр по наличию access cookie.
// Фильтр проверяет только НАЛИЧИЕ cookie: валидность сессии и роли
// проверяет session.Resolver на защищённых страницах.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sacdia/dashboard-module/internal/session"
)

// PathnameHeader — заголовок с путём текущего запроса.
// Проставляется фильтром, используется при записи отказов в журнал.
const PathnameHeader = "X-Pathname"

// RouteGuard — маршрутный фильтр панели.
// Запросы к /dashboard/* без access cookie перенаправляются на /login;
// запросы к /login с cookie — на /dashboard (пользователь уже вошёл).
type RouteGuard struct {
	cookies *session.Manager
	logger  *slog.Logger
}

// NewRouteGuard создаёт маршрутный фильтр.
func NewRouteGuard(cookies *session.Manager, logger *slog.Logger) *RouteGuard {
	return &RouteGuard{
		cookies: cookies,
		logger:  logger.With(slog.String("component", "route_guard")),
	}
}

// Middleware возвращает HTTP middleware маршрутного фильтра.
func (g *RouteGuard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Проставляем путь запроса в заголовок
			r.Header.Set(PathnameHeader, r.URL.Path)

			hasToken := g.cookies.HasAccessToken(r)

			// 2. Защищённые страницы без cookie — на страницу входа
			if isProtectedPath(r.URL.Path) && !hasToken {
				g.logger.Debug("Запрос без access cookie",
					slog.String("path", r.URL.Path),
				)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			// 3. Страница входа с cookie — в панель
			if r.URL.Path == "/login" && hasToken {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isProtectedPath — /dashboard и всё под ним.
func isProtectedPath(path string) bool {
	return path == "/dashboard" || strings.HasPrefix(path, "/dashboard/")
}
