// Пакет server — HTTP-сервер панели с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на reverse proxy.
package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sacdia/dashboard-module/internal/config"
	"github.com/sacdia/dashboard-module/internal/database"
	"github.com/sacdia/dashboard-module/internal/ui/handlers"
	"github.com/sacdia/dashboard-module/internal/ui/middleware"
	"github.com/sacdia/dashboard-module/internal/ui/static"
)

// Handlers — обработчики страниц, монтируемые на роутер.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Dashboard  *handlers.DashboardHandler
	Catalogs   *handlers.CatalogHandler
	RBAC       *handlers.RBACHandler
	AdminUsers *handlers.AdminUsersHandler
	Settings   *handlers.SettingsHandler
}

// Server — HTTP-сервер панели.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными маршрутами и middleware.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	h Handlers,
	guard *middleware.RouteGuard,
	readiness *database.ReadinessChecker,
) (*Server, error) {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Служебные endpoints — вне маршрутного фильтра и CSRF
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health/live", handleLive)
	router.Get("/health/ready", handleReady(readiness))
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	// Выход: GET — переход из писем/redirect'ов, POST — JSON-вызов
	// клиентским кодом. Оба вне маршрутного фильтра и CSRF.
	router.Get("/api/auth/logout", h.Auth.HandleLogout)
	router.Post("/api/auth/logout", h.Auth.HandleLogoutAPI)

	// Страницы панели: маршрутный фильтр + CSRF-защита форм
	csrfKey, err := csrfKeyBytes(cfg.CSRFKey)
	if err != nil {
		return nil, err
	}
	csrfProtect := csrf.Protect(csrfKey,
		csrf.Secure(cfg.SecureCookie),
		csrf.Path("/"),
	)

	router.Group(func(r chi.Router) {
		r.Use(guard.Middleware())
		r.Use(csrfProtect)

		r.Get("/", handleRoot)
		r.Get("/login", h.Auth.HandleLoginPage)
		r.Post("/login", h.Auth.HandleLoginSubmit)

		r.Get("/dashboard", h.Dashboard.HandleDashboard)
		r.Get("/dashboard/admin-users", h.AdminUsers.HandleAdminUsers)
		r.Get("/dashboard/settings", h.Settings.HandleSettings)
		r.Post("/dashboard/settings", h.Settings.HandleSettingsUpdate)
		r.Get("/dashboard/audit", h.Settings.HandleAudit)

		h.Catalogs.Mount(r)
		h.RBAC.Mount(r)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}, nil
}

// handleRoot перенаправляет с корня в панель (фильтр отправит на /login при отсутствии cookie).
func handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// handleLive — liveness probe.
func handleLive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// handleReady — readiness probe: проверка локальной базы.
func handleReady(readiness *database.ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status, message := readiness.CheckReady()
		if status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		fmt.Fprintf(w, `{"status":%q,"message":%q}`+"\n", status, message)
	}
}

// csrfKeyBytes возвращает 32-байтовый ключ CSRF.
// Пустая конфигурация — случайный ключ на время жизни процесса:
// формы инвалидируются при рестарте, для dev-среды это приемлемо.
func csrfKeyBytes(configured string) ([]byte, error) {
	if configured != "" {
		if len(configured) != 32 {
			return nil, fmt.Errorf("DM_CSRF_KEY: ожидалось 32 байта, получено %d", len(configured))
		}
		return []byte(configured), nil
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("ошибка генерации CSRF-ключа: %w", err)
	}
	return key, nil
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
