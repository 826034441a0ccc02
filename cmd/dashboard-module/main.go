// Точка входа Dashboard Module — административная панель SACDIA.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт клиент бэкенда SACDIA и сервисный слой, запускает фоновые
// задачи (topologymetrics, очистка журнала отказов), HTTP-сервер
// с маршрутным фильтром, CSRF-защитой и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/sacdia/dashboard-module/internal/apiclient"
	"github.com/sacdia/dashboard-module/internal/catalogs"
	"github.com/sacdia/dashboard-module/internal/config"
	"github.com/sacdia/dashboard-module/internal/database"
	"github.com/sacdia/dashboard-module/internal/rbac"
	"github.com/sacdia/dashboard-module/internal/repository"
	"github.com/sacdia/dashboard-module/internal/server"
	"github.com/sacdia/dashboard-module/internal/service"
	"github.com/sacdia/dashboard-module/internal/session"
	uihandlers "github.com/sacdia/dashboard-module/internal/ui/handlers"
	uimiddleware "github.com/sacdia/dashboard-module/internal/ui/middleware"
	"github.com/sacdia/dashboard-module/internal/ui/pages"
)

// auditCleanupInterval — период фоновой очистки журнала отказов.
const auditCleanupInterval = 24 * time.Hour

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Dashboard Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("api_url", cfg.APIBaseURL),
	)

	if os.Getenv("DM_DEPHEALTH_GROUP") == "" {
		logger.Warn("DM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Клиент бэкенда SACDIA
	api, err := apiclient.New(cfg.APIBaseURL, cfg.APICACertPath, cfg.APITimeout, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента бэкенда", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. Repositories
	settingsRepo := repository.NewSettingsRepository(pool)
	auditRepo := repository.NewAccessAuditRepository(pool)

	// 7. Services
	settingsSvc := service.NewSettingsService(settingsRepo, logger)
	auditSvc := service.NewAuditService(auditRepo, logger)
	rbacSvc := rbac.New(api, logger)
	engine := catalogs.New(api, logger)

	// 8. Сессии: cookie-менеджер и резолвер пользователя
	cookies := session.NewManager(cfg.SecureCookie)
	resolver := session.NewResolver(api, cookies, auditSvc, logger)

	// 9. Рендерер страниц
	renderer, err := pages.NewRenderer(logger)
	if err != nil {
		logger.Error("Ошибка инициализации шаблонов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Обработчики страниц
	h := server.Handlers{
		Auth:       uihandlers.NewAuthHandler(api, cookies, renderer, logger),
		Dashboard:  uihandlers.NewDashboardHandler(api, resolver, cookies, renderer, logger),
		Catalogs:   uihandlers.NewCatalogHandler(engine, settingsSvc, resolver, cookies, renderer, logger),
		RBAC:       uihandlers.NewRBACHandler(rbacSvc, resolver, cookies, renderer, logger),
		AdminUsers: uihandlers.NewAdminUsersHandler(api, settingsSvc, resolver, cookies, renderer, logger),
		Settings:   uihandlers.NewSettingsHandler(settingsSvc, auditSvc, resolver, renderer, logger),
	}

	// 11. topologymetrics — мониторинг зависимостей (PostgreSQL + SACDIA API)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"dashboard-module",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.APIBaseURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
			defer dephealthSvc.Stop()
		}
	}

	// 12. Фоновая очистка журнала отказов
	go auditCleanupLoop(ctx, auditSvc, settingsSvc, logger)

	// 13. HTTP-сервер
	guard := uimiddleware.NewRouteGuard(cookies, logger)
	readiness := database.NewReadinessChecker(pool)

	srv, err := server.New(cfg, logger, h, guard, readiness)
	if err != nil {
		logger.Error("Ошибка создания HTTP-сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error("Ошибка HTTP-сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// auditCleanupLoop периодически удаляет устаревшие записи журнала отказов.
// Срок хранения читается из настроек при каждой итерации.
func auditCleanupLoop(
	ctx context.Context,
	audit *service.AuditService,
	settings *service.SettingsService,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(auditCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			retention := settings.AuditRetentionDays(ctx)
			if err := audit.Cleanup(ctx, retention); err != nil {
				logger.Warn("Ошибка очистки журнала отказов",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
