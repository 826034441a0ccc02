// metrics.go — Prometheus HTTP метрики панели.
// Регистрирует метрики: dm_http_requests_total, dm_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dm_http_requests_total",
			Help: "Общее количество HTTP-запросов к Dashboard Module",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dm_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Dashboard Module в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем идентификаторы на {id} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет идентификаторы в сегментах пути на {id}
// для предотвращения взрывного роста кардинальности метрик.
// /dashboard/catalogs/countries/42/edit → /dashboard/catalogs/{entity}/{id}/edit
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/", "/login", "/dashboard", "/dashboard/settings",
		"/dashboard/admin-users", "/dashboard/audit",
		"/dashboard/rbac", "/dashboard/rbac/permissions",
		"/api/auth/logout", "/metrics",
		"/health/live", "/health/ready":
		return path
	}

	// Каталожные страницы: /dashboard/catalogs/[geography/]{entity}[/{id}[/edit|/deactivate]]
	if rest, ok := strings.CutPrefix(path, "/dashboard/catalogs/"); ok {
		rest = strings.TrimPrefix(rest, "geography/")
		segments := strings.Split(rest, "/")
		switch len(segments) {
		case 1:
			return "/dashboard/catalogs/{entity}"
		case 2:
			if segments[1] == "new" {
				return "/dashboard/catalogs/{entity}/new"
			}
			return "/dashboard/catalogs/{entity}/{id}"
		default:
			return "/dashboard/catalogs/{entity}/{id}/" + segments[2]
		}
	}

	// RBAC-страницы с идентификаторами
	if rest, ok := strings.CutPrefix(path, "/dashboard/rbac/permissions/"); ok {
		if rest == "new" {
			return path
		}
		return "/dashboard/rbac/permissions/{id}"
	}
	if strings.HasPrefix(path, "/dashboard/rbac/roles/") {
		return "/dashboard/rbac/roles/{id}"
	}

	return path
}
