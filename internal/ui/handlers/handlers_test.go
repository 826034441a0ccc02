package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sacdia/dashboard-module/internal/apiclient"
	"github.com/sacdia/dashboard-module/internal/catalogs"
	"github.com/sacdia/dashboard-module/internal/rbac"
	"github.com/sacdia/dashboard-module/internal/repository"
	"github.com/sacdia/dashboard-module/internal/service"
	"github.com/sacdia/dashboard-module/internal/session"
	"github.com/sacdia/dashboard-module/internal/ui/messages"
	"github.com/sacdia/dashboard-module/internal/ui/pages"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memorySettingsRepo — in-memory репозиторий настроек для тестов.
type memorySettingsRepo struct {
	settings map[string]repository.Setting
}

func newMemorySettingsRepo() *memorySettingsRepo {
	return &memorySettingsRepo{settings: make(map[string]repository.Setting)}
}

func (m *memorySettingsRepo) Get(_ context.Context, key string) (*repository.Setting, error) {
	s, ok := m.settings[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memorySettingsRepo) Set(_ context.Context, key, value, updatedBy string) error {
	m.settings[key] = repository.Setting{Key: key, Value: value, UpdatedBy: updatedBy}
	return nil
}

func (m *memorySettingsRepo) List(_ context.Context) ([]repository.Setting, error) {
	var out []repository.Setting
	for _, s := range m.settings {
		out = append(out, s)
	}
	return out, nil
}

func (m *memorySettingsRepo) Delete(_ context.Context, key string) error {
	delete(m.settings, key)
	return nil
}

// testEnv — обработчики поверх мок-бэкенда.
type testEnv struct {
	auth       *AuthHandler
	catalogs   *CatalogHandler
	rbac       *RBACHandler
	adminUsers *AdminUsersHandler
	cookies    *session.Manager
	settings   *memorySettingsRepo
}

// newTestEnv собирает обработчики с реальным клиентом бэкенда,
// резолвером сессий и рендерером поверх httptest-сервера.
func newTestEnv(t *testing.T, backend http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	logger := testLogger()
	api, err := apiclient.New(server.URL, "", 5*time.Second, logger)
	if err != nil {
		t.Fatalf("ошибка создания клиента: %v", err)
	}

	renderer, err := pages.NewRenderer(logger)
	if err != nil {
		t.Fatalf("ошибка инициализации шаблонов: %v", err)
	}

	cookies := session.NewManager(false)
	resolver := session.NewResolver(api, cookies, nil, logger)
	engine := catalogs.New(api, logger)
	settingsRepo := newMemorySettingsRepo()
	settingsSvc := service.NewSettingsService(settingsRepo, logger)
	rbacSvc := rbac.New(api, logger)

	return &testEnv{
		auth:       NewAuthHandler(api, cookies, renderer, logger),
		catalogs:   NewCatalogHandler(engine, settingsSvc, resolver, cookies, renderer, logger),
		rbac:       NewRBACHandler(rbacSvc, resolver, cookies, renderer, logger),
		adminUsers: NewAdminUsersHandler(api, settingsSvc, resolver, cookies, renderer, logger),
		cookies:    cookies,
		settings:   settingsRepo,
	}
}

// writeJSON пишет JSON-ответ мок-бэкенда.
func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// loginRequest создаёт POST /login с form-данными.
func loginRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// cookieValue возвращает значение cookie из ответа или пустую строку.
func responseCookie(rec *httptest.ResponseRecorder, name string) string {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name && cookie.MaxAge >= 0 {
			return cookie.Value
		}
	}
	return ""
}

// TestAuthHandler_LoginSubmit_Success проверяет полный цикл входа:
// аутентификация, валидация роли, установка cookie, redirect в панель.
func TestAuthHandler_LoginSubmit_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK,
			`{"status":"success","data":{"access_token":"at-1","refresh_token":"rt-1"}}`)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"unauthorized"}`)
			return
		}
		writeJSON(w, http.StatusOK,
			`{"status":"success","data":{"email":"admin@sacdia.app","role":"admin"}}`)
	})
	env := newTestEnv(t, mux)

	rec := httptest.NewRecorder()
	env.auth.HandleLoginSubmit(rec, loginRequest(url.Values{
		"email":    {"admin@sacdia.app"},
		"password": {"secret"},
	}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("ожидался 303, получен %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("ожидался redirect /dashboard, получен %s", loc)
	}
	if got := responseCookie(rec, session.AccessCookieName); got != "at-1" {
		t.Errorf("неожиданная access-cookie: %q", got)
	}
	if got := responseCookie(rec, session.RefreshCookieName); got != "rt-1" {
		t.Errorf("неожиданная refresh-cookie: %q", got)
	}
}

// TestAuthHandler_LoginSubmit_EmptyFields проверяет локальную валидацию формы.
func TestAuthHandler_LoginSubmit_EmptyFields(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())

	rec := httptest.NewRecorder()
	env.auth.HandleLoginSubmit(rec, loginRequest(url.Values{"email": {"admin@sacdia.app"}}))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "obligatorios") {
		t.Error("ожидалось сообщение об обязательных полях")
	}
}

// TestAuthHandler_LoginSubmit_BadCredentials проверяет 401 от бэкенда.
func TestAuthHandler_LoginSubmit_BadCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"invalid credentials"}`)
	})
	env := newTestEnv(t, mux)

	rec := httptest.NewRecorder()
	env.auth.HandleLoginSubmit(rec, loginRequest(url.Values{
		"email":    {"admin@sacdia.app"},
		"password": {"wrong"},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Correo o contrasena incorrectos.") {
		t.Error("ожидалось сообщение о неверных учётных данных")
	}
	if responseCookie(rec, session.AccessCookieName) != "" {
		t.Error("cookie не должны устанавливаться при ошибке входа")
	}
}

// TestAuthHandler_LoginSubmit_DeniedWithoutToken проверяет отказ
// бэкенда со статусом 200 без токенов: техническое сообщение
// классифицируется в сообщение для пользователя.
func TestAuthHandler_LoginSubmit_DeniedWithoutToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"error","message":"usuario sin rol administrativo"}`)
	})
	env := newTestEnv(t, mux)

	rec := httptest.NewRecorder()
	env.auth.HandleLoginSubmit(rec, loginRequest(url.Values{
		"email":    {"user@sacdia.app"},
		"password": {"secret"},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Tu cuenta no tiene rol administrativo") {
		t.Errorf("ожидалось классифицированное сообщение об отказе, тело: %s", rec.Body.String())
	}
}

// TestAuthHandler_LoginSubmit_NoAdminRole проверяет ключевой инвариант:
// пользователь без административной роли не получает cookie сессии
// даже при валидных учётных данных.
func TestAuthHandler_LoginSubmit_NoAdminRole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"at-2","refresh_token":"rt-2"}`)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"email":"user@sacdia.app","role":"director"}`)
	})
	env := newTestEnv(t, mux)

	rec := httptest.NewRecorder()
	env.auth.HandleLoginSubmit(rec, loginRequest(url.Values{
		"email":    {"user@sacdia.app"},
		"password": {"secret"},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), messages.NoAdminRoleMessage) {
		t.Error("ожидалось сообщение о недостаточной роли")
	}
	if responseCookie(rec, session.AccessCookieName) != "" {
		t.Error("access-cookie не должна устанавливаться без административной роли")
	}
	if responseCookie(rec, session.RefreshCookieName) != "" {
		t.Error("refresh-cookie не должна устанавливаться без административной роли")
	}
}

// TestAuthHandler_Logout проверяет очистку cookie и валидацию next:
// допускаются только локальные пути.
func TestAuthHandler_Logout(t *testing.T) {
	tests := []struct {
		name     string
		next     string
		wantNext string
	}{
		{"без next", "", "/login"},
		{"локальный путь", "/login?error=x", "/login?error=x"},
		{"protocol-relative URL отклоняется", "//evil.example", "/login"},
		{"абсолютный URL отклоняется", "https://evil.example/phish", "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"status":"success"}`)
			})
			env := newTestEnv(t, mux)

			target := "/api/auth/logout"
			if tt.next != "" {
				target += "?next=" + url.QueryEscape(tt.next)
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			req.AddCookie(&http.Cookie{Name: session.AccessCookieName, Value: "at"})
			req.AddCookie(&http.Cookie{Name: session.RefreshCookieName, Value: "rt"})

			rec := httptest.NewRecorder()
			env.auth.HandleLogout(rec, req)

			if rec.Code != http.StatusFound {
				t.Fatalf("ожидался 302, получен %d", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantNext {
				t.Errorf("ожидался redirect %s, получен %s", tt.wantNext, loc)
			}

			cleared := map[string]bool{}
			for _, cookie := range rec.Result().Cookies() {
				if cookie.MaxAge < 0 {
					cleared[cookie.Name] = true
				}
			}
			if !cleared[session.AccessCookieName] || !cleared[session.RefreshCookieName] {
				t.Errorf("обе cookie должны быть очищены, очищено: %v", cleared)
			}
		})
	}
}

// TestAuthHandler_LogoutAPI проверяет JSON-вариант выхода:
// cookie очищаются, бэкенд уведомляется, ответ — JSON без redirect.
func TestAuthHandler_LogoutAPI(t *testing.T) {
	var backendCalled bool
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		backendCalled = true
		writeJSON(w, http.StatusOK, `{"status":"success"}`)
	})
	env := newTestEnv(t, mux)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.AccessCookieName, Value: "at"})
	req.AddCookie(&http.Cookie{Name: session.RefreshCookieName, Value: "rt"})

	rec := httptest.NewRecorder()
	env.auth.HandleLogoutAPI(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("ожидался Content-Type application/json, получен %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("ожидался JSON-ответ со статусом ok, тело: %s", rec.Body.String())
	}
	if !backendCalled {
		t.Error("ожидался вызов /auth/logout на бэкенде")
	}

	cleared := map[string]bool{}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			cleared[cookie.Name] = true
		}
	}
	if !cleared[session.AccessCookieName] || !cleared[session.RefreshCookieName] {
		t.Errorf("обе cookie должны быть очищены, очищено: %v", cleared)
	}
}

// adminBackend — мок-бэкенд с администратором и справочником аллергий.
func adminBackend() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"email":"admin@sacdia.app","role":"admin"}`)
	})
	mux.HandleFunc("/admin/allergies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK,
			`{"status":"success","data":[{"allergy_id":1,"name":"Polen","active":true}]}`)
	})
	mux.HandleFunc("/admin/allergies/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK,
			`{"status":"success","data":{"allergy_id":1,"name":"Polen","active":true}}`)
	})
	return mux
}

// catalogRouter монтирует маршруты справочников на chi-роутер.
func catalogRouter(env *testEnv) *chi.Mux {
	router := chi.NewRouter()
	env.catalogs.Mount(router)
	return router
}

// adminRequest создаёт запрос с access-cookie администратора.
func adminRequest(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: session.AccessCookieName, Value: "at"})
	return req
}

// TestCatalogHandler_List проверяет страницу списка справочника.
func TestCatalogHandler_List(t *testing.T) {
	env := newTestEnv(t, adminBackend())
	router := catalogRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminRequest(http.MethodGet, "/dashboard/catalogs/allergies", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Polen") {
		t.Error("ожидался элемент списка в ответе")
	}
}

// TestCatalogHandler_List_NoSession проверяет redirect в точку выхода без сессии.
func TestCatalogHandler_List_NoSession(t *testing.T) {
	env := newTestEnv(t, adminBackend())
	router := catalogRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/catalogs/allergies", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("ожидался 302, получен %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != session.AdminLogoutRedirect {
		t.Errorf("ожидался redirect %s, получен %s", session.AdminLogoutRedirect, loc)
	}
}

// TestCatalogHandler_ReadOnlyGuard проверяет запрет мутаций read-only
// справочника до любого обращения к движку.
func TestCatalogHandler_ReadOnlyGuard(t *testing.T) {
	env := newTestEnv(t, adminBackend())
	router := catalogRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminRequest(http.MethodGet, "/dashboard/catalogs/club-types/new", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("ожидался 303, получен %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/dashboard/catalogs/club-types?error=") {
		t.Errorf("ожидался redirect с ошибкой на список, получен %s", loc)
	}
}

// TestCatalogHandler_Deactivate проверяет подтверждение именем:
// несовпадение возвращает на страницу подтверждения, совпадение
// переводит элемент в active=false.
func TestCatalogHandler_Deactivate(t *testing.T) {
	t.Run("имя не совпадает", func(t *testing.T) {
		env := newTestEnv(t, adminBackend())
		router := catalogRouter(env)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodPost,
			"/dashboard/catalogs/allergies/1/deactivate",
			url.Values{"confirm_name": {"Gluten"}},
		))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("ожидался 303, получен %d", rec.Code)
		}
		loc := rec.Header().Get("Location")
		if !strings.HasPrefix(loc, "/dashboard/catalogs/allergies/1/deactivate?error=") {
			t.Errorf("ожидался возврат на подтверждение с ошибкой, получен %s", loc)
		}
	})

	t.Run("имя совпадает", func(t *testing.T) {
		mux := adminBackend()
		var patched bool
		mux.HandleFunc("PATCH /admin/allergies/1", func(w http.ResponseWriter, r *http.Request) {
			patched = true
			writeJSON(w, http.StatusOK, `{"status":"success"}`)
		})
		env := newTestEnv(t, mux)
		router := catalogRouter(env)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodPost,
			"/dashboard/catalogs/allergies/1/deactivate",
			url.Values{"confirm_name": {"Polen"}},
		))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("ожидался 303, получен %d", rec.Code)
		}
		if !patched {
			t.Error("ожидался PATCH элемента на бэкенде")
		}
		loc := rec.Header().Get("Location")
		if !strings.HasPrefix(loc, "/dashboard/catalogs/allergies?flash=") {
			t.Errorf("ожидался redirect с flash на список, получен %s", loc)
		}
	})
}

// TestCatalogHandler_DefaultCountryFilter проверяет настройку
// dashboard.default_country: без query-параметра parent список
// фильтруется страной по умолчанию, явный (пусть и пустой)
// параметр её отменяет.
func TestCatalogHandler_DefaultCountryFilter(t *testing.T) {
	var gotCountry string
	mux := adminBackend()
	mux.HandleFunc("/admin/unions", func(w http.ResponseWriter, r *http.Request) {
		gotCountry = r.URL.Query().Get("countryId")
		writeJSON(w, http.StatusOK, `{"status":"success","data":[]}`)
	})
	env := newTestEnv(t, mux)
	if err := env.settings.Set(context.Background(), "dashboard.default_country", "7", "tests"); err != nil {
		t.Fatalf("ошибка записи настройки: %v", err)
	}
	router := catalogRouter(env)

	t.Run("parent не задан", func(t *testing.T) {
		gotCountry = ""
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodGet,
			"/dashboard/catalogs/geography/unions", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("ожидался 200, получен %d", rec.Code)
		}
		if gotCountry != "7" {
			t.Errorf("ожидался countryId=7 из настройки, получен %q", gotCountry)
		}
	})

	t.Run("parent задан пустым", func(t *testing.T) {
		gotCountry = "unset"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodGet,
			"/dashboard/catalogs/geography/unions?parent=", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("ожидался 200, получен %d", rec.Code)
		}
		if gotCountry != "" {
			t.Errorf("явный пустой parent значит «все страны», получен countryId=%q", gotCountry)
		}
	})
}

// TestAdminUsersHandler_ItemsPerPageSetting проверяет, что размер
// страницы по умолчанию берётся из настройки dashboard.items_per_page.
func TestAdminUsersHandler_ItemsPerPageSetting(t *testing.T) {
	var gotLimit string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"email":"admin@sacdia.app","role":"admin"}`)
	})
	mux.HandleFunc("/admin/users", func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		writeJSON(w, http.StatusOK, `{"status":"success","data":[],"total":0}`)
	})
	env := newTestEnv(t, mux)
	if err := env.settings.Set(context.Background(), "dashboard.items_per_page", "50", "tests"); err != nil {
		t.Fatalf("ошибка записи настройки: %v", err)
	}

	rec := httptest.NewRecorder()
	env.adminUsers.HandleAdminUsers(rec, adminRequest(http.MethodGet, "/dashboard/admin-users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	if gotLimit != "50" {
		t.Errorf("ожидался limit=50 из настройки, получен %q", gotLimit)
	}
}

// TestRBACHandler_PermissionCreate проверяет создание permission:
// успех ведёт на список с flash, ошибка формата имени возвращает
// форму с сообщением без обращения к бэкенду.
func TestRBACHandler_PermissionCreate(t *testing.T) {
	t.Run("успешное создание", func(t *testing.T) {
		mux := adminBackend()
		mux.HandleFunc("POST /admin/rbac/permissions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated,
				`{"status":"success","data":{"permission_id":10,"permission_name":"clubs:create"}}`)
		})
		env := newTestEnv(t, mux)

		rec := httptest.NewRecorder()
		env.rbac.HandlePermissionCreate(rec, adminRequest(http.MethodPost,
			"/dashboard/rbac/permissions/new",
			url.Values{
				"permission_name": {"clubs:create"},
				"description":     {"Crear clubes"},
			},
		))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("ожидался 303, получен %d", rec.Code)
		}
		loc := rec.Header().Get("Location")
		if !strings.HasPrefix(loc, "/dashboard/rbac/permissions?flash=") {
			t.Errorf("ожидался redirect с flash на список permissions, получен %s", loc)
		}
	})

	t.Run("неверный формат имени", func(t *testing.T) {
		var created bool
		mux := adminBackend()
		mux.HandleFunc("POST /admin/rbac/permissions", func(w http.ResponseWriter, r *http.Request) {
			created = true
			writeJSON(w, http.StatusCreated, `{"status":"success"}`)
		})
		env := newTestEnv(t, mux)

		rec := httptest.NewRecorder()
		env.rbac.HandlePermissionCreate(rec, adminRequest(http.MethodPost,
			"/dashboard/rbac/permissions/new",
			url.Values{"permission_name": {"resource_action"}},
		))

		if rec.Code != http.StatusOK {
			t.Fatalf("ожидался 200 с повторной формой, получен %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "El formato debe ser resource:action") {
			t.Errorf("ожидалось сообщение о формате имени, тело: %s", rec.Body.String())
		}
		if created {
			t.Error("бэкенд не должен вызываться при ошибке валидации")
		}
	})
}
