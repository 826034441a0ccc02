// Пакет pages — серверный рендеринг страниц панели через html/template.
// Каждая страница — отдельный набор шаблонов (layout + content),
// собранный один раз при старте из embedded FS.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/sacdia/dashboard-module/internal/catalogs"
	"github.com/sacdia/dashboard-module/internal/domain/catalog"
	"github.com/sacdia/dashboard-module/internal/repository"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Имена страниц. Совпадают с именами файлов шаблонов без расширения.
const (
	PageLogin              = "login"
	PageDashboard          = "dashboard"
	PageCatalogList        = "catalog_list"
	PageCatalogForm        = "catalog_form"
	PageCatalogDeactivate  = "catalog_deactivate"
	PageRBACPermissions    = "rbac_permissions"
	PageRBACPermissionForm = "rbac_permission_form"
	PageRBACRoles          = "rbac_roles"
	PageRBACRoleDetail     = "rbac_role_detail"
	PageAdminUsers         = "admin_users"
	PageSettings           = "settings"
	PageAudit              = "audit"
	PageError              = "error"
)

var pageNames = []string{
	PageLogin, PageDashboard,
	PageCatalogList, PageCatalogForm, PageCatalogDeactivate,
	PageRBACPermissions, PageRBACPermissionForm, PageRBACRoles, PageRBACRoleDetail,
	PageAdminUsers, PageSettings, PageAudit, PageError,
}

// Renderer — рендерер страниц панели.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewRenderer разбирает шаблоны и создаёт рендерер.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"inc": func(n int) int { return n + 1 },
		"dec": func(n int) int { return n - 1 },
		"mul": func(a, b int) int { return a * b },
	}

	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора шаблона %s: %w", name, err)
		}
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		logger:    logger.With(slog.String("component", "pages")),
	}, nil
}

// Render отрисовывает страницу. Сначала в буфер: ошибка шаблона
// не должна оставить клиенту полуотрисованный ответ.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("Неизвестная страница", slog.String("page", name))
		http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		r.logger.Error("Ошибка рендеринга страницы",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// RenderError отрисовывает страницу ошибки с указанным статусом.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	t := r.templates[PageError]
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", ErrorData{
		Base:    Base{Title: "Error"},
		Status:  status,
		Message: message,
	}); err != nil {
		r.logger.Error("Ошибка рендеринга страницы ошибки", slog.String("error", err.Error()))
		fmt.Fprintln(w, message)
		return
	}
	_, _ = buf.WriteTo(w)
}

// Base — общие данные всех страниц.
type Base struct {
	// Title — заголовок вкладки.
	Title string
	// UserName — отображаемое имя вошедшего администратора.
	UserName string
	// UserEmail — email вошедшего администратора.
	UserEmail string
	// ActiveNav — ключ активного пункта навигации.
	ActiveNav string
	// CSRFField — скрытое поле CSRF-токена для форм (gorilla/csrf).
	CSRFField template.HTML
	// Flash — сообщение об успешном действии.
	Flash string
	// Error — сообщение об ошибке действия.
	Error string
	// Entities — конфигурации каталогов для навигации.
	Entities []*catalog.EntityConfig
}

// LoginData — данные страницы входа.
type LoginData struct {
	Base
	// Email — введённый email (сохраняется при ошибке входа).
	Email string
}

// DashboardData — данные главной страницы панели.
type DashboardData struct {
	Base
	// ClubCount — количество клубов; -1 если данные недоступны.
	ClubCount int
	// Clubs — список клубов бэкенда.
	Clubs []map[string]any
	// ClubsError — сообщение при недоступности списка клубов.
	ClubsError string
}

// CatalogItemView — строка списка каталога, подготовленная к отображению.
type CatalogItemView struct {
	ID     int64
	Name   string
	Active bool
	// Cells — значения полей в порядке Config.Fields.
	Cells []string
}

// CatalogListData — данные страницы списка каталога.
type CatalogListData struct {
	Base
	Config *catalog.EntityConfig
	Items  []CatalogItemView
	// ParentOptions — опции фильтра по родительскому каталогу.
	ParentOptions []catalogs.Option
	// ParentSelected — выбранное значение фильтра.
	ParentSelected string
}

// CatalogFormData — данные формы создания/редактирования элемента.
type CatalogFormData struct {
	Base
	Config *catalog.EntityConfig
	// IsEdit — true для формы редактирования.
	IsEdit bool
	// ItemID — идентификатор редактируемого элемента.
	ItemID int64
	// Options — опции select-полей по имени поля.
	Options map[string][]catalogs.Option
	// Values — значения полей формы по имени поля.
	Values map[string]string
}

// CatalogDeactivateData — данные страницы подтверждения деактивации.
type CatalogDeactivateData struct {
	Base
	Config   *catalog.EntityConfig
	ItemID   int64
	ItemName string
}

// PermissionView — разрешение RBAC для отображения.
type PermissionView struct {
	ID          string
	Name        string
	Description string
}

// RBACPermissionsData — данные страницы списка разрешений.
type RBACPermissionsData struct {
	Base
	Permissions []PermissionView
}

// RBACPermissionFormData — данные формы создания/редактирования разрешения.
type RBACPermissionFormData struct {
	Base
	IsEdit      bool
	ID          string
	Name        string
	Description string
}

// RoleView — роль RBAC для отображения.
type RoleView struct {
	ID          string
	Name        string
	Description string
	Permissions []PermissionView
}

// RBACRolesData — данные страницы списка ролей.
type RBACRolesData struct {
	Base
	Roles []RoleView
}

// RBACRoleDetailData — данные страницы роли с назначением разрешений.
type RBACRoleDetailData struct {
	Base
	Role RoleView
	// AllPermissions — все разрешения системы.
	AllPermissions []PermissionView
	// Assigned — идентификаторы разрешений, назначенных роли.
	Assigned map[string]bool
}

// AdminUserView — пользователь бэкенда для отображения.
type AdminUserView struct {
	ID    string
	Email string
	Name  string
	Roles []string
}

// AdminUsersData — данные страницы пользователей.
type AdminUsersData struct {
	Base
	Users []AdminUserView
	Total int
	Page  int
	Limit int
	// Unavailable — true, если endpoint пользователей недоступен на бэкенде.
	Unavailable bool
}

// SettingView — настройка панели для отображения.
type SettingView struct {
	Key         string
	Value       string
	Description string
	UpdatedBy   string
	UpdatedAt   string
}

// SettingsData — данные страницы настроек.
type SettingsData struct {
	Base
	Settings []SettingView
}

// AuditData — данные страницы журнала отказов.
type AuditData struct {
	Base
	Entries []repository.AccessAuditEntry
	// Counts — количество отказов по причинам.
	Counts map[string]int64
}

// ErrorData — данные страницы ошибки.
type ErrorData struct {
	Base
	Status  int
	Message string
}
