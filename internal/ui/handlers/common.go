// Пакет handlers — HTTP-обработчики страниц панели.
// common.go — общие помощники: базовые данные страниц, flash-сообщения.
package handlers

import (
	"net/http"
	"net/url"

	"github.com/gorilla/csrf"

	"github.com/sacdia/dashboard-module/internal/domain/authz"
	"github.com/sacdia/dashboard-module/internal/domain/catalog"
	"github.com/sacdia/dashboard-module/internal/ui/pages"
)

// buildBase собирает общие данные страницы: пользователь, навигация,
// CSRF-поле и flash-сообщения из query-параметров.
func buildBase(r *http.Request, user authz.User, title, activeNav string) pages.Base {
	base := pages.Base{
		Title:     title,
		ActiveNav: activeNav,
		CSRFField: csrf.TemplateField(r),
		Flash:     r.URL.Query().Get("flash"),
		Error:     r.URL.Query().Get("error"),
		Entities:  catalog.All(),
	}
	if user != nil {
		base.UserName = user.FullName()
		base.UserEmail = user.Email()
	}
	return base
}

// redirectWithFlash перенаправляет с сообщением об успехе.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, flash string) {
	http.Redirect(w, r, path+"?flash="+url.QueryEscape(flash), http.StatusSeeOther)
}

// redirectWithError перенаправляет с сообщением об ошибке.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, message string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(message), http.StatusSeeOther)
}
