// Пакет session — cookie-сессии административной панели.
// Сессия — это пара bearer-токенов бэкенда в httpOnly cookie;
// панель не хранит собственного состояния сессии.
package session

import (
	"net/http"
)

// Имена cookie токенов сессии.
const (
	AccessCookieName  = "sacdia_access_token"
	RefreshCookieName = "sacdia_refresh_token"
)

// Максимальный возраст cookie токенов (7 суток — срок жизни refresh-токена).
const cookieMaxAge = 7 * 24 * 60 * 60

// Tokens — пара токенов сессии.
type Tokens struct {
	// Access — access-токен бэкенда.
	Access string
	// Refresh — refresh-токен бэкенда.
	Refresh string
}

// Manager — чтение и запись cookie токенов.
type Manager struct {
	// secure — Secure flag cookie (true за HTTPS / reverse proxy).
	secure bool
}

// NewManager создаёт менеджер cookie.
func NewManager(secure bool) *Manager {
	return &Manager{secure: secure}
}

// SetCookies устанавливает cookie токенов в ответ.
// Пустой refresh-токен не записывается (не все ответы логина его содержат).
func (m *Manager) SetCookies(w http.ResponseWriter, tokens Tokens) {
	http.SetCookie(w, m.cookie(AccessCookieName, tokens.Access, cookieMaxAge))
	if tokens.Refresh != "" {
		http.SetCookie(w, m.cookie(RefreshCookieName, tokens.Refresh, cookieMaxAge))
	}
}

// Tokens извлекает токены из запроса.
// Отсутствующая cookie — пустая строка, не ошибка.
func (m *Manager) Tokens(r *http.Request) Tokens {
	return Tokens{
		Access:  cookieValue(r, AccessCookieName),
		Refresh: cookieValue(r, RefreshCookieName),
	}
}

// HasAccessToken сообщает о наличии access-cookie.
// Это единственный критерий route guard: валидность токена
// проверяет бэкенд при первом же запросе.
func (m *Manager) HasAccessToken(r *http.Request) bool {
	return cookieValue(r, AccessCookieName) != ""
}

// ClearCookies удаляет обе cookie токенов из ответа.
func (m *Manager) ClearCookies(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(AccessCookieName, "", -1))
	http.SetCookie(w, m.cookie(RefreshCookieName, "", -1))
}

// cookie создаёт cookie токена с едиными атрибутами.
func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// cookieValue возвращает значение cookie или пустую строку.
func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
