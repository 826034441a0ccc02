package apiclient

import (
	"context"
	"log/slog"
	"net/http"
)

// LoginResult — результат аутентификации на бэкенде.
type LoginResult struct {
	// AccessToken — access-токен сессии.
	AccessToken string
	// RefreshToken — refresh-токен сессии.
	RefreshToken string
	// User — объект пользователя, если бэкенд вернул его вместе с токенами.
	User map[string]any
	// Raw — развёрнутый объект ответа; нужен для диагностики отказов,
	// когда бэкенд отвечает 200 без токенов.
	Raw map[string]any
}

// Login выполняет вход по email и паролю.
// Возвращает токены сессии; ошибки бэкенда — *APIError со статусом.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload, err := c.Do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	result := normalizeLoginResponse(payload)
	c.logger.Debug("Аутентификация выполнена",
		slog.String("email", email),
		slog.Bool("has_access_token", result.AccessToken != ""),
		slog.Bool("has_refresh_token", result.RefreshToken != ""),
	)
	return result, nil
}

// normalizeLoginResponse извлекает токены из ответа /auth/login.
// Токены могут лежать в корне объекта, в конверте {status, data}
// или во вложенном объекте session.
func normalizeLoginResponse(payload any) *LoginResult {
	obj := UnwrapObject(payload)
	if obj == nil {
		return &LoginResult{}
	}

	source := obj
	if session, ok := obj["session"].(map[string]any); ok {
		source = session
	}

	result := &LoginResult{
		AccessToken:  stringField(source, "access_token"),
		RefreshToken: stringField(source, "refresh_token"),
		Raw:          obj,
	}
	if result.AccessToken == "" {
		result.AccessToken = stringField(source, "token")
	}
	if user, ok := obj["user"].(map[string]any); ok {
		result.User = user
	}
	return result
}

// Me возвращает профиль текущего пользователя по access-токену.
// Ответ нормализуется: конверт {status, data} разворачивается.
func (c *Client) Me(ctx context.Context, accessToken string) (map[string]any, error) {
	payload, err := c.Get(ctx, "/auth/me", accessToken)
	if err != nil {
		return nil, err
	}
	return UnwrapObject(payload), nil
}

// Logout инвалидирует сессию на бэкенде.
// Вызывается best-effort: ошибка логируется вызывающим кодом,
// локальные cookie очищаются в любом случае.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	var body any
	if refreshToken != "" {
		body = map[string]string{"refresh_token": refreshToken}
	}

	_, err := c.Do(ctx, http.MethodPost, "/auth/logout", accessToken, body)
	return err
}

// stringField возвращает строковое поле объекта или пустую строку.
func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
