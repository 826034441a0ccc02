// Пакет apiclient — HTTP-клиент для взаимодействия с SACDIA Backend API.
// Поддерживает TLS с кастомным CA (DM_API_CA_CERT_PATH), Bearer-авторизацию
// и нормализацию конвертов ответа ({status, data} или «голый» payload).
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// APIError — ошибка бэкенда с HTTP-статусом.
// Статус значим для вызывающего кода: 401/403 — невалидная сессия,
// 404/405 — endpoint не развёрнут, 429 — rate limit, 5xx — бэкенд недоступен.
type APIError struct {
	// Status — HTTP статус-код ответа бэкенда.
	Status int
	// Message — сообщение, извлечённое из тела ответа.
	Message string
	// Payload — декодированное тело ответа (для диагностики).
	Payload any
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	return fmt.Sprintf("бэкенд вернул статус %d: %s", e.Status, e.Message)
}

// Client — HTTP-клиент SACDIA Backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент бэкенда.
// baseURL — нормализованный базовый URL API (без trailing slash).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
func New(baseURL, caCertPath string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата бэкенда: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат бэкенда добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "api_client")),
	}, nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}

// Do выполняет запрос к бэкенду и возвращает декодированное JSON-тело.
// path — путь относительно базового URL (начинается с /), может содержать query.
// token — Bearer-токен (пустая строка — без авторизации).
// body — сериализуется в JSON, если не nil.
// Ответ не-2xx возвращается как *APIError с извлечённым сообщением.
func (c *Client) Do(ctx context.Context, method, path, token string, body any) (any, error) {
	reqURL := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("сериализация тела запроса %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload := decodePayload(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: extractMessage(payload, resp.StatusCode),
			Payload: payload,
		}
		c.logger.Debug("Бэкенд вернул ошибку",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	return payload, nil
}

// Get выполняет GET-запрос к бэкенду.
func (c *Client) Get(ctx context.Context, path, token string) (any, error) {
	return c.Do(ctx, http.MethodGet, path, token, nil)
}

// decodePayload декодирует тело ответа.
// JSON — в any (map/slice/примитив), иначе — непустой текст как строка, иначе nil.
func decodePayload(resp *http.Response) any {
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))

	if strings.Contains(contentType, "application/json") {
		var v any
		if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
			return nil
		}
		return v
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil
	}
	return text
}

// extractMessage извлекает человекочитаемое сообщение из тела ошибки.
// Поддерживает строковое тело, {"message": "..."} и {"message": [...]}.
func extractMessage(payload any, status int) string {
	switch v := payload.(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	case map[string]any:
		switch msg := v["message"].(type) {
		case string:
			if msg != "" {
				return msg
			}
		case []any:
			parts := make([]string, 0, len(msg))
			for _, m := range msg {
				parts = append(parts, fmt.Sprint(m))
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
	}

	return fmt.Sprintf("запрос завершился со статусом %d", status)
}
