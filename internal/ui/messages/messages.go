// Пакет messages — преобразование ошибок бэкенда в сообщения
// для пользователя. Сообщения на испанском: это язык интерфейса
// панели, он не зависит от языка логов.
// Отображение тотально: любой HTTP-статус попадает в свою категорию.
package messages

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sacdia/dashboard-module/internal/apiclient"
)

// Сообщения категорий ошибок действий.
const (
	msgNoPermission      = "No tienes permisos para realizar esta accion."
	msgConflict          = "No se pudo completar la accion por conflicto de datos."
	msgInvalidData       = "Los datos enviados no son validos para esta accion."
	msgRateLimited       = "Demasiadas solicitudes al backend. Intenta nuevamente en unos segundos."
	msgBackendDown       = "El backend no esta disponible temporalmente. Intenta de nuevo mas tarde."
	msgDeniedFallback    = "Tu cuenta no tiene permisos para este panel."
	msgProfileIncomplete = "Inicio de sesion incompleto. No se pudo validar el perfil."
)

// ActionError преобразует ошибку действия в сообщение для пользователя.
// endpointLabel — необязательная метка endpoint'а для сообщений 404/405.
// Не-APIError: текст ошибки, при его отсутствии — fallback.
func ActionError(err error, fallback, endpointLabel string) string {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		if err != nil && err.Error() != "" {
			return err.Error()
		}
		return fallback
	}

	label := ""
	if endpointLabel != "" {
		label = fmt.Sprintf(" (%s)", endpointLabel)
	}

	switch {
	case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
		return msgNoPermission
	case apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusMethodNotAllowed:
		return fmt.Sprintf("El endpoint no esta disponible en este entorno%s.", label)
	case apiErr.Status == http.StatusConflict:
		return msgConflict
	case apiErr.Status == http.StatusUnprocessableEntity:
		return msgInvalidData
	case apiErr.Status == http.StatusTooManyRequests:
		return msgRateLimited
	case apiErr.Status >= 500:
		return msgBackendDown
	}

	if apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Шаги процесса входа для LoginError.
const (
	LoginStepLogin   = "login"
	LoginStepProfile = "profile"
)

// LoginError преобразует ошибку шага входа в сообщение для пользователя.
// Шаг login — вызов /auth/login, шаг profile — валидация /auth/me.
func LoginError(err error, step string) string {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		if step == LoginStepProfile {
			return msgProfileIncomplete
		}
		return "No fue posible iniciar sesion. Intenta nuevamente."
	}

	if step == LoginStepLogin {
		switch apiErr.Status {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return "Correo o contrasena incorrectos."
		case http.StatusNotFound:
			return "No se encontro el endpoint de login. Revisa DM_API_URL (ej. http://localhost:3000/api/v1)."
		}
	}

	if step == LoginStepProfile {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "Tu sesion no tiene permisos para abrir el panel administrativo."
		case http.StatusNotFound:
			return "Inicio de sesion exitoso, pero no se pudo validar rol admin (/auth/me devolvio 404). Verifica la configuracion de la API."
		}
	}

	if apiErr.Status == http.StatusTooManyRequests {
		return msgRateLimited
	}
	if apiErr.Status >= 500 {
		return "El servidor no respondio correctamente. Intenta nuevamente en unos minutos."
	}

	return apiErr.Message
}

// deniedPatterns — подстроки технического сообщения бэкенда и
// соответствующие им сообщения для пользователя. Порядок значим.
var deniedPatterns = []struct {
	substrings []string
	message    string
}{
	{
		substrings: []string{"sin rol", "no tiene rol", "no tienes rol", "global roles", "admin privileges", "insufficient permissions"},
		message:    "Tu cuenta no tiene rol administrativo para acceder a este panel.",
	},
	{
		substrings: []string{"postregistration", "post-registration", "completar registro", "registro incompleto", "profile incomplete"},
		message:    "Necesitas completar tu registro antes de ingresar al panel.",
	},
	{
		substrings: []string{"inactive", "inactivo", "disabled", "blocked", "suspended"},
		message:    "Tu cuenta esta inactiva o bloqueada. Contacta al administrador.",
	},
	{
		substrings: []string{"email not confirmed", "correo no confirmado", "email unconfirmed"},
		message:    "Debes confirmar tu correo antes de ingresar.",
	},
	{
		substrings: []string{"unauthorized", "no autorizado"},
		message:    "No fue posible autenticar tu acceso al panel.",
	},
}

// DeniedAccess классифицирует техническое сообщение бэкенда об отказе
// во входе в сообщение для пользователя. Нераспознанное сообщение
// показывается как есть; пустое — заменяется общим сообщением.
func DeniedAccess(technical string) string {
	text := strings.ToLower(strings.TrimSpace(technical))
	if text == "" {
		return msgDeniedFallback
	}

	for _, pattern := range deniedPatterns {
		for _, substring := range pattern.substrings {
			if strings.Contains(text, substring) {
				return pattern.message
			}
		}
	}

	return technical
}

// DeniedTechnical извлекает техническое сообщение об отказе из ответа логина:
// первое непустое из message, error, data.message, data.error, data.detail,
// data.reason, status (если status не success/ok).
func DeniedTechnical(payload map[string]any) string {
	if payload == nil {
		return ""
	}

	candidates := []any{payload["message"], payload["error"]}
	if data, ok := payload["data"].(map[string]any); ok {
		candidates = append(candidates, data["message"], data["error"], data["detail"], data["reason"])
	}
	if status, ok := payload["status"].(string); ok {
		normalized := strings.ToLower(strings.TrimSpace(status))
		if normalized != "" && normalized != "success" && normalized != "ok" {
			candidates = append(candidates, status)
		}
	}

	for _, candidate := range candidates {
		if s, ok := candidate.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// NoAdminRoleMessage — сообщение при недостаточной роли после успешного входа.
const NoAdminRoleMessage = "Tu cuenta no tiene permisos para este panel. Solicita rol admin, super_admin o coordinator."

// ReadOnlyMessage — сообщение при попытке мутации read-only справочника.
const ReadOnlyMessage = "Este catalogo es de solo lectura en este entorno."
