// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
)

// ValidationError — ошибка валидации с готовым текстом для пользователя.
// Текст на испанском: он показывается в интерфейсе как есть,
// язык логов на него не влияет.
type ValidationError struct {
	// Message — сообщение для пользователя.
	Message string
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string { return e.Message }

// Is сопоставляет ошибку с ErrValidation для errors.Is.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
