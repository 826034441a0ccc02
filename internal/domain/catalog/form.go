package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError — ошибка валидации формы справочника.
// Message — готовое сообщение для пользователя (испанский).
type ValidationError struct {
	// Field — имя поля с ошибкой.
	Field string
	// Message — сообщение для пользователя.
	Message string
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	return e.Message
}

// requiredError создаёт ошибку обязательного поля.
func requiredError(field Field) *ValidationError {
	return &ValidationError{
		Field:   field.Name,
		Message: fmt.Sprintf("El campo %s es obligatorio", field.Label),
	}
}

// invalidNumberError создаёт ошибку нечислового значения.
func invalidNumberError(field Field) *ValidationError {
	return &ValidationError{
		Field:   field.Name,
		Message: fmt.Sprintf("El campo %s debe ser un número válido", field.Label),
	}
}

// BuildPayload собирает payload мутации из значений формы по схеме полей:
//   - checkbox: "on"/"true" → true, иначе false (всегда присутствует);
//   - number/select: целое число, нечисловое значение — ошибка валидации;
//   - text/textarea/date: строка с обрезанными пробелами;
//   - пустое необязательное поле в payload не попадает;
//   - пустое обязательное поле — ошибка валидации с подписью поля.
//
// Поля, не описанные в схеме, игнорируются.
func BuildPayload(config *EntityConfig, form url.Values) (map[string]any, error) {
	payload := make(map[string]any, len(config.Fields))

	for _, field := range config.Fields {
		raw := form.Get(field.Name)

		if field.Type == FieldCheckbox {
			payload[field.Name] = raw == "on" || raw == "true"
			continue
		}

		value := strings.TrimSpace(raw)
		if value == "" {
			if field.Required {
				return nil, requiredError(field)
			}
			continue
		}

		switch field.Type {
		case FieldNumber, FieldSelect:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, invalidNumberError(field)
			}
			payload[field.Name] = n
		default:
			payload[field.Name] = value
		}
	}

	return payload, nil
}
