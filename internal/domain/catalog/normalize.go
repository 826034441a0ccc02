package catalog

import (
	"fmt"
	"strconv"
)

// Item — элемент справочника. Набор полей открытый,
// бэкенд в разных окружениях отдаёт разные колонки.
type Item map[string]any

// NormalizeItem приводит элемент справочника к канонической форме:
//   - districts/churches: legacy-поле districlub_type_id копируется в district_id;
//   - ecclesiastical-years: синтезируется name из year_id, если имени нет;
//   - active: не-булево значение заменяется на true.
//
// Исходный элемент не модифицируется.
func NormalizeItem(entityKey string, item Item) Item {
	normalized := make(Item, len(item)+2)
	for k, v := range item {
		normalized[k] = v
	}

	// Бэкенд districts/churches местами отдаёт legacy-имя колонки
	if entityKey == "districts" || entityKey == "churches" {
		if _, ok := normalized["district_id"]; !ok {
			if legacy, ok := normalized["districlub_type_id"]; ok {
				normalized["district_id"] = legacy
			}
		}
	}

	if entityKey == "ecclesiastical-years" {
		if _, ok := normalized["name"]; !ok {
			if yearID, ok := normalized["year_id"]; ok {
				normalized["name"] = fmt.Sprintf("Anio %v", yearID)
			}
		}
	}

	if _, ok := normalized["active"].(bool); !ok {
		normalized["active"] = true
	}

	return normalized
}

// NormalizeCollection нормализует каждый элемент списка.
func NormalizeCollection(entityKey string, items []map[string]any) []Item {
	result := make([]Item, 0, len(items))
	for _, item := range items {
		result = append(result, NormalizeItem(entityKey, item))
	}
	return result
}

// IDValue возвращает числовой идентификатор элемента.
// Идентификатор может прийти числом или строкой; нераспознанное значение — 0.
func IDValue(item Item, config *EntityConfig) int64 {
	switch v := item[config.IDField].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// DisplayName возвращает отображаемое имя элемента.
// Если поле имени пустое — "#<id>".
func DisplayName(item Item, config *EntityConfig) string {
	if v, ok := item[config.NameField]; ok && v != nil {
		if s := fmt.Sprintf("%v", v); s != "" {
			return s
		}
	}
	return fmt.Sprintf("#%d", IDValue(item, config))
}

// IsActive сообщает, активен ли элемент.
// Элемент считается активным, если active не равен false явно.
func IsActive(item Item) bool {
	active, ok := item["active"].(bool)
	return !ok || active
}
