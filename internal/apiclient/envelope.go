package apiclient

// Бэкенд отдаёт данные в двух видах: «голый» payload или конверт
// {status, data}. Функции ниже приводят оба вида к одному —
// некорректная форма никогда не является ошибкой сама по себе.

// UnwrapList нормализует ответ-список.
// Голый массив возвращается как есть, конверт {data: [...]} — его содержимое.
// Любая другая форма (nil, объект без data, скалярное значение) — пустой список.
func UnwrapList(payload any) []map[string]any {
	switch v := payload.(type) {
	case []any:
		return toObjectList(v)
	case map[string]any:
		if inner, ok := v["data"].([]any); ok {
			return toObjectList(inner)
		}
	}
	return []map[string]any{}
}

// UnwrapObject нормализует ответ-объект.
// Конверт {status, data: {...}} возвращает data, голый объект — как есть,
// любая другая форма — nil.
func UnwrapObject(payload any) map[string]any {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}

	// Конверт распознаётся по строковому status и объектному data
	if _, hasStatus := obj["status"].(string); hasStatus {
		if data, ok := obj["data"].(map[string]any); ok {
			return data
		}
	}

	return obj
}

// toObjectList отбирает из массива только элементы-объекты.
func toObjectList(items []any) []map[string]any {
	result := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			result = append(result, obj)
		}
	}
	return result
}
