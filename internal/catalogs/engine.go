// Пакет catalogs — движок CRUD справочников поверх бэкенда.
// Движок не знает о конкретных сущностях: вся специфика описана
// декларативно в internal/domain/catalog, здесь — только транспортная
// семантика (нормализация списков, fallback чтения, мягкое удаление).
package catalogs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sacdia/dashboard-module/internal/apiclient"
	"github.com/sacdia/dashboard-module/internal/domain/catalog"
)

// Ошибки движка.
var (
	// ErrReadOnly — попытка мутации read-only справочника.
	// Проверяется до любого сетевого вызова.
	ErrReadOnly = errors.New("el catálogo es de solo lectura")
	// ErrNotFound — элемент не найден ни по id, ни в списке.
	ErrNotFound = errors.New("elemento no encontrado")
)

// Backend — операции бэкенда, нужные движку.
// Реализуется apiclient.Client.
type Backend interface {
	Do(ctx context.Context, method, path, token string, body any) (any, error)
	Get(ctx context.Context, path, token string) (any, error)
}

// Option — вариант выбора для select-поля.
type Option struct {
	// Label — отображаемое имя.
	Label string
	// Value — числовой идентификатор.
	Value int64
}

// Engine — движок CRUD справочников.
type Engine struct {
	backend Backend
	logger  *slog.Logger
}

// New создаёт движок справочников.
func New(backend Backend, logger *slog.Logger) *Engine {
	return &Engine{
		backend: backend,
		logger:  logger.With(slog.String("component", "catalogs_engine")),
	}
}

// List возвращает нормализованный список элементов справочника.
// parentValue — значение родительского фильтра (пустая строка — без фильтра;
// игнорируется, если у справочника нет иерархии).
// Отсутствие endpoint'а (404/405) — это пустой справочник, а не ошибка:
// не все endpoint'ы развёрнуты в каждом окружении.
func (e *Engine) List(ctx context.Context, token, entityKey, parentValue string) ([]catalog.Item, error) {
	config, err := catalog.Get(entityKey)
	if err != nil {
		return nil, err
	}

	path := config.ListEndpoint
	if config.ParentFilter != nil && parentValue != "" {
		params := url.Values{}
		params.Set(config.ParentFilter.QueryParam, parentValue)
		path += "?" + params.Encode()
	}

	payload, err := e.backend.Get(ctx, path, token)
	if err != nil {
		if isEndpointMissing(err) {
			e.logger.Debug("Endpoint справочника не развёрнут, список пуст",
				slog.String("entity", entityKey),
				slog.String("path", config.ListEndpoint),
			)
			return []catalog.Item{}, nil
		}
		return nil, err
	}

	return catalog.NormalizeCollection(entityKey, apiclient.UnwrapList(payload)), nil
}

// GetByID возвращает элемент справочника по идентификатору.
// Сначала пробует endpoint детали; если тот не развёрнут или элемент
// не отдаётся по id — сканирует список. Не найден нигде — ErrNotFound.
func (e *Engine) GetByID(ctx context.Context, token, entityKey string, id int64) (catalog.Item, error) {
	config, err := catalog.Get(entityKey)
	if err != nil {
		return nil, err
	}

	// 1. Endpoint детали
	payload, err := e.backend.Get(ctx, fmt.Sprintf("%s/%d", config.AdminEndpoint, id), token)
	if err == nil {
		if obj := apiclient.UnwrapObject(payload); obj != nil {
			return catalog.NormalizeItem(entityKey, obj), nil
		}
	} else if !isEndpointMissing(err) {
		return nil, err
	}

	// 2. Fallback: поиск в списке
	items, err := e.List(ctx, token, entityKey, "")
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if catalog.IDValue(item, config) == id {
			return item, nil
		}
	}

	return nil, ErrNotFound
}

// SelectOptions возвращает варианты select-поля: только активные элементы.
func (e *Engine) SelectOptions(ctx context.Context, token, entityKey string) ([]Option, error) {
	config, err := catalog.Get(entityKey)
	if err != nil {
		return nil, err
	}

	items, err := e.List(ctx, token, entityKey, "")
	if err != nil {
		return nil, err
	}

	options := make([]Option, 0, len(items))
	for _, item := range items {
		if !catalog.IsActive(item) {
			continue
		}
		options = append(options, Option{
			Label: catalog.DisplayName(item, config),
			Value: catalog.IDValue(item, config),
		})
	}
	return options, nil
}

// Create создаёт элемент справочника.
// active по умолчанию true, если payload не задал иное.
func (e *Engine) Create(ctx context.Context, token, entityKey string, payload map[string]any) error {
	config, err := catalog.Get(entityKey)
	if err != nil {
		return err
	}
	if config.ReadOnly {
		return ErrReadOnly
	}

	if _, ok := payload["active"]; !ok {
		payload["active"] = true
	}

	if _, err := e.backend.Do(ctx, http.MethodPost, config.AdminEndpoint, token, payload); err != nil {
		return err
	}

	e.logger.Info("Элемент справочника создан",
		slog.String("entity", entityKey),
	)
	return nil
}

// Update изменяет элемент справочника (частичное обновление).
func (e *Engine) Update(ctx context.Context, token, entityKey string, id int64, payload map[string]any) error {
	config, err := catalog.Get(entityKey)
	if err != nil {
		return err
	}
	if config.ReadOnly {
		return ErrReadOnly
	}

	path := fmt.Sprintf("%s/%d", config.AdminEndpoint, id)
	if _, err := e.backend.Do(ctx, http.MethodPatch, path, token, payload); err != nil {
		return err
	}

	e.logger.Info("Элемент справочника изменён",
		slog.String("entity", entityKey),
		slog.Int64("id", id),
	)
	return nil
}

// Deactivate — мягкое удаление: элемент переводится в active=false.
// Справочные данные имеют исторические ссылки, физическое удаление
// не выполняется никогда; деактивация обратима через Update.
func (e *Engine) Deactivate(ctx context.Context, token, entityKey string, id int64) error {
	config, err := catalog.Get(entityKey)
	if err != nil {
		return err
	}
	if config.ReadOnly {
		return ErrReadOnly
	}

	path := fmt.Sprintf("%s/%d", config.AdminEndpoint, id)
	if _, err := e.backend.Do(ctx, http.MethodPatch, path, token, map[string]any{"active": false}); err != nil {
		return err
	}

	e.logger.Info("Элемент справочника деактивирован",
		slog.String("entity", entityKey),
		slog.Int64("id", id),
	)
	return nil
}

// isEndpointMissing сообщает, означает ли ошибка отсутствие endpoint'а (404/405).
func isEndpointMissing(err error) bool {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusMethodNotAllowed
}
