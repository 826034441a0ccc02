// Пакет catalog — декларативное описание справочников административной панели.
// Каждый справочник описывается EntityConfig: endpoint'ы бэкенда, схема полей
// формы, родительский фильтр географической иерархии, флаг read-only.
// Движок CRUD (internal/catalogs) работает только через эти описания.
package catalog

import "fmt"

// FieldType — тип поля формы справочника.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldCheckbox FieldType = "checkbox"
	FieldSelect   FieldType = "select"
)

// Field — поле формы справочника.
type Field struct {
	// Name — имя поля в payload бэкенда.
	Name string
	// Label — подпись поля в интерфейсе (испанский).
	Label string
	// Type — тип поля.
	Type FieldType
	// Required — обязательность поля.
	Required bool
	// Placeholder — подсказка в поле ввода.
	Placeholder string
	// OptionsEntity — ключ справочника-источника опций для select.
	OptionsEntity string
}

// ParentFilter — фильтр по родительской сущности географической иерархии.
type ParentFilter struct {
	// EntityKey — ключ родительского справочника.
	EntityKey string
	// FieldName — имя поля связи в элементе.
	FieldName string
	// QueryParam — имя query-параметра фильтра.
	QueryParam string
	// Label — подпись фильтра в интерфейсе.
	Label string
}

// EntityConfig — декларативное описание справочника.
type EntityConfig struct {
	// Key — ключ справочника в URL панели.
	Key string
	// Title — название во множественном числе.
	Title string
	// SingularTitle — название в единственном числе.
	SingularTitle string
	// Description — описание для страницы списка.
	Description string
	// RouteBase — базовый путь страниц справочника в панели.
	RouteBase string
	// ListEndpoint — endpoint чтения списка.
	ListEndpoint string
	// AdminEndpoint — endpoint мутаций (и чтения по id).
	AdminEndpoint string
	// ReadOnly — мутации запрещены (каталог ведётся на стороне бэкенда).
	ReadOnly bool
	// IDField — имя поля идентификатора.
	IDField string
	// NameField — имя отображаемого поля.
	NameField string
	// Fields — схема полей формы.
	Fields []Field
	// ParentFilter — фильтр по родителю (nil, если иерархии нет).
	ParentFilter *ParentFilter
}

// entityOrder — порядок справочников в навигации панели.
var entityOrder = []string{
	"countries",
	"unions",
	"local-fields",
	"districts",
	"churches",
	"relationship-types",
	"allergies",
	"diseases",
	"ecclesiastical-years",
	"club-types",
	"club-ideals",
}

// entityConfigs — реестр справочников.
var entityConfigs = map[string]*EntityConfig{
	"countries": {
		Key:           "countries",
		Title:         "Países",
		SingularTitle: "País",
		Description:   "Gestión del catálogo de países.",
		RouteBase:     "/dashboard/catalogs/geography/countries",
		ListEndpoint:  "/admin/countries",
		AdminEndpoint: "/admin/countries",
		IDField:       "country_id",
		NameField:     "name",
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "abbreviation", Label: "Abreviatura", Type: FieldText, Required: true, Placeholder: "MX"},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"unions": {
		Key:           "unions",
		Title:         "Uniones",
		SingularTitle: "Unión",
		Description:   "Gestión de uniones por país.",
		RouteBase:     "/dashboard/catalogs/geography/unions",
		ListEndpoint:  "/admin/unions",
		AdminEndpoint: "/admin/unions",
		IDField:       "union_id",
		NameField:     "name",
		ParentFilter: &ParentFilter{
			EntityKey:  "countries",
			FieldName:  "country_id",
			QueryParam: "countryId",
			Label:      "País",
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "abbreviation", Label: "Abreviatura", Type: FieldText, Required: true, Placeholder: "UMN"},
			{Name: "country_id", Label: "País", Type: FieldSelect, Required: true, OptionsEntity: "countries"},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"local-fields": {
		Key:           "local-fields",
		Title:         "Campos Locales",
		SingularTitle: "Campo Local",
		Description:   "Gestión de campos locales por unión.",
		RouteBase:     "/dashboard/catalogs/geography/local-fields",
		ListEndpoint:  "/admin/local-fields",
		AdminEndpoint: "/admin/local-fields",
		IDField:       "local_field_id",
		NameField:     "name",
		ParentFilter: &ParentFilter{
			EntityKey:  "unions",
			FieldName:  "union_id",
			QueryParam: "unionId",
			Label:      "Unión",
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "abbreviation", Label: "Abreviatura", Type: FieldText, Required: true, Placeholder: "CN"},
			{Name: "union_id", Label: "Unión", Type: FieldSelect, Required: true, OptionsEntity: "unions"},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"districts": {
		Key:           "districts",
		Title:         "Distritos",
		SingularTitle: "Distrito",
		Description:   "Gestión de distritos por campo local.",
		RouteBase:     "/dashboard/catalogs/geography/districts",
		ListEndpoint:  "/admin/districts",
		AdminEndpoint: "/admin/districts",
		IDField:       "district_id",
		NameField:     "name",
		ParentFilter: &ParentFilter{
			EntityKey:  "local-fields",
			FieldName:  "local_field_id",
			QueryParam: "localFieldId",
			Label:      "Campo Local",
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "local_field_id", Label: "Campo Local", Type: FieldSelect, Required: true, OptionsEntity: "local-fields"},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"churches": {
		Key:           "churches",
		Title:         "Iglesias",
		SingularTitle: "Iglesia",
		Description:   "Gestión de iglesias por distrito.",
		RouteBase:     "/dashboard/catalogs/geography/churches",
		ListEndpoint:  "/admin/churches",
		AdminEndpoint: "/admin/churches",
		IDField:       "church_id",
		NameField:     "name",
		ParentFilter: &ParentFilter{
			EntityKey:  "districts",
			FieldName:  "district_id",
			QueryParam: "districtId",
			Label:      "Distrito",
		},
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "district_id", Label: "Distrito", Type: FieldSelect, Required: true, OptionsEntity: "districts"},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"relationship-types": {
		Key:           "relationship-types",
		Title:         "Tipos de Relación",
		SingularTitle: "Tipo de Relación",
		Description:   "Catálogo de tipos de relación para contactos de emergencia y tutores.",
		RouteBase:     "/dashboard/catalogs/relationship-types",
		ListEndpoint:  "/admin/relationship-types",
		AdminEndpoint: "/admin/relationship-types",
		IDField:       "relationship_type_id",
		NameField:     "name",
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "description", Label: "Descripción", Type: FieldTextarea},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"allergies": {
		Key:           "allergies",
		Title:         "Alergias",
		SingularTitle: "Alergia",
		Description:   "Catálogo de alergias para post-registro.",
		RouteBase:     "/dashboard/catalogs/allergies",
		ListEndpoint:  "/admin/allergies",
		AdminEndpoint: "/admin/allergies",
		IDField:       "allergy_id",
		NameField:     "name",
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "description", Label: "Descripción", Type: FieldTextarea},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"diseases": {
		Key:           "diseases",
		Title:         "Enfermedades",
		SingularTitle: "Enfermedad",
		Description:   "Catálogo de enfermedades para post-registro.",
		RouteBase:     "/dashboard/catalogs/diseases",
		ListEndpoint:  "/admin/diseases",
		AdminEndpoint: "/admin/diseases",
		IDField:       "disease_id",
		NameField:     "name",
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "description", Label: "Descripción", Type: FieldTextarea},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"ecclesiastical-years": {
		Key:           "ecclesiastical-years",
		Title:         "Años Eclesiásticos",
		SingularTitle: "Año Eclesiástico",
		Description:   "Gestión de períodos eclesiásticos.",
		RouteBase:     "/dashboard/catalogs/ecclesiastical-years",
		ListEndpoint:  "/admin/ecclesiastical-years",
		AdminEndpoint: "/admin/ecclesiastical-years",
		IDField:       "year_id",
		NameField:     "year_id",
		Fields: []Field{
			{Name: "start_date", Label: "Fecha inicio", Type: FieldDate, Required: true},
			{Name: "end_date", Label: "Fecha fin", Type: FieldDate, Required: true},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"club-types": {
		Key:           "club-types",
		Title:         "Tipos de Club",
		SingularTitle: "Tipo de Club",
		Description:   "Catálogo de tipos de club.",
		RouteBase:     "/dashboard/catalogs/club-types",
		ListEndpoint:  "/catalogs/club-types",
		AdminEndpoint: "/catalogs/club-types",
		ReadOnly:      true,
		IDField:       "club_type_id",
		NameField:     "name",
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
	"club-ideals": {
		Key:           "club-ideals",
		Title:         "Ideales de Club",
		SingularTitle: "Ideal de Club",
		Description:   "Gestión de ideales por tipo de club.",
		RouteBase:     "/dashboard/catalogs/club-ideals",
		ListEndpoint:  "/admin/club-ideals",
		AdminEndpoint: "/admin/club-ideals",
		ReadOnly:      true,
		IDField:       "club_ideal_id",
		NameField:     "name",
		Fields: []Field{
			{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
			{Name: "description", Label: "Descripción", Type: FieldTextarea},
			{Name: "club_type_id", Label: "Tipo de club", Type: FieldSelect, Required: true, OptionsEntity: "club-types"},
			{Name: "active", Label: "Activo", Type: FieldCheckbox},
		},
	},
}

// Get возвращает описание справочника по ключу.
// Неизвестный ключ — ошибка, а не panic: ключ приходит из URL.
func Get(entityKey string) (*EntityConfig, error) {
	config, ok := entityConfigs[entityKey]
	if !ok {
		return nil, fmt.Errorf("неизвестный справочник: %q", entityKey)
	}
	return config, nil
}

// All возвращает описания всех справочников в порядке навигации.
func All() []*EntityConfig {
	configs := make([]*EntityConfig, 0, len(entityOrder))
	for _, key := range entityOrder {
		configs = append(configs, entityConfigs[key])
	}
	return configs
}

// Keys возвращает ключи всех справочников в порядке навигации.
func Keys() []string {
	keys := make([]string, len(entityOrder))
	copy(keys, entityOrder)
	return keys
}
