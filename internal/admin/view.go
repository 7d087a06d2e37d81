package admin

import (
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Formatter превращает строку модели в значение для отображения.
// Модель не меняет.
type Formatter func(m any) any

type SortField struct {
	Column string
	Desc   bool
}

// View - конфигурация одного раздела админки.
// Обработчики в этом пакете общие, все различия между сущностями описаны здесь.
type View struct {
	Slug       string
	Name       string
	NamePlural string

	New     func() any // указатель на пустую модель
	NewList func() any // указатель на пустой срез моделей

	ColumnList  []string
	DetailList  []string // если пусто, используется ColumnList
	Labels      map[string]string
	Searchable  []string // "name" или "customer.full_name"
	Sortable    []string
	DefaultSort []SortField
	Editable    []string // можно менять прямо из списка
	FormColumns []string
	Required    []string // обязательны при создании

	Formatters       map[string]Formatter
	DetailFormatters map[string]Formatter

	PageSize int
	ReadOnly bool

	Preload []string
	Scope   func(tx *gorm.DB) *gorm.DB
	// Select применяется только при выборке строк, подсчет идет без него
	Select func(tx *gorm.DB) *gorm.DB
	Bind    func(m any, f Form) error

	// AfterChange вызывается в транзакции после успешного создания или изменения
	AfterChange func(tx *gorm.DB, m any, created bool) error

	Inlines []*Inline

	schema *schema.Schema
}

// Inline - вложенный редактор дочерних строк (машины заказа)
type Inline struct {
	*View
	ParentKey string // колонка дочерней таблицы со ссылкой на родителя
}

const defaultPageSize = 20

func (v *View) pageSize() int {
	if v.PageSize > 0 {
		return v.PageSize
	}
	return defaultPageSize
}

func (v *View) detailColumns() []string {
	if len(v.DetailList) > 0 {
		return v.DetailList
	}
	return v.ColumnList
}

func (v *View) label(col string) string {
	if l, ok := v.Labels[col]; ok {
		return l
	}
	return col
}

func (v *View) inline(slug string) *Inline {
	for _, in := range v.Inlines {
		if in.Slug == slug {
			return in
		}
	}
	return nil
}
