// Package admin - общий CRUD-слой поверх GORM.
// Каждая сущность описывается структурой View, обработчики одинаковы для всех.
package admin

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Admin struct {
	db    *gorm.DB
	title string
	views []*View
}

func New(db *gorm.DB, title string) *Admin {
	return &Admin{db: db, title: title}
}

func (a *Admin) Views() []*View {
	return a.views
}

// AddView разбирает схему модели и проверяет, что все колонки конфигурации существуют
func (a *Admin) AddView(v *View) error {
	if err := a.prepare(v); err != nil {
		return err
	}
	for _, in := range v.Inlines {
		if err := a.prepare(in.View); err != nil {
			return err
		}
		if f := in.schema.LookUpField(in.ParentKey); f == nil || f.DBName == "" {
			return fmt.Errorf("admin %s/%s: неизвестная колонка родителя %q", v.Slug, in.Slug, in.ParentKey)
		}
	}

	for _, existing := range a.views {
		if existing.Slug == v.Slug {
			return fmt.Errorf("admin: раздел %q уже зарегистрирован", v.Slug)
		}
	}
	a.views = append(a.views, v)
	return nil
}

func (a *Admin) prepare(v *View) error {
	if v.Slug == "" || v.New == nil || v.NewList == nil {
		return fmt.Errorf("admin: у раздела должны быть Slug, New и NewList")
	}
	if !v.ReadOnly && v.Bind == nil {
		return fmt.Errorf("admin %s: нет функции Bind", v.Slug)
	}

	stmt := &gorm.Statement{DB: a.db}
	if err := stmt.Parse(v.New()); err != nil {
		return fmt.Errorf("admin %s: %w", v.Slug, err)
	}
	v.schema = stmt.Schema

	for _, col := range append(slices.Clone(v.ColumnList), v.detailColumns()...) {
		if !v.renderable(col) {
			return fmt.Errorf("admin %s: неизвестная колонка %q", v.Slug, col)
		}
	}
	for _, col := range v.Sortable {
		if v.field(col) == nil {
			return fmt.Errorf("admin %s: сортировка по %q невозможна", v.Slug, col)
		}
	}
	for _, s := range v.DefaultSort {
		if v.field(s.Column) == nil {
			return fmt.Errorf("admin %s: сортировка по %q невозможна", v.Slug, s.Column)
		}
	}
	for _, col := range v.Searchable {
		if _, err := v.searchExpr(col); err != nil {
			return err
		}
	}
	for _, col := range v.Editable {
		if !slices.Contains(v.FormColumns, col) {
			return fmt.Errorf("admin %s: колонка %q редактируется в списке, но ее нет в форме", v.Slug, col)
		}
	}
	return nil
}

func (v *View) renderable(col string) bool {
	if _, ok := v.Formatters[col]; ok {
		return true
	}
	if _, ok := v.DetailFormatters[col]; ok {
		return true
	}
	return v.field(col) != nil || v.relation(col) != nil
}

// field - обычная колонка таблицы
func (v *View) field(col string) *schema.Field {
	f := v.schema.LookUpField(col)
	if f == nil || f.DBName == "" {
		return nil
	}
	return f
}

// relation ищет связь модели по имени колонки: "truck_type" -> TruckType
func (v *View) relation(col string) *schema.Relationship {
	name := strings.ReplaceAll(col, "_", "")
	for _, rel := range v.schema.Relationships.Relations {
		if rel.Schema == v.schema && strings.EqualFold(rel.Name, name) {
			return rel
		}
	}
	return nil
}

type viewInfo struct {
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	NamePlural string   `json:"name_plural"`
	ReadOnly   bool     `json:"read_only"`
	Columns    []column `json:"columns"`
	Form       []string `json:"form_columns"`
	Inlines    []string `json:"inlines,omitempty"`
}

// GET {admin}
func (a *Admin) indexHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		views := make([]viewInfo, 0, len(a.views))
		for _, v := range a.views {
			info := viewInfo{
				Slug:       v.Slug,
				Name:       v.Name,
				NamePlural: v.NamePlural,
				ReadOnly:   v.ReadOnly,
				Columns:    v.columns(v.ColumnList),
				Form:       v.FormColumns,
			}
			for _, in := range v.Inlines {
				info.Inlines = append(info.Inlines, in.Slug)
			}
			views = append(views, info)
		}
		return c.JSON(fiber.Map{
			"title": a.title,
			"views": views,
		})
	}
}

// Mount регистрирует маршруты всех разделов
func (a *Admin) Mount(r fiber.Router) {
	r.Get("/", a.indexHandler())

	for _, v := range a.views {
		base := "/" + v.Slug
		r.Get(base, a.listHandler(v))
		r.Get(base+"/export", a.exportHandler(v))
		r.Get(base+"/:id<int>", a.detailHandler(v))

		if v.ReadOnly {
			r.Post(base, readOnlyHandler)
			r.All(base+"/:id<int>", readOnlyHandler)
			continue
		}

		r.Post(base, a.createHandler(v, nil))
		r.Put(base+"/:id<int>", a.updateHandler(v, nil))
		r.Post(base+"/:id<int>", a.updateHandler(v, nil))
		r.Patch(base+"/:id<int>", a.inlineEditHandler(v))
		r.Delete(base+"/:id<int>", a.deleteHandler(v, nil))

		for _, in := range v.Inlines {
			child := base + "/:id<int>/" + in.Slug
			r.Get(child, a.childListHandler(v, in))
			r.Post(child, a.createHandler(in.View, &parentRef{view: v, inline: in}))
			r.Put(child+"/:cid<int>", a.updateHandler(in.View, &parentRef{view: v, inline: in}))
			r.Delete(child+"/:cid<int>", a.deleteHandler(in.View, &parentRef{view: v, inline: in}))
		}
	}
}

func readOnlyHandler(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusMethodNotAllowed, "Раздел доступен только для чтения")
}
