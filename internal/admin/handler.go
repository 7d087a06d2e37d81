package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"

	"stroy-backend/internal/audit"
	"stroy-backend/internal/httpx"
	"stroy-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// parentRef связывает вложенный редактор с родительской строкой
type parentRef struct {
	view   *View
	inline *Inline
}

// find проверяет, что родитель из пути существует
func (p *parentRef) find(c *fiber.Ctx, tx *gorm.DB) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Неверный id")
	}
	if _, err := p.view.get(tx, id, nil, false); err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (p *parentRef) scope(parentID uint) func(*gorm.DB) *gorm.DB {
	key := p.inline.field(p.inline.ParentKey).DBName
	return func(q *gorm.DB) *gorm.DB {
		return q.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: key}, Value: parentID})
	}
}

// GET {admin}/:slug
func (a *Admin) listHandler(v *View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		p := v.parseList(c)

		list, total, err := v.list(a.db.WithContext(ctx), &p)
		if err != nil {
			return err
		}

		rows := make([]map[string]any, 0, p.PageSize)
		for _, m := range rowsOf(list) {
			rows = append(rows, v.row(ctx, m, v.ColumnList, false))
		}

		pages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
		dir := "asc"
		if p.Desc {
			dir = "desc"
		}
		return c.JSON(fiber.Map{
			"view":      v.Slug,
			"title":     v.NamePlural,
			"columns":   v.columns(v.ColumnList),
			"rows":      rows,
			"total":     total,
			"page":      p.Page,
			"page_size": p.PageSize,
			"pages":     pages,
			"search":    p.Search,
			"sort":      p.Sort,
			"dir":       dir,
		})
	}
}

// GET {admin}/:slug/:id
func (a *Admin) detailHandler(v *View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		tx := a.db.WithContext(ctx)

		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный id")
		}
		m, err := v.get(tx, id, nil, true)
		if err != nil {
			return err
		}

		inlines := fiber.Map{}
		for _, in := range v.Inlines {
			rows, err := childRows(ctx, tx, &parentRef{view: v, inline: in}, uint(id))
			if err != nil {
				return err
			}
			inlines[in.Slug] = fiber.Map{
				"title":   in.NamePlural,
				"columns": in.columns(in.ColumnList),
				"rows":    rows,
			}
		}

		return c.JSON(fiber.Map{
			"view":    v.Slug,
			"title":   v.Name,
			"columns": v.columns(v.detailColumns()),
			"row":     v.row(ctx, m, v.detailColumns(), true),
			"inlines": inlines,
		})
	}
}

func childRows(ctx context.Context, tx *gorm.DB, p *parentRef, parentID uint) ([]map[string]any, error) {
	in := p.inline
	q := in.withRelations(in.ordered(p.scope(parentID)(tx.Model(in.New())), listParams{}))
	list := in.NewList()
	if err := q.Find(list).Error; err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0)
	for _, m := range rowsOf(list) {
		rows = append(rows, in.row(ctx, m, in.ColumnList, false))
	}
	return rows, nil
}

// GET {admin}/:slug/:id/:inline
func (a *Admin) childListHandler(v *View, in *Inline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		tx := a.db.WithContext(ctx)
		parent := &parentRef{view: v, inline: in}

		parentID, err := parent.find(c, tx)
		if err != nil {
			return err
		}
		rows, err := childRows(ctx, tx, parent, parentID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"view":    in.Slug,
			"title":   in.NamePlural,
			"columns": in.columns(in.ColumnList),
			"rows":    rows,
		})
	}
}

// POST {admin}/:slug и POST {admin}/:slug/:id/:inline
func (a *Admin) createHandler(v *View, parent *parentRef) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		tx := a.db.WithContext(ctx)

		form, err := ParseForm(c)
		if err != nil {
			return err
		}
		form = form.Only(v.FormColumns)
		if err := v.checkRequired(form, true); err != nil {
			return err
		}

		var parentID uint
		if parent != nil {
			if parentID, err = parent.find(c, tx); err != nil {
				return err
			}
		}

		m := v.New()
		if err := v.Bind(m, form); err != nil {
			return err
		}
		if parent != nil {
			if err := v.setColumn(ctx, m, parent.inline.ParentKey, parentID); err != nil {
				return err
			}
		}

		err = tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
				return err
			}
			if v.AfterChange != nil {
				if err := v.AfterChange(tx, m, true); err != nil {
					return err
				}
			}
			return audit.WriteLog(tx, a.logOptions(c, v, m, models.AuditActionCreate, nil, m))
		})
		if err != nil {
			return err
		}

		return a.respondRow(c, v, m, fiber.StatusCreated)
	}
}

// PUT|POST {admin}/:slug/:id и PUT {admin}/:slug/:id/:inline/:cid
func (a *Admin) updateHandler(v *View, parent *parentRef) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := ParseForm(c)
		if err != nil {
			return err
		}
		return a.applyUpdate(c, v, parent, form.Only(v.FormColumns))
	}
}

// PATCH {admin}/:slug/:id - правка прямо из списка, только колонки Editable
func (a *Admin) inlineEditHandler(v *View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := ParseForm(c)
		if err != nil {
			return err
		}
		for col := range form {
			if !slices.Contains(v.Editable, col) {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Колонку %s нельзя менять из списка", col))
			}
		}
		return a.applyUpdate(c, v, nil, form)
	}
}

func (a *Admin) applyUpdate(c *fiber.Ctx, v *View, parent *parentRef, form Form) error {
	ctx := c.UserContext()
	tx := a.db.WithContext(ctx)

	if len(form) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Нет данных для изменения")
	}
	if err := v.checkRequired(form, false); err != nil {
		return err
	}

	m, err := a.target(c, tx, v, parent)
	if err != nil {
		return err
	}
	// строку, которую не удалось сериализовать, все равно можно исправить
	before, err := json.Marshal(m)
	if err != nil {
		log.Printf("⚠️ [admin] %s: снимок до изменения не записан: %v", v.Slug, err)
		before = []byte("null")
	}

	if err := v.Bind(m, form); err != nil {
		return err
	}

	err = tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return err
		}
		if v.AfterChange != nil {
			if err := v.AfterChange(tx, m, false); err != nil {
				return err
			}
		}
		return audit.WriteLog(tx, a.logOptions(c, v, m, models.AuditActionUpdate, json.RawMessage(before), m))
	})
	if err != nil {
		return err
	}

	return a.respondRow(c, v, m, fiber.StatusOK)
}

// DELETE {admin}/:slug/:id и DELETE {admin}/:slug/:id/:inline/:cid
func (a *Admin) deleteHandler(v *View, parent *parentRef) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx := a.db.WithContext(c.UserContext())

		m, err := a.target(c, tx, v, parent)
		if err != nil {
			return err
		}

		err = tx.Transaction(func(tx *gorm.DB) error {
			res := tx.Delete(m)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return audit.WriteLog(tx, a.logOptions(c, v, m, models.AuditActionDelete, m, nil))
		})
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// target загружает изменяемую строку; дочерняя ищется только среди строк своего родителя
func (a *Admin) target(c *fiber.Ctx, tx *gorm.DB, v *View, parent *parentRef) (any, error) {
	if parent == nil {
		id, err := c.ParamsInt("id")
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Неверный id")
		}
		return v.get(tx, id, nil, false)
	}

	parentID, err := parent.find(c, tx)
	if err != nil {
		return nil, err
	}
	cid, err := c.ParamsInt("cid")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Неверный id")
	}
	return v.get(tx, cid, parent.scope(parentID), false)
}

func (a *Admin) respondRow(c *fiber.Ctx, v *View, m any, status int) error {
	ctx := c.UserContext()
	fresh, err := v.get(a.db.WithContext(ctx), v.primaryKey(ctx, m), nil, true)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{
		"view": v.Slug,
		"row":  v.row(ctx, fresh, v.detailColumns(), true),
	})
}

func (v *View) checkRequired(form Form, creating bool) error {
	for _, col := range v.Required {
		if !form.Has(col) && !creating {
			continue
		}
		if form.String(col) == "" {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Поле \"%s\" обязательно", v.label(col)))
		}
	}
	return nil
}

func (a *Admin) logOptions(c *fiber.Ctx, v *View, m any, action models.AuditAction, before, after any) audit.LogOptions {
	return audit.LogOptions{
		EntityType:  v.Slug,
		EntityID:    entityID(v.primaryKey(c.UserContext(), m)),
		Action:      action,
		Description: fmt.Sprintf("%s: %v", v.Name, displayValue(m)),
		Before:      before,
		After:       after,
		RequestID:   httpx.GetRequestID(c),
		RemoteIP:    c.IP(),
	}
}

func entityID(pk any) uint {
	switch id := pk.(type) {
	case uint:
		return id
	case uint64:
		return uint(id)
	case int:
		return uint(id)
	case int64:
		return uint(id)
	}
	return 0
}
