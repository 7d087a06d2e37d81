package admin

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const maxPageSize = 100

type listParams struct {
	Search   string
	Sort     string
	Desc     bool
	Page     int
	PageSize int
}

func (v *View) parseList(c *fiber.Ctx) listParams {
	p := listParams{
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     c.Query("sort"),
		Desc:     strings.EqualFold(c.Query("dir"), "desc"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", v.pageSize()),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = v.pageSize()
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	if !slices.Contains(v.Sortable, p.Sort) {
		p.Sort = ""
		p.Desc = false
	}
	return p
}

// searchExpr строит условие поиска по колонке.
// "name" ищет по своей таблице, "customer.full_name" - подзапросом по связанной.
func (v *View) searchExpr(col string) (string, error) {
	relName, relCol, nested := strings.Cut(col, ".")
	if !nested {
		f := v.field(col)
		if f == nil {
			return "", fmt.Errorf("admin %s: поиск по %q невозможен", v.Slug, col)
		}
		return fmt.Sprintf("LOWER(%s.%s) LIKE LOWER(?)", v.schema.Table, f.DBName), nil
	}

	rel := v.relation(relName)
	if rel == nil || rel.Type != schema.BelongsTo || len(rel.References) == 0 {
		return "", fmt.Errorf("admin %s: поиск по %q невозможен", v.Slug, col)
	}
	target := rel.FieldSchema.LookUpField(relCol)
	if target == nil || target.DBName == "" {
		return "", fmt.Errorf("admin %s: поиск по %q невозможен", v.Slug, col)
	}
	ref := rel.References[0]
	return fmt.Sprintf("%s.%s IN (SELECT %s FROM %s WHERE LOWER(%s) LIKE LOWER(?))",
		v.schema.Table, ref.ForeignKey.DBName,
		ref.PrimaryKey.DBName, rel.FieldSchema.Table, target.DBName), nil
}

// filtered - общая часть запроса списка и его подсчета.
// Вызывается заново для каждого запроса, потому что gorm меняет Statement при цепочке.
func (v *View) filtered(tx *gorm.DB, p listParams) *gorm.DB {
	q := tx.Model(v.New())
	if v.Scope != nil {
		q = v.Scope(q)
	}
	if p.Search == "" || len(v.Searchable) == 0 {
		return q
	}

	exprs := make([]string, 0, len(v.Searchable))
	args := make([]any, 0, len(v.Searchable))
	like := "%" + p.Search + "%"
	for _, col := range v.Searchable {
		expr, err := v.searchExpr(col)
		if err != nil {
			continue
		}
		exprs = append(exprs, expr)
		args = append(args, like)
	}
	return q.Where("("+strings.Join(exprs, " OR ")+")", args...)
}

// ordered добавляет сортировку: выбранная колонка, иначе DefaultSort, иначе id.
// Первичный ключ всегда последний, чтобы страницы не перемешивались.
func (v *View) ordered(q *gorm.DB, p listParams) *gorm.DB {
	sorts := v.DefaultSort
	if p.Sort != "" {
		sorts = []SortField{{Column: p.Sort, Desc: p.Desc}}
	}

	pk := v.schema.PrioritizedPrimaryField
	hasPK := false
	for _, s := range sorts {
		f := v.field(s.Column)
		if f == nil {
			continue
		}
		if pk != nil && f.DBName == pk.DBName {
			hasPK = true
		}
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: f.DBName},
			Desc:   s.Desc,
		})
	}
	if pk != nil && !hasPK {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: pk.DBName}})
	}
	return q
}

func (v *View) withRelations(q *gorm.DB) *gorm.DB {
	if v.Select != nil {
		q = v.Select(q)
	}
	for _, rel := range v.Preload {
		q = q.Preload(rel)
	}
	return q
}

// list возвращает страницу строк и общее количество с учетом поиска.
// Номер страницы за пределами списка сдвигается на последнюю.
func (v *View) list(tx *gorm.DB, p *listParams) (any, int64, error) {
	var total int64
	if err := v.filtered(tx, *p).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if last := (total + int64(p.PageSize) - 1) / int64(p.PageSize); int64(p.Page) > last {
		p.Page = int(max(last, 1))
	}

	list := v.NewList()
	q := v.withRelations(v.ordered(v.filtered(tx, *p), *p))
	if err := q.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize).Find(list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// all - те же строки без пагинации, не больше limit
func (v *View) all(tx *gorm.DB, p listParams, limit int) (any, error) {
	list := v.NewList()
	q := v.withRelations(v.ordered(v.filtered(tx, p), p))
	if err := q.Limit(limit).Find(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// get загружает одну строку по первичному ключу
func (v *View) get(tx *gorm.DB, id any, scope func(*gorm.DB) *gorm.DB, withRelations bool) (any, error) {
	m := v.New()
	q := tx.Model(m)
	if v.Scope != nil {
		q = v.Scope(q)
	}
	if scope != nil {
		q = scope(q)
	}
	if withRelations {
		q = v.withRelations(q)
	}
	pk := v.schema.PrioritizedPrimaryField.DBName
	if err := q.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: pk}, Value: id}).First(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}
