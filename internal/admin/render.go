package admin

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateTimeLayout = "2006-01-02 15:04:05"

type column struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func (v *View) columns(cols []string) []column {
	out := make([]column, 0, len(cols))
	for _, col := range cols {
		out = append(out, column{Name: col, Label: v.label(col)})
	}
	return out
}

// row собирает значения колонок модели для отображения
func (v *View) row(ctx context.Context, m any, cols []string, detail bool) map[string]any {
	out := make(map[string]any, len(cols)+1)
	out["id"] = v.primaryKey(ctx, m)
	for _, col := range cols {
		out[col] = v.value(ctx, m, col, detail)
	}
	return out
}

func (v *View) value(ctx context.Context, m any, col string, detail bool) any {
	if detail {
		if f, ok := v.DetailFormatters[col]; ok {
			return f(m)
		}
	}
	if f, ok := v.Formatters[col]; ok {
		return f(m)
	}
	if f := v.field(col); f != nil {
		val, _ := f.ValueOf(ctx, reflect.ValueOf(m))
		return displayValue(val)
	}
	if rel := v.relation(col); rel != nil {
		val, _ := rel.Field.ValueOf(ctx, reflect.ValueOf(m))
		return displayValue(val)
	}
	return nil
}

func (v *View) primaryKey(ctx context.Context, m any) any {
	pk := v.schema.PrioritizedPrimaryField
	if pk == nil {
		return nil
	}
	val, _ := pk.ValueOf(ctx, reflect.ValueOf(m))
	return val
}

// setColumn записывает значение в поле модели по имени колонки
func (v *View) setColumn(ctx context.Context, m any, col string, val any) error {
	f := v.field(col)
	if f == nil {
		return fmt.Errorf("admin %s: неизвестная колонка %q", v.Slug, col)
	}
	return f.Set(ctx, reflect.ValueOf(m), val)
}

// rowsOf превращает указатель на срез моделей в список указателей на модели
func rowsOf(list any) []any {
	rv := reflect.Indirect(reflect.ValueOf(list))
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Addr().Interface())
	}
	return out
}

// displayValue приводит значение к виду, пригодному для JSON и XLSX
func displayValue(val any) any {
	switch x := val.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.Format(dateTimeLayout)
	case float64:
		// NaN и Inf не кодируются в JSON
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Sprint(x)
		}
		return x
	case decimal.Decimal:
		return x.StringFixed(2)
	case gorm.DeletedAt:
		if !x.Valid {
			return nil
		}
		return x.Time.Format(dateTimeLayout)
	case fmt.Stringer:
		rv := reflect.ValueOf(x)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		return x.String()
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return displayValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, fmt.Sprint(displayValue(rv.Index(i).Interface())))
		}
		return strings.Join(parts, ", ")
	}
	return val
}
