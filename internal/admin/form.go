package admin

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Form - значения формы создания/редактирования, ключ - имя колонки
type Form map[string]string

// ParseForm читает form-urlencoded или JSON тело запроса
func ParseForm(c *fiber.Ctx) (Form, error) {
	f := Form{}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var body map[string]any
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Неверный JSON")
		}
		for k, v := range body {
			switch val := v.(type) {
			case nil:
				f[k] = ""
			case string:
				f[k] = val
			case float64:
				f[k] = strconv.FormatFloat(val, 'f', -1, 64)
			default:
				f[k] = fmt.Sprint(val)
			}
		}
		return f, nil
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		f[string(key)] = string(value)
	})
	return f, nil
}

// Only оставляет только разрешенные колонки
func (f Form) Only(cols []string) Form {
	out := Form{}
	for _, col := range cols {
		if v, ok := f[col]; ok {
			out[col] = v
		}
	}
	return out
}

func (f Form) Has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f Form) String(key string) string {
	return strings.TrimSpace(f[key])
}

func (f Form) Float(key string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(f.String(key), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalidField(key)
	}
	return v, nil
}

func (f Form) Int(key string) (int, error) {
	v, err := strconv.Atoi(f.String(key))
	if err != nil {
		return 0, invalidField(key)
	}
	return v, nil
}

func (f Form) Uint(key string) (uint, error) {
	v, err := strconv.ParseUint(f.String(key), 10, 64)
	if err != nil || v == 0 {
		return 0, invalidField(key)
	}
	return uint(v), nil
}

// OptionalUint: пустое значение означает "не задано"
func (f Form) OptionalUint(key string) (*uint, error) {
	if f.String(key) == "" {
		return nil, nil
	}
	v, err := f.Uint(key)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Bool понимает значения чекбоксов HTML-форм
func (f Form) Bool(key string) bool {
	switch strings.ToLower(f.String(key)) {
	case "1", "true", "on", "yes", "y":
		return true
	}
	return false
}

func (f Form) Decimal(key string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.ReplaceAll(f.String(key), ",", "."))
	if err != nil {
		return decimal.Zero, invalidField(key)
	}
	return v, nil
}

func invalidField(key string) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Неверное значение поля %s", key))
}
