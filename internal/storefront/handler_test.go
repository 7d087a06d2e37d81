package storefront

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"stroy-backend/internal/httpx"
	"stroy-backend/internal/models"
	"stroy-backend/internal/seed"
	"stroy-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	if err := seed.Run(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})
	app.Use(httpx.RequestID())
	Routes(app.Group("/api"), db)
	return app, db
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) (int, string, map[string]any) {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	body := map[string]any{}
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode, resp.Header.Get(fiber.HeaderLocation), body
}

// priceOf возвращает цену активного или неактивного карьера из тестовых данных
func priceOf(t *testing.T, db *gorm.DB, active bool) models.QuarryProductPrice {
	t.Helper()

	var price models.QuarryProductPrice
	err := db.Joins("JOIN quarries ON quarries.id = quarry_product_prices.quarry_id").
		Where("quarries.is_active = ?", active).
		Order("quarry_product_prices.id").
		First(&price).Error
	if err != nil {
		t.Fatal(err)
	}
	return price
}

func TestRegister(t *testing.T) {
	app, db := newTestApp(t)

	status, _, body := postForm(t, app, "/api/register", url.Values{
		"full_name": {"Сидоров Сидор"},
		"phone":     {"+79110000000"},
		"address":   {"г. Тверь"},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d: %v", status, body)
	}
	if body["phone"] != "+79110000000" {
		t.Fatalf("body = %v", body)
	}

	var count int64
	db.Model(&models.Customer{}).Where("phone = ?", "+79110000000").Count(&count)
	if count != 1 {
		t.Fatalf("customers with phone = %d", count)
	}

	tests := []struct {
		name string
		form url.Values
		want int
	}{
		{"already registered", url.Values{"full_name": {"Другой"}, "phone": {"+79001234567"}, "address": {"x"}}, fiber.StatusConflict},
		{"missing phone", url.Values{"full_name": {"Без телефона"}, "address": {"x"}}, fiber.StatusBadRequest},
		{"missing address", url.Values{"full_name": {"Без адреса"}, "phone": {"+79110000001"}}, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, _ := postForm(t, app, "/api/register", tt.form)
			if status != tt.want {
				t.Fatalf("status = %d, want %d", status, tt.want)
			}
		})
	}
}

func TestCreateOrder(t *testing.T) {
	app, db := newTestApp(t)
	price := priceOf(t, db, true)

	status, _, body := postForm(t, app, "/api/orders", url.Values{
		"phone":      {"+79001234567"},
		"product_id": {fmt.Sprint(price.ProductID)},
		"quarry_id":  {fmt.Sprint(price.QuarryID)},
		"quantity":   {"12.5"},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d: %v", status, body)
	}

	want := decimal.NewFromFloat(12.5).Mul(price.Price).StringFixed(2)
	if body["total_price"] != want {
		t.Fatalf("total_price = %v, want %s", body["total_price"], want)
	}
	if body["status"] != models.OrderStatusNew {
		t.Fatalf("status = %v", body["status"])
	}
	if body["delivery_address"] != "г. Москва, ул. Ленина, д. 1" {
		t.Fatalf("delivery_address = %v, want customer address", body["delivery_address"])
	}

	var order models.Order
	if err := db.First(&order, uint(body["id"].(float64))).Error; err != nil {
		t.Fatal(err)
	}
	if !order.PricePerUnit.Equal(price.Price) {
		t.Fatalf("price_per_unit = %s, want %s", order.PricePerUnit, price.Price)
	}
}

func TestCreateOrder_Redirect(t *testing.T) {
	app, db := newTestApp(t)
	price := priceOf(t, db, true)

	form := url.Values{
		"phone":      {"+79007654321"},
		"product_id": {fmt.Sprint(price.ProductID)},
		"quarry_id":  {fmt.Sprint(price.QuarryID)},
		"quantity":   {"3"},
		"next":       {"/thanks"},
	}
	status, location, _ := postForm(t, app, "/api/orders", form)
	if status != fiber.StatusSeeOther || location != "/thanks" {
		t.Fatalf("status = %d, location = %q", status, location)
	}

	form.Set("next", "//evil.example.com")
	status, _, _ = postForm(t, app, "/api/orders", form)
	if status != fiber.StatusCreated {
		t.Fatalf("external next status = %d, want 201", status)
	}
}

func TestCreateOrder_Errors(t *testing.T) {
	app, db := newTestApp(t)
	active := priceOf(t, db, true)
	inactive := priceOf(t, db, false)

	tests := []struct {
		name string
		form url.Values
		want int
	}{
		{
			"unknown customer",
			url.Values{"phone": {"+70000000000"}, "product_id": {fmt.Sprint(active.ProductID)}, "quarry_id": {fmt.Sprint(active.QuarryID)}, "quantity": {"1"}},
			fiber.StatusNotFound,
		},
		{
			"no price for pair",
			url.Values{"phone": {"+79001234567"}, "product_id": {fmt.Sprint(inactive.ProductID)}, "quarry_id": {fmt.Sprint(active.QuarryID)}, "quantity": {"1"}},
			fiber.StatusNotFound,
		},
		{
			"inactive quarry",
			url.Values{"phone": {"+79001234567"}, "product_id": {fmt.Sprint(inactive.ProductID)}, "quarry_id": {fmt.Sprint(inactive.QuarryID)}, "quantity": {"1"}},
			fiber.StatusBadRequest,
		},
		{
			"zero quantity",
			url.Values{"phone": {"+79001234567"}, "product_id": {fmt.Sprint(active.ProductID)}, "quarry_id": {fmt.Sprint(active.QuarryID)}, "quantity": {"0"}},
			fiber.StatusBadRequest,
		},
		{
			"NaN quantity",
			url.Values{"phone": {"+79001234567"}, "product_id": {fmt.Sprint(active.ProductID)}, "quarry_id": {fmt.Sprint(active.QuarryID)}, "quantity": {"NaN"}},
			fiber.StatusBadRequest,
		},
		{
			"infinite quantity",
			url.Values{"phone": {"+79001234567"}, "product_id": {fmt.Sprint(active.ProductID)}, "quarry_id": {fmt.Sprint(active.QuarryID)}, "quantity": {"+Inf"}},
			fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, body := postForm(t, app, "/api/orders", tt.form)
			if status != tt.want {
				t.Fatalf("status = %d, want %d: %v", status, tt.want, body)
			}
		})
	}
}

func TestCatalog_OnlyActiveQuarries(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/catalog", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var catalog []CatalogQuarry
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 2 {
		t.Fatalf("quarries = %d, want 2 active", len(catalog))
	}

	items := 0
	for _, q := range catalog {
		if strings.Contains(q.Name, "Гравийный") {
			t.Fatalf("inactive quarry in catalog: %s", q.Name)
		}
		items += len(q.Products)
	}
	if items != 5 {
		t.Fatalf("catalog items = %d, want 5", items)
	}
}

func TestIsLocalPath(t *testing.T) {
	tests := map[string]bool{
		"/thanks":            true,
		"/orders?id=1":       true,
		"":                   false,
		"thanks":             false,
		"//evil.example.com": false,
		"https://evil.com/":  false,
		"/\\evil.com":        false,
	}
	for in, want := range tests {
		if got := isLocalPath(in); got != want {
			t.Errorf("isLocalPath(%q) = %v, want %v", in, got, want)
		}
	}
}
