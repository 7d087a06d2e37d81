// Package storefront - публичные эндпоинты сайта: регистрация клиента,
// оформление заказа и каталог цен.
package storefront

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"stroy-backend/internal/audit"
	"stroy-backend/internal/httpx"
	"stroy-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errAlreadyRegistered = fiber.NewError(fiber.StatusConflict, "Клиент с таким телефоном уже зарегистрирован")

type RegisterRequest struct {
	FullName string `json:"full_name" form:"full_name"`
	Phone    string `json:"phone" form:"phone"`
	Email    string `json:"email" form:"email"`
	Address  string `json:"address" form:"address"`
}

type CustomerResponse struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

type CreateOrderRequest struct {
	Phone           string  `json:"phone" form:"phone"`
	ProductID       uint    `json:"product_id" form:"product_id"`
	QuarryID        uint    `json:"quarry_id" form:"quarry_id"`
	Quantity        float64 `json:"quantity" form:"quantity"`
	DeliveryAddress string  `json:"delivery_address" form:"delivery_address"`
	Next            string  `json:"next" form:"next"`
}

type OrderResponse struct {
	ID              uint    `json:"id"`
	CustomerID      uint    `json:"customer_id"`
	ProductID       uint    `json:"product_id"`
	QuarryID        uint    `json:"quarry_id"`
	Quantity        float64 `json:"quantity"`
	PricePerUnit    string  `json:"price_per_unit"`
	TotalPrice      string  `json:"total_price"`
	Status          string  `json:"status"`
	DeliveryAddress string  `json:"delivery_address"`
	CreatedAt       string  `json:"created_at"`
}

// POST /api/register
func RegisterHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверные данные")
		}

		body.FullName = strings.TrimSpace(body.FullName)
		body.Phone = strings.TrimSpace(body.Phone)
		body.Email = strings.TrimSpace(body.Email)
		body.Address = strings.TrimSpace(body.Address)
		if body.FullName == "" || body.Phone == "" || body.Address == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ФИО, телефон и адрес обязательны")
		}

		tx := db.WithContext(c.UserContext())

		var exists int64
		if err := tx.Model(&models.Customer{}).Where("phone = ?", body.Phone).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return errAlreadyRegistered
		}

		customer := models.Customer{
			FullName: body.FullName,
			Phone:    body.Phone,
			Email:    body.Email,
			Address:  body.Address,
		}

		err := tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				EntityType:  "customers",
				EntityID:    customer.ID,
				Action:      models.AuditActionCreate,
				Description: "Регистрация на сайте: " + customer.String(),
				After:       customer,
				RequestID:   httpx.GetRequestID(c),
				RemoteIP:    c.IP(),
			})
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// параллельная регистрация с тем же телефоном
			return errAlreadyRegistered
		}
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(CustomerResponse{
			ID:       customer.ID,
			FullName: customer.FullName,
			Phone:    customer.Phone,
			Email:    customer.Email,
			Address:  customer.Address,
		})
	}
}

// POST /api/orders
func CreateOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверные данные")
		}

		body.Phone = strings.TrimSpace(body.Phone)
		if body.Phone == "" || body.ProductID == 0 || body.QuarryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Телефон, товар и карьер обязательны")
		}
		if math.IsNaN(body.Quantity) || math.IsInf(body.Quantity, 0) || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Количество должно быть больше нуля")
		}

		tx := db.WithContext(c.UserContext())

		var customer models.Customer
		if err := tx.Where("phone = ?", body.Phone).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Клиент не найден, сначала зарегистрируйтесь")
			}
			return err
		}

		var price models.QuarryProductPrice
		err := tx.Preload("Quarry").Preload("Product").
			Where("quarry_id = ? AND product_id = ?", body.QuarryID, body.ProductID).
			First(&price).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Цена на товар в этом карьере не найдена")
			}
			return err
		}
		if price.Quarry == nil || !price.Quarry.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "Карьер сейчас не принимает заказы")
		}

		address := strings.TrimSpace(body.DeliveryAddress)
		if address == "" {
			address = customer.Address
		}

		order := models.Order{
			CustomerID:      &customer.ID,
			ProductID:       price.ProductID,
			QuarryID:        price.QuarryID,
			Quantity:        body.Quantity,
			PricePerUnit:    price.Price,
			TotalPrice:      decimal.NewFromFloat(body.Quantity).Mul(price.Price).Round(2),
			Status:          models.OrderStatusNew,
			DeliveryAddress: address,
		}

		err = tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Customer", "Product", "Quarry", "Trucks").Create(&order).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				EntityType:  "orders",
				EntityID:    order.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Заказ с сайта: %s, %s", customer.String(), price.String()),
				After:       order,
				RequestID:   httpx.GetRequestID(c),
				RemoteIP:    c.IP(),
			})
		})
		if err != nil {
			return err
		}

		if next := strings.TrimSpace(body.Next); isLocalPath(next) {
			return c.Redirect(next, fiber.StatusSeeOther)
		}

		return c.Status(fiber.StatusCreated).JSON(OrderResponse{
			ID:              order.ID,
			CustomerID:      customer.ID,
			ProductID:       order.ProductID,
			QuarryID:        order.QuarryID,
			Quantity:        order.Quantity,
			PricePerUnit:    order.PricePerUnit.StringFixed(2),
			TotalPrice:      order.TotalPrice.StringFixed(2),
			Status:          order.Status,
			DeliveryAddress: order.DeliveryAddress,
			CreatedAt:       order.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// isLocalPath пропускает только пути этого же сайта: "/thanks", но не "//evil.com"
func isLocalPath(next string) bool {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return false
	}
	u, err := url.Parse(next)
	return err == nil && u.Scheme == "" && u.Host == ""
}
