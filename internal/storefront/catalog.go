package storefront

import (
	"stroy-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CatalogItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	BaseUnit  string `json:"base_unit"`
	Price     string `json:"price"`
}

type CatalogQuarry struct {
	ID       uint          `json:"id"`
	Name     string        `json:"name"`
	Location string        `json:"location"`
	Products []CatalogItem `json:"products"`
}

// GET /api/catalog - активные карьеры с ценами
func CatalogHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx := db.WithContext(c.UserContext())

		var quarries []models.Quarry
		if err := tx.Where("is_active = ?", true).Order("name asc").Find(&quarries).Error; err != nil {
			return err
		}
		if len(quarries) == 0 {
			return c.JSON([]CatalogQuarry{})
		}

		ids := make([]uint, 0, len(quarries))
		for _, q := range quarries {
			ids = append(ids, q.ID)
		}

		var prices []models.QuarryProductPrice
		err := tx.Preload("Product.Category").
			Where("quarry_id IN ?", ids).
			Order("id asc").
			Find(&prices).Error
		if err != nil {
			return err
		}

		byQuarry := make(map[uint][]CatalogItem, len(quarries))
		for _, p := range prices {
			item := CatalogItem{
				ProductID: p.ProductID,
				Price:     p.Price.StringFixed(2),
			}
			if p.Product != nil {
				item.Name = p.Product.Name
				item.BaseUnit = p.Product.BaseUnit
				if p.Product.Category != nil {
					item.Category = p.Product.Category.Name
				}
			}
			byQuarry[p.QuarryID] = append(byQuarry[p.QuarryID], item)
		}

		res := make([]CatalogQuarry, 0, len(quarries))
		for _, q := range quarries {
			products := byQuarry[q.ID]
			if products == nil {
				products = []CatalogItem{}
			}
			res = append(res, CatalogQuarry{
				ID:       q.ID,
				Name:     q.Name,
				Location: q.Location,
				Products: products,
			})
		}
		return c.JSON(res)
	}
}

// Routes подключает публичные эндпоинты к группе /api
func Routes(r fiber.Router, db *gorm.DB) {
	r.Post("/register", RegisterHandler(db))
	r.Post("/orders", CreateOrderHandler(db))
	r.Get("/catalog", CatalogHandler(db))
}
