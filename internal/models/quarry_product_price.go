package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// QuarryProductPrice: цена товара в конкретном карьере.
// Пара (quarry_id, product_id) уникальна, удаление карьера или товара удаляет цену.
type QuarryProductPrice struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	QuarryID  uint            `gorm:"not null;uniqueIndex:idx_quarry_product" json:"quarry_id"`
	Quarry    *Quarry         `gorm:"constraint:OnDelete:CASCADE" json:"quarry,omitempty"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_quarry_product" json:"product_id"`
	Product   *ProductType    `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (p QuarryProductPrice) String() string {
	quarry, product := fmt.Sprintf("#%d", p.QuarryID), fmt.Sprintf("#%d", p.ProductID)
	if p.Quarry != nil {
		quarry = p.Quarry.Name
	}
	if p.Product != nil {
		product = p.Product.Name
	}
	return fmt.Sprintf("%s - %s: %s", quarry, product, p.Price.StringFixed(2))
}
