package models

import (
	"fmt"

	"gorm.io/gorm"
)

const DefaultBaseUnit = "тонна"

// ProductType: вид товара внутри категории (например, фракция щебня)
type ProductType struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	Name       string           `gorm:"size:100;not null;unique" json:"name"`
	CategoryID *uint            `gorm:"index" json:"category_id"`
	Category   *ProductCategory `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	BaseUnit   string           `gorm:"size:20;default:тонна" json:"base_unit"` // единица измерения
}

func (p *ProductType) BeforeCreate(tx *gorm.DB) error {
	if p.BaseUnit == "" {
		p.BaseUnit = DefaultBaseUnit
	}
	return nil
}

func (p ProductType) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.BaseUnit)
}
