package models

type ProductCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;not null;unique" json:"name"` // Категория
}

func (c ProductCategory) String() string {
	return c.Name
}
