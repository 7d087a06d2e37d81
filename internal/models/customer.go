package models

import "fmt"

type Customer struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:255;not null" json:"full_name"`
	Phone    string `gorm:"size:20;not null;uniqueIndex" json:"phone"`
	Email    string `gorm:"size:255" json:"email"`
	Address  string `gorm:"type:text;not null" json:"address"` // адрес доставки по умолчанию

	// Заполняется только запросом со счетчиком заказов, в таблице не хранится
	OrderCount int64 `gorm:"->;-:migration" json:"order_count"`
}

func (c Customer) String() string {
	return fmt.Sprintf("%s (%s)", c.FullName, c.Phone)
}
