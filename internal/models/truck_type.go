package models

import (
	"fmt"
	"strconv"
)

type TruckType struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"size:50;not null" json:"name"`
	Volume       float64 `gorm:"not null" json:"volume"`        // объем кузова, м³
	LoadCapacity float64 `gorm:"not null" json:"load_capacity"` // грузоподъемность, т
	Description  string  `gorm:"type:text" json:"description"`
}

func (t TruckType) String() string {
	return fmt.Sprintf("%s (%s м³)", t.Name, FormatAmount(t.Volume))
}

// FormatAmount печатает количество без лишних нулей: 60, 12.5
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
