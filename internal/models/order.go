package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusNew        = "new"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// NoTrucksAssigned возвращается TrucksSummary для заказа без машин
const NoTrucksAssigned = "Машины не назначены"

// Order: заказ клиента. Статус - свободная строка, переходы не ограничены.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CustomerID      *uint           `gorm:"index" json:"customer_id"`
	Customer        *Customer       `gorm:"constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Status          string          `gorm:"size:20;not null" json:"status"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`

	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	Product      *ProductType    `json:"product,omitempty"`
	QuarryID     uint            `gorm:"not null;index" json:"quarry_id"`
	Quarry       *Quarry         `json:"quarry,omitempty"`
	Quantity     float64         `gorm:"not null" json:"quantity"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_unit"`

	Trucks []OrderTruck `gorm:"constraint:OnDelete:CASCADE" json:"trucks,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = OrderStatusNew
	}
	return nil
}

// ItemTotal = quantity × price_per_unit, в базе не хранится.
// Для NaN и бесконечности возвращает ноль.
func (o *Order) ItemTotal() decimal.Decimal {
	if math.IsNaN(o.Quantity) || math.IsInf(o.Quantity, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(o.Quantity).Mul(o.PricePerUnit)
}

// TrucksSummary: "Самосвал 30м³ × 2, Самосвал 20м³ × 2".
// Trucks должны быть загружены вместе с TruckType.
func (o *Order) TrucksSummary() string {
	if len(o.Trucks) == 0 {
		return NoTrucksAssigned
	}

	parts := make([]string, 0, len(o.Trucks))
	for _, t := range o.Trucks {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}

func (o Order) String() string {
	product := fmt.Sprintf("#%d", o.ProductID)
	if o.Product != nil {
		product = o.Product.Name
	}
	return fmt.Sprintf("Заказ #%d: %s x %s", o.ID, product, FormatAmount(o.Quantity))
}

// OrderTruck: сколько машин определенного типа назначено на заказ
type OrderTruck struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"not null;index" json:"order_id"`
	TruckTypeID uint       `gorm:"not null;index" json:"truck_type_id"`
	TruckType   *TruckType `json:"truck_type,omitempty"`
	Count       int        `gorm:"not null" json:"count"`
}

func (t *OrderTruck) TotalVolume() float64 {
	if t.TruckType == nil {
		return 0
	}
	return t.TruckType.Volume * float64(t.Count)
}

func (t *OrderTruck) TotalCapacity() float64 {
	if t.TruckType == nil {
		return 0
	}
	return t.TruckType.LoadCapacity * float64(t.Count)
}

func (t OrderTruck) String() string {
	name := fmt.Sprintf("#%d", t.TruckTypeID)
	if t.TruckType != nil {
		name = t.TruckType.Name
	}
	return fmt.Sprintf("%s × %d", name, t.Count)
}
