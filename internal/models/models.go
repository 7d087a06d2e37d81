package models

// All возвращает все модели в порядке зависимостей, для создания схемы
func All() []any {
	return []any{
		&ProductCategory{},
		&ProductType{},
		&Quarry{},
		&QuarryProductPrice{},
		&Customer{},
		&TruckType{},
		&Order{},
		&OrderTruck{},
		&AuditLog{},
	}
}
