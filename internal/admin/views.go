package admin

import (
	"time"

	"stroy-backend/internal/models"

	"gorm.io/gorm"
)

const displayDateTime = "02.01.2006 15:04"

// Register добавляет разделы всех сущностей в порядке меню
func Register(a *Admin) error {
	views := []*View{
		CategoryView(),
		ProductTypeView(),
		QuarryView(),
		PriceView(),
		CustomerView(),
		TruckTypeView(),
		OrderView(),
		AuditLogView(),
	}
	for _, v := range views {
		if err := a.AddView(v); err != nil {
			return err
		}
	}
	return nil
}

func CategoryView() *View {
	return &View{
		Slug:        "categories",
		Name:        "Категория товара",
		NamePlural:  "Категории товаров",
		New:         func() any { return &models.ProductCategory{} },
		NewList:     func() any { return &[]models.ProductCategory{} },
		ColumnList:  []string{"id", "name"},
		Labels:      map[string]string{"id": "ID", "name": "Категория"},
		Searchable:  []string{"name"},
		DefaultSort: []SortField{{Column: "name"}},
		FormColumns: []string{"name"},
		Required:    []string{"name"},
		Bind: func(m any, f Form) error {
			c := m.(*models.ProductCategory)
			if f.Has("name") {
				c.Name = f.String("name")
			}
			return nil
		},
	}
}

func ProductTypeView() *View {
	return &View{
		Slug:       "product-types",
		Name:       "Вид товара",
		NamePlural: "Виды товаров",
		New:        func() any { return &models.ProductType{} },
		NewList:    func() any { return &[]models.ProductType{} },
		ColumnList: []string{"id", "name", "category", "base_unit"},
		Labels: map[string]string{
			"id":          "ID",
			"name":        "Вид товара",
			"category":    "Категория",
			"category_id": "Категория",
			"base_unit":   "Единица измерения",
		},
		Searchable:  []string{"name"},
		Sortable:    []string{"category_id"},
		FormColumns: []string{"name", "category_id", "base_unit"},
		Required:    []string{"name"},
		Preload:     []string{"Category"},
		Bind: func(m any, f Form) error {
			p := m.(*models.ProductType)
			if f.Has("name") {
				p.Name = f.String("name")
			}
			if f.Has("category_id") {
				id, err := f.OptionalUint("category_id")
				if err != nil {
					return err
				}
				p.CategoryID = id
				p.Category = nil
			}
			if f.Has("base_unit") {
				p.BaseUnit = f.String("base_unit")
				if p.BaseUnit == "" {
					p.BaseUnit = models.DefaultBaseUnit
				}
			}
			return nil
		},
	}
}

func QuarryView() *View {
	return &View{
		Slug:       "quarries",
		Name:       "Карьер",
		NamePlural: "Карьеры",
		// новый карьер активен, пока не указано обратное
		New:        func() any { return &models.Quarry{IsActive: true} },
		NewList:    func() any { return &[]models.Quarry{} },
		ColumnList: []string{"id", "name", "location", "is_active"},
		Labels: map[string]string{
			"id":        "ID",
			"name":      "Название карьера",
			"location":  "Местоположение",
			"is_active": "Активен",
		},
		Searchable:  []string{"name"},
		Editable:    []string{"is_active"},
		FormColumns: []string{"name", "location", "is_active"},
		Required:    []string{"name"},
		Bind: func(m any, f Form) error {
			q := m.(*models.Quarry)
			if f.Has("name") {
				q.Name = f.String("name")
			}
			if f.Has("location") {
				q.Location = f.String("location")
			}
			if f.Has("is_active") {
				q.IsActive = f.Bool("is_active")
			}
			return nil
		},
	}
}

func PriceView() *View {
	return &View{
		Slug:       "prices",
		Name:       "Цена товара",
		NamePlural: "Цены товаров",
		New:        func() any { return &models.QuarryProductPrice{} },
		NewList:    func() any { return &[]models.QuarryProductPrice{} },
		ColumnList: []string{"quarry", "product", "price", "updated_at"},
		Labels: map[string]string{
			"quarry":     "Карьер",
			"product":    "Товар",
			"price":      "Цена",
			"updated_at": "Обновлено",
			"quarry_id":  "Карьер",
			"product_id": "Товар",
		},
		Searchable:  []string{"quarry.name", "product.name"},
		FormColumns: []string{"quarry_id", "product_id", "price"},
		Required:    []string{"quarry_id", "product_id", "price"},
		Preload:     []string{"Quarry", "Product"},
		Formatters: map[string]Formatter{
			"updated_at": func(m any) any {
				return m.(*models.QuarryProductPrice).UpdatedAt.Format(displayDateTime)
			},
		},
		Bind: func(m any, f Form) error {
			p := m.(*models.QuarryProductPrice)
			if f.Has("quarry_id") {
				id, err := f.Uint("quarry_id")
				if err != nil {
					return err
				}
				p.QuarryID, p.Quarry = id, nil
			}
			if f.Has("product_id") {
				id, err := f.Uint("product_id")
				if err != nil {
					return err
				}
				p.ProductID, p.Product = id, nil
			}
			if f.Has("price") {
				price, err := f.Decimal("price")
				if err != nil {
					return err
				}
				p.Price = price
			}
			return nil
		},
		// дата обновления сдвигается при каждом изменении цены
		AfterChange: func(tx *gorm.DB, m any, created bool) error {
			if created {
				return nil
			}
			p := m.(*models.QuarryProductPrice)
			p.UpdatedAt = time.Now()
			return tx.Model(p).UpdateColumn("updated_at", p.UpdatedAt).Error
		},
	}
}

func CustomerView() *View {
	return &View{
		Slug:       "customers",
		Name:       "Клиент",
		NamePlural: "Клиенты",
		New:        func() any { return &models.Customer{} },
		NewList:    func() any { return &[]models.Customer{} },
		ColumnList: []string{"id", "full_name", "phone", "email", "orders"},
		DetailList: []string{"id", "full_name", "phone", "email", "address", "orders"},
		Labels: map[string]string{
			"id":        "ID",
			"full_name": "ФИО",
			"phone":     "Телефон",
			"email":     "Email",
			"address":   "Адрес доставки",
			"orders":    "Заказы",
		},
		Searchable:  []string{"full_name", "phone", "email"},
		FormColumns: []string{"full_name", "phone", "email", "address"},
		Required:    []string{"full_name", "phone", "address"},
		Select: func(tx *gorm.DB) *gorm.DB {
			return tx.Select("customers.*, (SELECT COUNT(*) FROM orders WHERE orders.customer_id = customers.id) AS order_count")
		},
		Formatters: map[string]Formatter{
			"orders": func(m any) any { return m.(*models.Customer).OrderCount },
		},
		Bind: func(m any, f Form) error {
			c := m.(*models.Customer)
			if f.Has("full_name") {
				c.FullName = f.String("full_name")
			}
			if f.Has("phone") {
				c.Phone = f.String("phone")
			}
			if f.Has("email") {
				c.Email = f.String("email")
			}
			if f.Has("address") {
				c.Address = f.String("address")
			}
			return nil
		},
	}
}

func TruckTypeView() *View {
	return &View{
		Slug:       "truck-types",
		Name:       "Тип машины",
		NamePlural: "Типы машин",
		New:        func() any { return &models.TruckType{} },
		NewList:    func() any { return &[]models.TruckType{} },
		ColumnList: []string{"id", "name", "volume", "load_capacity"},
		DetailList: []string{"id", "name", "volume", "load_capacity", "description"},
		Labels: map[string]string{
			"id":            "ID",
			"name":          "Название типа машины",
			"volume":        "Объем кузова (м³)",
			"load_capacity": "Грузоподъемность (тонн)",
			"description":   "Описание",
		},
		Searchable:  []string{"name"},
		FormColumns: []string{"name", "volume", "load_capacity", "description"},
		Required:    []string{"name", "volume", "load_capacity"},
		Bind: func(m any, f Form) error {
			t := m.(*models.TruckType)
			if f.Has("name") {
				t.Name = f.String("name")
			}
			if f.Has("volume") {
				v, err := f.Float("volume")
				if err != nil {
					return err
				}
				t.Volume = v
			}
			if f.Has("load_capacity") {
				v, err := f.Float("load_capacity")
				if err != nil {
					return err
				}
				t.LoadCapacity = v
			}
			if f.Has("description") {
				t.Description = f.String("description")
			}
			return nil
		},
	}
}

func OrderTruckInline() *Inline {
	return &Inline{
		ParentKey: "order_id",
		View: &View{
			Slug:       "trucks",
			Name:       "Машина для доставки",
			NamePlural: "Машины для доставки",
			New:        func() any { return &models.OrderTruck{Count: 1} },
			NewList:    func() any { return &[]models.OrderTruck{} },
			ColumnList: []string{"truck_type", "count", "total_volume", "total_capacity"},
			Labels: map[string]string{
				"truck_type":     "Тип машины",
				"truck_type_id":  "Тип машины",
				"count":          "Количество",
				"total_volume":   "Общий объем",
				"total_capacity": "Общая грузоподъемность",
			},
			Sortable:    []string{"count"},
			FormColumns: []string{"truck_type_id", "count"},
			Required:    []string{"truck_type_id"},
			Preload:     []string{"TruckType"},
			Formatters: map[string]Formatter{
				"total_volume": func(m any) any {
					return models.FormatAmount(m.(*models.OrderTruck).TotalVolume()) + " м³"
				},
				"total_capacity": func(m any) any {
					return models.FormatAmount(m.(*models.OrderTruck).TotalCapacity()) + " тонн"
				},
			},
			Bind: func(m any, f Form) error {
				t := m.(*models.OrderTruck)
				if f.Has("truck_type_id") {
					id, err := f.Uint("truck_type_id")
					if err != nil {
						return err
					}
					t.TruckTypeID, t.TruckType = id, nil
				}
				if f.String("count") != "" {
					n, err := f.Int("count")
					if err != nil {
						return err
					}
					t.Count = n
				}
				return nil
			},
		},
	}
}

func OrderView() *View {
	return &View{
		Slug:       "orders",
		Name:       "Заказ",
		NamePlural: "Заказы",
		New:        func() any { return &models.Order{} },
		NewList:    func() any { return &[]models.Order{} },
		ColumnList: []string{
			"id",
			"customer",
			"product",
			"quarry",
			"quantity",
			"price_per_unit",
			"total_price",
			"status",
			"created_at",
			"delivery_address",
			"trucks_summary",
		},
		DetailList: []string{
			"id",
			"customer",
			"product",
			"quarry",
			"quantity",
			"price_per_unit",
			"item_total",
			"total_price",
			"status",
			"created_at",
			"delivery_address",
			"trucks_summary",
		},
		Labels: map[string]string{
			"id":               "ID",
			"customer":         "Клиент",
			"customer_id":      "Клиент",
			"product":          "Товар",
			"product_id":       "Товар",
			"quarry":           "Карьер",
			"quarry_id":        "Карьер",
			"quantity":         "Количество товара",
			"price_per_unit":   "Цена за единицу",
			"item_total":       "Стоимость товара",
			"total_price":      "Итоговая стоимость",
			"status":           "Статус заказа",
			"created_at":       "Создан",
			"delivery_address": "Адрес доставки",
			"trucks_summary":   "Машины",
		},
		Searchable: []string{
			"customer.full_name",
			"customer.phone",
			"product.name",
			"quarry.name",
		},
		Sortable: []string{"created_at", "status", "quantity"},
		FormColumns: []string{
			"customer_id",
			"product_id",
			"quarry_id",
			"quantity",
			"price_per_unit",
			"total_price",
			"status",
			"delivery_address",
		},
		Required: []string{"product_id", "quarry_id", "quantity", "price_per_unit", "total_price", "delivery_address"},
		Preload:  []string{"Customer", "Product", "Quarry", "Trucks.TruckType"},
		Formatters: map[string]Formatter{
			"created_at": func(m any) any {
				return m.(*models.Order).CreatedAt.Format(displayDateTime)
			},
			"trucks_summary": func(m any) any {
				return m.(*models.Order).TrucksSummary()
			},
		},
		DetailFormatters: map[string]Formatter{
			"item_total": func(m any) any {
				return m.(*models.Order).ItemTotal().StringFixed(2)
			},
		},
		Inlines: []*Inline{OrderTruckInline()},
		Bind:    bindOrder,
	}
}

func bindOrder(m any, f Form) error {
	o := m.(*models.Order)
	if f.Has("customer_id") {
		id, err := f.OptionalUint("customer_id")
		if err != nil {
			return err
		}
		o.CustomerID, o.Customer = id, nil
	}
	if f.Has("product_id") {
		id, err := f.Uint("product_id")
		if err != nil {
			return err
		}
		o.ProductID, o.Product = id, nil
	}
	if f.Has("quarry_id") {
		id, err := f.Uint("quarry_id")
		if err != nil {
			return err
		}
		o.QuarryID, o.Quarry = id, nil
	}
	if f.Has("quantity") {
		v, err := f.Float("quantity")
		if err != nil {
			return err
		}
		o.Quantity = v
	}
	if f.Has("price_per_unit") {
		v, err := f.Decimal("price_per_unit")
		if err != nil {
			return err
		}
		o.PricePerUnit = v
	}
	if f.Has("total_price") {
		v, err := f.Decimal("total_price")
		if err != nil {
			return err
		}
		o.TotalPrice = v
	}
	if f.Has("status") {
		o.Status = f.String("status")
	}
	if f.Has("delivery_address") {
		o.DeliveryAddress = f.String("delivery_address")
	}
	return nil
}

// AuditLogView - журнал изменений, только просмотр
func AuditLogView() *View {
	return &View{
		Slug:       "audit-logs",
		Name:       "Запись журнала",
		NamePlural: "Журнал изменений",
		New:        func() any { return &models.AuditLog{} },
		NewList:    func() any { return &[]models.AuditLog{} },
		ColumnList: []string{"id", "created_at", "entity_type", "entity_id", "action", "description", "request_id"},
		DetailList: []string{
			"id", "created_at", "entity_type", "entity_id", "action", "description",
			"before_data", "after_data", "request_id", "remote_ip",
		},
		Labels: map[string]string{
			"id":          "ID",
			"created_at":  "Время",
			"entity_type": "Раздел",
			"entity_id":   "ID записи",
			"action":      "Действие",
			"description": "Описание",
			"before_data": "До",
			"after_data":  "После",
			"request_id":  "ID запроса",
			"remote_ip":   "IP",
		},
		Searchable:  []string{"entity_type", "description", "request_id"},
		Sortable:    []string{"created_at", "entity_type", "action"},
		DefaultSort: []SortField{{Column: "created_at", Desc: true}},
		PageSize:    50,
		ReadOnly:    true,
	}
}
