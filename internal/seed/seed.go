// Package seed очищает справочники и заказы и заполняет базу демонстрационными данными.
package seed

import (
	"fmt"
	"log"

	"stroy-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run выполняется в одной транзакции: при ошибке база остается в прежнем состоянии.
// Повторный запуск дает тот же набор строк, без дублей.
func Run(db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := wipe(tx); err != nil {
			return err
		}
		return fill(tx)
	})
	if err != nil {
		return fmt.Errorf("заполнение тестовыми данными: %w", err)
	}

	log.Println("✅ Тестовые данные успешно добавлены в базу данных")
	return nil
}

// wipe удаляет строки в порядке зависимостей: сначала дочерние таблицы
func wipe(tx *gorm.DB) error {
	tables := []any{
		&models.OrderTruck{},
		&models.Order{},
		&models.TruckType{},
		&models.Customer{},
		&models.QuarryProductPrice{},
		&models.Quarry{},
		&models.ProductType{},
		&models.ProductCategory{},
	}
	for _, m := range tables {
		if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
			return fmt.Errorf("очистка %T: %w", m, err)
		}
	}
	return nil
}

func fill(tx *gorm.DB) error {
	categories := []models.ProductCategory{
		{Name: "Щебень"},
		{Name: "Песок"},
		{Name: "Гравий"},
		{Name: "Бутовый камень"},
	}
	if err := tx.Create(&categories).Error; err != nil {
		return fmt.Errorf("категории: %w", err)
	}

	productTypes := []models.ProductType{
		{Name: "Гранитный щебень 5-20", CategoryID: &categories[0].ID, BaseUnit: "тонна"},
		{Name: "Гранитный щебень 20-40", CategoryID: &categories[0].ID, BaseUnit: "тонна"},
		{Name: "Песок речной", CategoryID: &categories[1].ID, BaseUnit: "м³"},
		{Name: "Песок карьерный", CategoryID: &categories[1].ID, BaseUnit: "м³"},
		{Name: "Гравий 5-20", CategoryID: &categories[2].ID, BaseUnit: "тонна"},
		{Name: "Бут 100-300", CategoryID: &categories[3].ID, BaseUnit: "тонна"},
	}
	if err := tx.Create(&productTypes).Error; err != nil {
		return fmt.Errorf("виды товаров: %w", err)
	}

	quarries := []models.Quarry{
		{Name: "Карьер 'Гранитный'", Location: "с. Гранитное", IsActive: true},
		{Name: "Карьер 'Речной'", Location: "п. Речной", IsActive: true},
		{Name: "Карьер 'Гравийный'", Location: "г. Гравийск", IsActive: false},
	}
	if err := tx.Create(&quarries).Error; err != nil {
		return fmt.Errorf("карьеры: %w", err)
	}

	prices := []models.QuarryProductPrice{
		{QuarryID: quarries[0].ID, ProductID: productTypes[0].ID, Price: decimal.NewFromInt(1500)},
		{QuarryID: quarries[0].ID, ProductID: productTypes[1].ID, Price: decimal.NewFromInt(1400)},
		{QuarryID: quarries[0].ID, ProductID: productTypes[5].ID, Price: decimal.NewFromInt(1800)},
		{QuarryID: quarries[1].ID, ProductID: productTypes[2].ID, Price: decimal.NewFromInt(800)},
		{QuarryID: quarries[1].ID, ProductID: productTypes[3].ID, Price: decimal.NewFromInt(700)},
		{QuarryID: quarries[2].ID, ProductID: productTypes[4].ID, Price: decimal.NewFromInt(1200)},
	}
	if err := tx.Create(&prices).Error; err != nil {
		return fmt.Errorf("цены: %w", err)
	}

	truckTypes := []models.TruckType{
		{Name: "Самосвал 10м³", Volume: 10, LoadCapacity: 10, Description: "Малый самосвал"},
		{Name: "Самосвал 20м³", Volume: 20, LoadCapacity: 20, Description: "Средний самосвал"},
		{Name: "Самосвал 30м³", Volume: 30, LoadCapacity: 30, Description: "Крупный самосвал"},
		{Name: "Самосвал 40м³", Volume: 40, LoadCapacity: 40, Description: "Очень крупный самосвал"},
		{Name: "Мегасамосвал 50м³", Volume: 50, LoadCapacity: 50, Description: "Самый большой самосвал"},
	}
	if err := tx.Create(&truckTypes).Error; err != nil {
		return fmt.Errorf("типы машин: %w", err)
	}

	customers := []models.Customer{
		{
			FullName: "Иванов Иван Иванович",
			Phone:    "+79001234567",
			Email:    "ivanov@example.com",
			Address:  "г. Москва, ул. Ленина, д. 1",
		},
		{
			FullName: "Петров Петр Петрович",
			Phone:    "+79007654321",
			Email:    "petrov@example.com",
			Address:  "г. Санкт-Петербург, Невский пр., д. 100",
		},
	}
	if err := tx.Create(&customers).Error; err != nil {
		return fmt.Errorf("клиенты: %w", err)
	}

	orders := []models.Order{
		{
			CustomerID:      &customers[0].ID,
			ProductID:       productTypes[0].ID, // Гранитный щебень 5-20
			QuarryID:        quarries[0].ID,     // Карьер 'Гранитный'
			Quantity:        100,                // 100 тонн
			PricePerUnit:    decimal.NewFromInt(1500),
			TotalPrice:      decimal.NewFromInt(150000),
			DeliveryAddress: "г. Москва, ул. Строителей, д. 25",
			Status:          models.OrderStatusCompleted,
		},
		{
			CustomerID:      &customers[1].ID,
			ProductID:       productTypes[2].ID, // Песок речной
			QuarryID:        quarries[1].ID,     // Карьер 'Речной'
			Quantity:        150,                // 150 м³
			PricePerUnit:    decimal.NewFromInt(800),
			TotalPrice:      decimal.NewFromInt(120000),
			DeliveryAddress: "г. Санкт-Петербург, пр. Победы, д. 15",
			Status:          models.OrderStatusInProgress,
		},
	}
	if err := tx.Create(&orders).Error; err != nil {
		return fmt.Errorf("заказы: %w", err)
	}

	orderTrucks := []models.OrderTruck{
		// Заказ 1: 2 × 30м³ + 2 × 20м³ = 100м³
		{OrderID: orders[0].ID, TruckTypeID: truckTypes[2].ID, Count: 2},
		{OrderID: orders[0].ID, TruckTypeID: truckTypes[1].ID, Count: 2},
		// Заказ 2: 2 × 50м³ + 1 × 40м³ = 140м³
		{OrderID: orders[1].ID, TruckTypeID: truckTypes[4].ID, Count: 2},
		{OrderID: orders[1].ID, TruckTypeID: truckTypes[3].ID, Count: 1},
	}
	if err := tx.Create(&orderTrucks).Error; err != nil {
		return fmt.Errorf("машины заказов: %w", err)
	}

	return nil
}
