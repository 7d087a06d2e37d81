// Package pricelist загружает цены карьеров из XLSX файла.
// Формат совпадает с выгрузкой раздела цен: карьер, товар, цена.
package pricelist

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"stroy-backend/internal/audit"
	"stroy-backend/internal/httpx"
	"stroy-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type Result struct {
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Unmatched []string `json:"unmatched"`
	Message   string   `json:"message"`
}

// normalizeName: регистр, лишние пробелы и "ё" не влияют на сопоставление
// Пример: "  Песок   РЕЧНОЙ " -> "песок речной"
func normalizeName(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.ReplaceAll(s, "ё", "е")
}

// isHeader: первая строка выгрузки содержит подписи колонок
func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := normalizeName(row[0])
	return first == "карьер" || first == "quarry"
}

// POST {admin}/prices/import
func ImportHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Файл не загружен")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Можно загрузить только .xlsx файл")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return err
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Не удалось прочитать Excel файл")
		}
		defer excelFile.Close()

		sheets := excelFile.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "В файле нет листов")
		}
		rows, err := excelFile.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Не удалось прочитать лист "+sheets[0])
		}
		if len(rows) > 0 && isHeader(rows[0]) {
			rows = rows[1:]
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Файл пуст")
		}

		var res Result
		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			imp, err := newImporter(tx)
			if err != nil {
				return err
			}
			imp.requestID = httpx.GetRequestID(c)
			imp.remoteIP = c.IP()

			res, err = imp.apply(rows)
			return err
		})
		if err != nil {
			return err
		}

		res.Message = fmt.Sprintf("Создано: %d, обновлено: %d, без изменений: %d, не сопоставлено: %d",
			res.Created, res.Updated, res.Unchanged, len(res.Unmatched))
		log.Printf("[pricelist] %s", res.Message)
		return c.JSON(res)
	}
}

type importer struct {
	tx        *gorm.DB
	quarries  map[string]models.Quarry
	products  map[string]models.ProductType
	requestID string
	remoteIP  string
}

func newImporter(tx *gorm.DB) (*importer, error) {
	var quarries []models.Quarry
	if err := tx.Find(&quarries).Error; err != nil {
		return nil, err
	}
	var products []models.ProductType
	if err := tx.Find(&products).Error; err != nil {
		return nil, err
	}

	imp := &importer{
		tx:       tx,
		quarries: make(map[string]models.Quarry, len(quarries)),
		products: make(map[string]models.ProductType, len(products)),
	}
	for _, q := range quarries {
		imp.quarries[normalizeName(q.Name)] = q
	}
	for _, p := range products {
		imp.products[normalizeName(p.Name)] = p
	}
	return imp, nil
}

// apply: строка с неизвестным карьером или товаром пропускается и попадает в Unmatched,
// неверная цена прерывает загрузку целиком
func (imp *importer) apply(rows [][]string) (Result, error) {
	res := Result{Unmatched: []string{}}

	for i, row := range rows {
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		quarry, okQ := imp.quarries[normalizeName(row[0])]
		// товар в выгрузке показан как "Название (единица)"
		product, okP := imp.lookupProduct(row[1])
		if !okQ || !okP {
			res.Unmatched = append(res.Unmatched, fmt.Sprintf("%s / %s", strings.TrimSpace(row[0]), strings.TrimSpace(row[1])))
			continue
		}

		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(row[2]), ",", "."))
		if err != nil {
			return res, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Строка %d: неверная цена %q", i+1, row[2]))
		}
		price = price.Round(2)

		changed, created, err := imp.upsert(quarry, product, price)
		if err != nil {
			return res, err
		}
		switch {
		case created:
			res.Created++
		case changed:
			res.Updated++
		default:
			res.Unchanged++
		}
	}
	return res, nil
}

func (imp *importer) lookupProduct(name string) (models.ProductType, bool) {
	key := normalizeName(name)
	if p, ok := imp.products[key]; ok {
		return p, true
	}
	for _, p := range imp.products {
		if normalizeName(p.String()) == key {
			return p, true
		}
	}
	return models.ProductType{}, false
}

func (imp *importer) upsert(q models.Quarry, p models.ProductType, price decimal.Decimal) (changed, created bool, err error) {
	var row models.QuarryProductPrice
	err = imp.tx.Where("quarry_id = ? AND product_id = ?", q.ID, p.ID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.QuarryProductPrice{QuarryID: q.ID, ProductID: p.ID, Price: price}
		if err := imp.tx.Omit("Quarry", "Product").Create(&row).Error; err != nil {
			return false, false, err
		}
		row.Quarry, row.Product = &q, &p
		return true, true, imp.record(row, models.AuditActionCreate, nil, row)
	}
	if err != nil {
		return false, false, err
	}
	if row.Price.Equal(price) {
		return false, false, nil
	}

	before := row
	row.Price = price
	row.UpdatedAt = time.Now()
	err = imp.tx.Model(&row).Updates(map[string]any{"price": row.Price, "updated_at": row.UpdatedAt}).Error
	if err != nil {
		return false, false, err
	}
	row.Quarry, row.Product = &q, &p
	return true, false, imp.record(row, models.AuditActionUpdate, before, row)
}

func (imp *importer) record(row models.QuarryProductPrice, action models.AuditAction, before, after any) error {
	return audit.WriteLog(imp.tx, audit.LogOptions{
		EntityType:  "prices",
		EntityID:    row.ID,
		Action:      action,
		Description: "Загрузка прайса: " + row.String(),
		Before:      before,
		After:       after,
		RequestID:   imp.requestID,
		RemoteIP:    imp.remoteIP,
	})
}
