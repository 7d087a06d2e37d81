package admin

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const (
	maxExportRows = 10000
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// GET {admin}/:slug/export - те же строки, что и в списке, одним листом XLSX
func (a *Admin) exportHandler(v *View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		p := v.parseList(c)

		list, err := v.all(a.db.WithContext(ctx), p, maxExportRows)
		if err != nil {
			return err
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := sheetName(v.NamePlural)
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("export %s: %w", v.Slug, err)
		}

		for colIdx, col := range v.ColumnList {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, 1)
			if err != nil {
				return fmt.Errorf("export %s: %w", v.Slug, err)
			}
			if err := f.SetCellValue(sheet, cell, v.label(col)); err != nil {
				return fmt.Errorf("export %s: %w", v.Slug, err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
				return fmt.Errorf("export %s: %w", v.Slug, err)
			}
		}
		if n := len(v.ColumnList); n > 0 {
			last, err := excelize.ColumnNumberToName(n)
			if err != nil {
				return fmt.Errorf("export %s: %w", v.Slug, err)
			}
			if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
				return fmt.Errorf("export %s: %w", v.Slug, err)
			}
		}

		for rowIdx, m := range rowsOf(list) {
			for colIdx, col := range v.ColumnList {
				value := v.value(ctx, m, col, false)
				if value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				if err != nil {
					return fmt.Errorf("export %s: %w", v.Slug, err)
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("export %s: %w", v.Slug, err)
				}
			}
		}

		buffer, err := f.WriteToBuffer()
		if err != nil {
			return err
		}

		filename := fmt.Sprintf("%s-%s.xlsx", v.Slug, time.Now().Format("20060102-150405"))
		c.Set(fiber.HeaderContentType, xlsxMIME)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
		return c.Send(buffer.Bytes())
	}
}

// sheetName: Excel допускает не больше 31 символа в имени листа
func sheetName(name string) string {
	if name == "" {
		return "Sheet1"
	}
	r := []rune(name)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
