package httpx

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandler отдает ошибки в виде {"error": "..."}.
// Ошибки хранилища (уникальность, внешние ключи) превращаются в 404/409.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запись не найдена"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Запись с такими значениями уже существует"})
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Нарушена ссылочная целостность: запись связана с другими данными"})
	}

	log.Printf("[http] rid=%s %s %s: %v", GetRequestID(c), c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Внутренняя ошибка сервера",
	})
}
