// Package server собирает Fiber-приложение: middleware, админку и публичные эндпоинты.
package server

import (
	"strings"

	"stroy-backend/internal/admin"
	"stroy-backend/internal/config"
	"stroy-backend/internal/httpx"
	"stroy-backend/internal/pricelist"
	"stroy-backend/internal/storefront"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func New(cfg *config.Config, db *gorm.DB) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AdminTitle,
		ErrorHandler: httpx.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(httpx.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:" + httpx.RequestIDKey + "} ${status} ${method} ${path} ${latency}\n",
	}))

	// CORS origins приходят строкой через запятую
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "База данных недоступна")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	panel := admin.New(db, cfg.AdminTitle)
	if err := admin.Register(panel); err != nil {
		return nil, err
	}
	adminGroup := app.Group(cfg.AdminPath)
	panel.Mount(adminGroup)
	adminGroup.Post("/prices/import", pricelist.ImportHandler(db))

	storefront.Routes(app.Group("/api"), db)

	return app, nil
}
