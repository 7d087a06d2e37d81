package main

import (
	"log"

	"stroy-backend/internal/config"
	"stroy-backend/internal/database"
	"stroy-backend/internal/seed"
	"stroy-backend/internal/server"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("❌ База данных недоступна: %v", err)
	}

	// Тестовые данные: ошибка не мешает запуску
	if cfg.SeedOnStart {
		if err := seed.Run(db); err != nil {
			log.Printf("⚠️ Ошибка при заполнении тестовыми данными: %v", err)
		}
	}

	app, err := server.New(cfg, db)
	if err != nil {
		log.Fatalf("❌ Не удалось собрать приложение: %v", err)
	}

	log.Printf("Сервер запущен: http://%s%s", cfg.Addr(), cfg.AdminPath)
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}
