package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPHost    string
	HTTPPort    string
	DatabaseDSN string // путь к файлу SQLite или DSN PostgreSQL
	AdminPath   string
	AdminTitle  string
	SeedOnStart bool
	CORSOrigins string
}

const defaultDatabaseDSN = "stroy.db"

func Load() *Config {
	// .env необязателен
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[cfg] .env не прочитан: %v", err)
	}

	cfg := &Config{
		HTTPHost:    getEnv("HTTP_HOST", "0.0.0.0"),
		HTTPPort:    getEnv("HTTP_PORT", "8000"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDatabaseDSN),
		AdminPath:   normalizePath(getEnv("ADMIN_PATH", "/admin")),
		AdminTitle:  getEnv("ADMIN_TITLE", "Админка стройматериалов"),
		SeedOnStart: parseBool(getEnv("SEED_ON_START", "true")),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}

	if cfg.DatabaseDSN == defaultDatabaseDSN {
		log.Println("[WARN] DATABASE_DSN не задан, используется локальный файл", defaultDatabaseDSN)
	}
	if cfg.SeedOnStart {
		log.Println("[WARN] SEED_ON_START включен: при старте база будет очищена и заполнена тестовыми данными")
	}

	return cfg
}

func (c *Config) Addr() string {
	return c.HTTPHost + ":" + c.HTTPPort
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func normalizePath(p string) string {
	p = "/" + strings.Trim(strings.TrimSpace(p), "/")
	return p
}
