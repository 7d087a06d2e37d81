// Package testutil содержит помощники для тестов пакетов, работающих с базой.
package testutil

import (
	"path/filepath"
	"testing"

	"stroy-backend/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB открывает чистую SQLite базу во временном каталоге теста со всей схемой
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(database.Dialector(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
