package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tokokita/ecommerce_backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemorySQLitePath opens a private in-memory database.
const MemorySQLitePath = ":memory:"

// NewSQLiteDB opens (creating if needed) the SQLite database at path and migrates the schema.
func NewSQLiteDB(path string, debug bool) (*gorm.DB, error) {
	dsn := path
	if path == MemorySQLitePath {
		dsn = "file::memory:?_foreign_keys=on"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		dsn = path + sep + "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=5000"
	}

	gormLogger := logger.Discard
	if debug {
		gormLogger = logger.Default
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection also keeps an in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.StoreCategory{},
		&models.ProductCategory{},
		&models.Store{},
		&models.StoreCategoryRelation{},
		&models.OperationalHour{},
		&models.Product{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return db, nil
}

// CloseSQLiteDB closes the underlying connection pool.
func CloseSQLiteDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
