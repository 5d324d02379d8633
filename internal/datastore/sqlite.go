package datastore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/logging"
)

// SQLiteStore implements Interface for SQLite.
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
	logger   *slog.Logger
}

// Open sets up the SQLite database connection and runs the idempotent
// auto-migration. The database file and its directory are created if absent.
func (store *SQLiteStore) Open() error {
	store.logger = logging.ForService("datastore")

	path := store.Settings.Database.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory %q: %w", dir, err)
		}
	}

	gormLogLevel := logger.Silent
	if store.Settings.Debug {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.AutoMigrate(&Prediction{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	store.DB = db
	store.logger.Info("database opened", "path", path)
	return nil
}

// Close closes the underlying SQLite connection.
func (store *SQLiteStore) Close() error {
	if store.DB == nil {
		return nil
	}
	sqlDB, err := store.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying database: %w", err)
	}
	return sqlDB.Close()
}
