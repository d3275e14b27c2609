package db

import (
	"fmt"

	"vigat-bahee/internal/config"
	"vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/user"
	"vigat-bahee/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// NewSQLite opens a SQLite database through the pure-Go modernc driver.
// Writes are serialized on a single connection.
func NewSQLite(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	path := cfg.SQLitePath
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	log.Info("db: opening sqlite", "path", path)
	gormDB, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		DSN:        dsn,
	}), gormConfig(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := configurePool(gormDB, config.DBConfig{MaxOpenConns: 1, MaxIdleConns: 1}); err != nil {
		return nil, err
	}

	log.Info("db: connected", "driver", config.DriverSQLite)
	return gormDB, nil
}

// AutoMigrate creates or updates the schema from the model definitions. Used
// for SQLite, where the SQL migrations do not apply.
func AutoMigrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(&user.User{}, &bahee.Header{}, &bahee.Entry{}, &bahee.ReturnNetLog{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
