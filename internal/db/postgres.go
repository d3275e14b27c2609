package db

import (
	"fmt"
	"time"

	"vigat-bahee/internal/config"
	"vigat-bahee/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
)

func NewPostgres(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	if cfg.DSN != "" {
		log.Info("db: connecting using DSN")
	} else {
		log.Info("db: connecting to postgres", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.Name, "sslmode", cfg.SSLMode)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.GetDSN()), gormConfig(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := configurePool(gormDB, cfg); err != nil {
		return nil, err
	}

	log.Info("db: connected", "driver", config.DriverPostgres)
	return gormDB, nil
}

func gormConfig(cfg config.DBConfig, log logger.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(cfg, log),
	}
}

func configurePool(gormDB *gorm.DB, cfg config.DBConfig) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = defaultConnMaxLifetime
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

// Close releases the pool behind a gorm handle.
func Close(gormDB *gorm.DB) error {
	if gormDB == nil {
		return nil
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
