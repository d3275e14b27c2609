package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"vigat-bahee/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigratePostgres applies every pending embedded migration. It opens its own
// lib/pq connection so the gorm pool is left alone.
func MigratePostgres(dsn string, log logger.Logger) error {
	m, closeFn, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("db: migrations up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	log.Info("db: migrations applied", "version", version, "dirty", dirty)
	return nil
}

// RollbackPostgres reverts the given number of migration steps.
func RollbackPostgres(dsn string, steps int, log logger.Logger) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive")
	}
	m, closeFn, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	log.Info("db: migrations rolled back", "steps", steps)
	return nil
}

func newMigrator(dsn string) (*migrate.Migrate, func(), error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open migration connection: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migration driver: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("init migrations: %w", err)
	}

	closeFn := func() {
		_, _ = m.Close()
	}
	return m, closeFn, nil
}
