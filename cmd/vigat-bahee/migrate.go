package main

import (
	"fmt"

	"vigat-bahee/internal/config"
	"vigat-bahee/internal/db"
	"vigat-bahee/pkg/logger"

	"github.com/spf13/cobra"
)

func newMigrateCmd(log logger.Logger) *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the Postgres schema",
		Long: `Applies the embedded SQL migrations to the Postgres database from the
environment. With --down N the last N migrations are rolled back instead.
SQLite and Mongo create their schema on start and need no migration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(log)
			if err != nil {
				return err
			}
			if cfg.DB.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate: DB_DRIVER is %q, migrations only apply to %s", cfg.DB.Driver, config.DriverPostgres)
			}
			if down > 0 {
				return db.RollbackPostgres(cfg.DB.GetDSN(), down, log)
			}
			return db.MigratePostgres(cfg.DB.GetDSN(), log)
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "roll back this many migrations")
	return cmd
}
