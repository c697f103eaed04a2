package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
	"github.com/tokokita/ecommerce_backend/pkg/database"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Run database migrations",
		Long:      `Apply all pending PostgreSQL migrations (up, the default) or roll back the latest one (down).`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{database.MigrateUp, database.MigrateDown},
		RunE:      runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := migrateDirection(args)

	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	if cfg.DatabaseDriver != config.DriverPostgres {
		return fmt.Errorf("migrations apply to the %s driver only; %s schemas are created on startup", config.DriverPostgres, cfg.DatabaseDriver)
	}

	cmd.Printf("Running %s migrations...\n", direction)
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction, logger); err != nil {
		return err
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

func migrateDirection(args []string) string {
	if len(args) == 0 {
		return database.MigrateUp
	}
	return args[0]
}
