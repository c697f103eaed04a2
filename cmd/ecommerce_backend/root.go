package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
	"github.com/tokokita/ecommerce_backend/internal/repositories/database/pgsql"
	"github.com/tokokita/ecommerce_backend/internal/repositories/database/sqlite"
	"github.com/tokokita/ecommerce_backend/pkg/database"
)

// Global flags available to all subcommands.
var debug bool

// NewRootCmd creates the root command for the backend CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecommerce_backend",
		Short: "TokoKita e-commerce backend",
		Long: `TokoKita e-commerce backend: account registration, email verification,
sessions, Google sign-in and the store catalog over a JSON API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedAdminCmd())

	return cmd
}

// bootstrap loads configuration and installs the JSON logger as the default.
func bootstrap() (*config.Config, *slog.Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger, nil
}

// openRepositories connects the configured store. Postgres schemas are migrated
// first when migrateUp is set; SQLite schemas are always auto-migrated.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrateUp bool) (portsrepo.RepositoryProvider, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(cfg.SQLitePath, debug)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		logger.Info("SQLite database opened", slog.String("path", cfg.SQLitePath))
		return sqlite.NewRepositoryProvider(db), nil
	case config.DriverPostgres:
		if migrateUp {
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp, logger); err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool), nil
	default:
		return portsrepo.RepositoryProvider{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
