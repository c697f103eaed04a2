package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tokokita/ecommerce_backend/internal/core/services"
	"github.com/tokokita/ecommerce_backend/internal/utils"
)

// NewSeedAdminCmd creates the seed-admin subcommand.
func NewSeedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the SUPER_ADMIN account",
		Long: `Create a verified SUPER_ADMIN from ADMIN_EMAIL and ADMIN_PASSWORD.
An account that already uses ADMIN_EMAIL is left untouched.`,
		Args: cobra.NoArgs,
		RunE: runSeedAdmin,
	}
}

func runSeedAdmin(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	repos, err := openRepositories(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer repos.Close()

	admin, created, err := services.SeedSuperAdmin(ctx, repos.UserRepo, utils.NewBcryptHasher(), cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if !created {
		logger.Info("Admin already exists, nothing to do", slog.String("email", admin.Email), slog.String("role", string(admin.Role)))
		cmd.Printf("Account %s already exists\n", admin.Email)
		return nil
	}
	logger.Info("Admin created", slog.Int64("user_id", admin.ID), slog.String("email", admin.Email))
	cmd.Printf("Created SUPER_ADMIN %s\n", admin.Email)
	return nil
}
