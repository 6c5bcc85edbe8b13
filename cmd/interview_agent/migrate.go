package main

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-coach/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if err := db.MigrateFromURL(context.Background(), cfg.DatabaseURL, logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("migrations applied")
	return nil
}
