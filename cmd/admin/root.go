package main

import (
	"denuncias/backend/internal/config"
	"denuncias/backend/internal/migrations"
	"denuncias/backend/internal/storage"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Maintenance commands for the denuncias backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(
		newUpgradeCmd(),
		newDowngradeCmd(),
		newStampCmd(),
		newCurrentCmd(),
		newHistoryCmd(),
		newCheckDBCmd(),
		newRunCmd(),
	)
}

// openDatabase connects using the same configuration as the server.
func openDatabase() (*gorm.DB, config.Config, error) {
	cfg := config.Load()
	target, err := cfg.ResolveDatabase()
	if err != nil {
		return nil, cfg, err
	}
	db, err := storage.Open(target)
	return db, cfg, err
}

func withMigrator(fn func(cmd *cobra.Command, m *migrations.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		db, _, err := openDatabase()
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		return fn(cmd, migrations.New(db))
	}
}
