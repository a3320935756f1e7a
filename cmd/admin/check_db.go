package main

import (
	"path/filepath"

	"denuncias/backend/internal/config"
	"denuncias/backend/internal/diagnostics"

	"github.com/spf13/cobra"
)

func newCheckDBCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "check-db",
		Short: "Inspect the local SQLite database file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				cfg := config.Load()
				path = filepath.Join(cfg.InstanceDir, config.DefaultDBFile)
			}
			report, err := diagnostics.Inspect(path)
			report.Write(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "database file (default: $INSTANCE_DIR/app.db)")
	return cmd
}
