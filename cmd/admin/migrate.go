package main

import (
	"fmt"

	"denuncias/backend/internal/migrations"

	"github.com/spf13/cobra"
)

func newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			ran, err := m.Upgrade()
			if err != nil {
				return err
			}
			if len(ran) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database already up to date.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database upgraded: %v\n", ran)
			return nil
		}),
	}
}

func newDowngradeCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "downgrade",
		Short: "Revert the latest applied migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			reverted, err := m.Downgrade(steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reverted: %v\n", reverted)
			return nil
		}),
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")
	return cmd
}

func newStampCmd() *cobra.Command {
	var rev string
	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Mark the database at a revision without running migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			if err := m.Stamp(rev); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database stamped at revision: %s\n", rev)
			return nil
		}),
	}
	cmd.Flags().StringVar(&rev, "rev", migrations.Head, "revision to mark")
	return cmd
}

func newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current revision",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			current, err := m.Current()
			if err != nil {
				return err
			}
			if current == "" {
				current = "<none>"
			}
			fmt.Fprintln(cmd.OutOrStdout(), current)
			return nil
		}),
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List known migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			history, err := m.History()
			if err != nil {
				return err
			}
			for _, h := range history {
				mark := " "
				if h.Applied {
					mark = "x"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", mark, h.ID)
			}
			return nil
		}),
	}
}
