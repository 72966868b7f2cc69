// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/rpgvault/rpgvault/internal/config"
	"github.com/rpgvault/rpgvault/internal/store"
)

// NewMigrateCmd creates the migrate subcommand tree.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long:  `Apply, roll back, or inspect schema migrations against the PostgreSQL database.`,
	}

	cmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL (or DATABASE_URL)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *store.Migrator) error {
				cmd.Println("Running migrations...")
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations completed successfully")
				return nil
			})
		},
	}

	var downAll bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back one migration (all with --all)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *store.Migrator) error {
				if downAll {
					cmd.Println("Rolling back all migrations...")
					return m.Down()
				}
				cmd.Println("Rolling back one migration...")
				return m.Steps(-1)
			})
		},
	}
	down.Flags().BoolVar(&downAll, "all", false, "roll back every migration (drops all data)")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *store.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					cmd.Println("No migrations applied")
					return nil
				}
				cmd.Printf("Version: %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

// withMigrator resolves the database URL, opens a migrator, runs fn,
// and closes the migrator.
func withMigrator(cmd *cobra.Command, fn func(m *store.Migrator) error) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (set database.url, --database-url, or DATABASE_URL)")
	}

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		//nolint:errcheck // close error is secondary to the migration result
		migrator.Close()
	}()

	return fn(migrator)
}
