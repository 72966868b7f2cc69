// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/rpgvault/rpgvault/internal/auth"
	authpg "github.com/rpgvault/rpgvault/internal/auth/postgres"
	"github.com/rpgvault/rpgvault/internal/config"
	"github.com/rpgvault/rpgvault/internal/game"
	gamepg "github.com/rpgvault/rpgvault/internal/game/postgres"
	"github.com/rpgvault/rpgvault/internal/logging"
	"github.com/rpgvault/rpgvault/internal/seed"
	"github.com/rpgvault/rpgvault/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed example accounts and characters",
		Long: `Registers the accounts, characters, and items from a seed file
through the regular services, so seeded data obeys the same rules as
live traffic. This command is idempotent - accounts that already exist
are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "", "seed file path (default: bundled example roster)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL (or DATABASE_URL)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, seedCfg *seedConfig) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (set database.url, --database-url, or DATABASE_URL)")
	}

	file, err := loadSeedFile(seedCfg.file)
	if err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	logger := logging.SetDefault("rpgvault", version, cfg.Log.Format)

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return err
	}
	_ = migrator.Close()

	// Registration never issues tokens, but the auth service requires a
	// signing secret. Fall back to a throwaway one when seeding a
	// database that has no serving config.
	secret := cfg.Auth.TokenSecret
	if secret == "" {
		secret = "seed-" + time.Now().Format(time.RFC3339Nano)
	}
	tokens, err := auth.NewTokenIssuer([]byte(secret), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	tx := store.NewTransactor(pool)
	users := authpg.NewUserRepository(pool)
	authSvc := auth.NewAuthService(users, auth.NewArgon2idHasher(), tokens, tx)
	gameSvc := game.NewService(gamepg.NewCharacterRepository(pool), gamepg.NewItemRepository(pool), tx)

	seeder := seed.NewSeeder(authSvc, gameSvc, users, logger)
	if err := seeder.Apply(ctx, file); err != nil {
		return err
	}

	cmd.Printf("Seeding complete: %d user(s) in roster\n", len(file.Users))
	return nil
}

// loadSeedFile loads the named file, or the bundled roster when path
// is empty.
func loadSeedFile(path string) (*seed.File, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.Load(path)
}
