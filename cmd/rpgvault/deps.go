// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/pflag"

	"github.com/rpgvault/rpgvault/internal/config"
	"github.com/rpgvault/rpgvault/internal/observability"
	"github.com/rpgvault/rpgvault/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// ConfigLoader builds the configuration from file and flags.
	// Default: config.Load
	ConfigLoader func(path string, flags *pflag.FlagSet) (*config.Config, error)

	// PoolFactory opens the database connection pool.
	// Default: store.Connect
	PoolFactory func(ctx context.Context, dsn string) (Pool, error)

	// MigratorFactory creates a schema migrator for --auto-migrate.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (SchemaMigrator, error)

	// ObservabilityServerFactory creates the metrics/health server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, checker observability.ReadinessChecker) ObservabilityServer

	// APIServerFactory creates the HTTP API server.
	// Default: web.NewServer
	APIServerFactory func(addr string, handler http.Handler, logger *slog.Logger) APIServer
}

// Pool is the database surface the serve command wires into the
// repositories and transactor.
type Pool interface {
	store.DB
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// SchemaMigrator wraps the methods used from store.Migrator.
type SchemaMigrator interface {
	Up() error
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// APIServer wraps the methods used from web.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
