// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/rpgvault/rpgvault/internal/auth"
	authpg "github.com/rpgvault/rpgvault/internal/auth/postgres"
	"github.com/rpgvault/rpgvault/internal/config"
	"github.com/rpgvault/rpgvault/internal/game"
	gamepg "github.com/rpgvault/rpgvault/internal/game/postgres"
	"github.com/rpgvault/rpgvault/internal/logging"
	"github.com/rpgvault/rpgvault/internal/observability"
	"github.com/rpgvault/rpgvault/internal/store"
	"github.com/rpgvault/rpgvault/internal/web"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server, serving registration, login, and
character vault endpoints, plus a separate metrics/health listener.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, autoMigrate, nil)
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "API listen address")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL (or DATABASE_URL)")
	cmd.Flags().Duration("token-ttl", config.DefaultTokenTTL, "access token lifetime")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "apply pending schema migrations before serving")

	return cmd
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, autoMigrate bool, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}

	// Set up default factories
	if deps.ConfigLoader == nil {
		deps.ConfigLoader = config.Load
	}
	if deps.PoolFactory == nil {
		deps.PoolFactory = func(ctx context.Context, dsn string) (Pool, error) {
			return store.Connect(ctx, dsn)
		}
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(databaseURL string) (SchemaMigrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, checker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, checker)
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(addr string, handler http.Handler, logger *slog.Logger) APIServer {
			return web.NewServer(addr, handler, logger)
		}
	}

	cfg, err := deps.ConfigLoader(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.SetDefault("rpgvault", version, cfg.Log.Format)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := deps.PoolFactory(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	logger.Info("connected to database")

	if autoMigrate {
		migrator, migErr := deps.MigratorFactory(cfg.Database.URL)
		if migErr != nil {
			return migErr
		}
		if upErr := migrator.Up(); upErr != nil {
			_ = migrator.Close()
			return upErr
		}
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("error closing migrator", "error", closeErr)
		}
		logger.Info("schema migrations applied")
	}

	tokens, err := auth.NewTokenIssuer([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	tx := store.NewTransactor(pool)
	users := authpg.NewUserRepository(pool)
	authSvc := auth.NewAuthService(users, auth.NewArgon2idHasher(), tokens, tx)
	gameSvc := game.NewService(gamepg.NewCharacterRepository(pool), gamepg.NewItemRepository(pool), tx)

	// Start the observability server first so readiness reflects the
	// API coming up.
	var metrics *observability.Metrics
	var obsServer ObservabilityServer
	if cfg.Server.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Server.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrCh, startErr := obsServer.Start()
		if startErr != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(startErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	handler := web.NewHandler(authSvc, gameSvc, logger, metrics)
	api := deps.APIServerFactory(cfg.Server.Addr, web.NewRouter(handler, cfg.Server.CORSOrigins), logger)

	apiErrCh, err := api.Start()
	if err != nil {
		if obsServer != nil {
			stopServer(obsServer.Stop, logger, "observability")
		}
		return oops.Code("API_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("RPGVault server started")
	logger.Info("server ready",
		"addr", api.Addr(),
		"token_ttl", cfg.Auth.TokenTTL,
	)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")
	stopServer(api.Stop, logger, "api")
	if obsServer != nil {
		stopServer(obsServer.Stop, logger, "observability")
	}

	logger.Info("shutdown complete")
	return nil
}

// stopServer shuts a server down within the shutdown timeout.
func stopServer(stop func(context.Context) error, logger *slog.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors monitors a server's error channel and cancels the
// context on error so a failed listener takes the whole process down
// gracefully. It exits when an error arrives, the channel closes, or
// the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
