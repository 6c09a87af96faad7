// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Bookshelf HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from the environment (and an optional .env file).
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis, when configured.
//  5. Run database migrations (idempotent).
//  6. Build the password hasher and token service.
//  7. Wire repositories, services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/api"
	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/metrics"
	"github.com/taibuivan/bookshelf/internal/platform/migration"
	pgstore "github.com/taibuivan/bookshelf/internal/platform/postgres"
	redisstore "github.com/taibuivan/bookshelf/internal/platform/redis"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/users/auth"
)

func main() {
	os.Exit(run())
}

// run wires and serves the application, returning the process exit code.
// Keeping main to a single os.Exit lets every deferred Close run.
func run() int {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if failed(log, err, "load configuration") {
		return 1
	}

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("cache_enabled", cfg.CacheEnabled()),
	)

	if cfg.IsProduction() && len(cfg.AllowedOrigins) == 0 {
		log.Warn("cors_allows_any_origin", slog.String("hint", "set ALLOWED_ORIGINS"))
	}

	// Startup deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	if failed(log, err, "connect to postgres") {
		return 1
	}
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.CacheEnabled() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		if failed(log, err, "connect to redis") {
			return 1
		}
		defer func() {
			log.Info("closing_redis_client")
			if closeErr := rdb.Close(); closeErr != nil {
				log.Error("redis_close_failed", slog.Any("error", closeErr))
			}
		}()
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	if cfg.RunMigrations {
		if failed(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations") {
			return 1
		}
	}

	// ── 6. Security ───────────────────────────────────────────────────────
	hasher, err := sec.NewHasher(cfg.BcryptCost)
	if failed(log, err, "initialize password hasher") {
		return 1
	}

	tokenService, err := sec.NewTokenService([]byte(cfg.JWTSecret), constants.AuthIssuer, cfg.JWTTTL)
	if failed(log, err, "initialize token service") {
		return 1
	}

	log.Info("security_initialized",
		slog.Int("bcrypt_cost", hasher.Cost()),
		slog.Duration("token_ttl", tokenService.TimeToLive()),
	)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(auth.NewUserRepository(pool), hasher, tokenService)

	var bookRepository book.Repository = book.NewPostgresRepository(pool)
	if rdb != nil {
		bookRepository = book.NewCachedRepository(bookRepository, rdb, cfg.BookCacheTTL)
	}
	bookService := book.NewService(bookRepository, cfg.PlaceholderImageURL)

	healthDependencies := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}
	if rdb != nil {
		healthDependencies.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, tokenService, api.Handlers{
		Health:  api.NewHealthHandlers(healthDependencies, log),
		Auth:    auth.NewHandler(authService),
		Book:    book.NewHandler(bookService),
		Metrics: metrics.New(),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	exitCode := 0
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
		exitCode = 1
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		return 1
	}

	log.Info("server_stopped_cleanly")
	return exitCode
}

// newLogger builds the JSON process logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName), slog.String("version", constants.AppVersion))
	slog.SetDefault(log)
	return log
}

// failed logs a structured startup error and reports whether err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func failed(log *slog.Logger, err error, step string) bool {
	if err == nil {
		return false
	}
	log.Error("startup_failure",
		slog.String("step", step),
		slog.Any("error", err),
	)
	return true
}
