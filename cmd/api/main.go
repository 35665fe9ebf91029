// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Yamdb HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Install tracing and metrics.
//  6. Wire domain services and HTTP handlers.
//  7. Run the HTTP server and the mail dispatcher until a signal arrives.
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

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yamdb/internal/api"
	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/migration"
	pgstore "github.com/taibuivan/yamdb/internal/platform/postgres"
	redisstore "github.com/taibuivan/yamdb/internal/platform/redis"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/telemetry"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("[Yamdb] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("mail_backend", cfg.Mail.Backend),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Bounded so a misconfigured dependency fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")

	// ── 5. Observability ──────────────────────────────────────────────────
	shutdownTracing, err := telemetry.Setup(startupCtx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    constants.AppName,
		ServiceVersion: constants.AppVersion,
	}, log)
	must(log, err, "initialize tracing")

	registry := prometheus.NewRegistry()
	must(log, metrics.Register(registry), "register metrics")

	// ── 6. Security ───────────────────────────────────────────────────────
	tokens, err := sec.LoadTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer, cfg.AccessTokenTTL)
	must(log, err, "initialize jwt service")

	codes, err := sec.NewCodeGenerator(cfg.ConfirmationSecret, cfg.ConfirmationCodeTTL)
	must(log, err, "initialize confirmation codes")

	outbox := mail.NewRedisOutbox(rdb, cfg.Mail.QueueKey)
	dispatcher := mail.NewDispatcher(outbox, newSender(cfg, log), log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(auth.NewUserRepository(pool), tokens, codes, outbox)
	accountService := account.NewService(account.NewAccountRepository(pool))

	taxonomyService := taxonomy.NewService(taxonomy.NewPostgresRepository(pool))
	titleService := title.NewService(title.NewPostgresRepository(pool), taxonomyService)
	reviewService := review.NewService(review.NewPostgresRepository(pool), titleService)
	commentService := comment.NewService(comment.NewPostgresRepository(pool), reviewService)

	commentHandler := comment.NewHandler(commentService)
	reviewHandler := review.NewHandler(reviewService, commentHandler.Routes())

	var health api.HealthDependencies
	health.Add("postgres", func(ctx context.Context) error { return pgstore.Ping(ctx, pool) })
	health.Add("redis", func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) })
	liveness, readiness := api.NewHealthHandlers(health, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Metrics:    metrics.Handler(registry),
		Auth:       auth.NewHandler(authService),
		Users:      account.NewHandler(accountService),
		Categories: taxonomy.NewHandler(taxonomyService, taxonomy.KindCategory),
		Genres:     taxonomy.NewHandler(taxonomyService, taxonomy.KindGenre),
		Titles:     title.NewHandler(titleService, reviewHandler.Routes()),
	}

	server := api.NewServer(rootCtx, cfg, log, api.Security{Verifier: tokens, Resolver: authService}, handlers)

	// ── 8. Run & Graceful Shutdown ────────────────────────────────────────
	group, groupCtx := errgroup.WithContext(rootCtx)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		return dispatcher.Run(groupCtx, cfg.Mail.Workers)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
		return server.Shutdown(constants.ShutdownTimeout)
	})

	exitCode := 0
	if err := group.Wait(); err != nil {
		log.Error("server_stopped_with_error", slog.Any("error", err))
		exitCode = 1
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error("tracing_shutdown_failed", slog.Any("error", err))
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

func newSender(cfg *config.Config, log *slog.Logger) mail.Sender {
	if cfg.Mail.Backend == config.MailBackendSMTP {
		return mail.NewSMTPSender(cfg.SMTP.Addr, cfg.Mail.From, cfg.SMTP.Username, cfg.SMTP.Password)
	}
	return mail.NewLogSender(log)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
