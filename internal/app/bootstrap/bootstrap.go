package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	faasservice "faas/contexts/assessment/faas-service"
	faaspostgres "faas/contexts/assessment/faas-service/adapters/postgres"
	faasworkers "faas/contexts/assessment/faas-service/application/workers"
	identityservice "faas/contexts/identity-access/identity-service"
	identitypostgres "faas/contexts/identity-access/identity-service/adapters/postgres"
	"faas/internal/platform/config"
	"faas/internal/platform/db"
	"faas/internal/platform/httpserver"
	"faas/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	relay        faasworkers.ErasureRelay
	pollInterval time.Duration
	enabled      bool
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := pg.Migrate(logger); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	users := identitypostgres.NewRepository(pg.DB, logger)
	if cfg.EnableDemoUsers {
		if err := users.SeedUsers(context.Background(), identityservice.DefaultDemoUsers()); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}
	identityModule := identityservice.NewModule(identityservice.Dependencies{
		Users:         users,
		JWTSecret:     []byte(cfg.JWTSecret),
		TokenLifespan: cfg.TokenLifespan,
		Logger:        logger,
	})

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	records := faaspostgres.NewRepository(pg.DB, logger)
	faasModule := faasservice.NewModule(faasservice.Dependencies{
		Repository: records,
		Ledger:     records,
		Outbox:     records,
		Publisher:  kafka,
		Clock:      faaspostgres.SystemClock{},
		IDGen:      faaspostgres.UUIDGenerator{},
		Logger:     logger,
	})

	server := httpserver.New(identityModule, faasModule, cfg.AllowedOrigins, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := pg.Migrate(logger); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	records := faaspostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		relay: faasworkers.ErasureRelay{
			Outbox:    records,
			Publisher: kafka,
			Clock:     faaspostgres.SystemClock{},
			BatchSize: cfg.ErasureRelayBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.ErasureRelayInterval,
		enabled:      cfg.EnableErasureRelay,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.enabled {
		w.logger.Info("erasure relay disabled, worker idling",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)
	return w.relay.Run(ctx, w.pollInterval)
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
