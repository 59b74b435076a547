package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	engine "concord/contexts/governance/engine"
	postgresadapter "concord/contexts/governance/engine/adapters/postgres"
	"concord/internal/platform/config"
	"concord/internal/platform/db"
	"concord/internal/platform/httpserver"
	"concord/internal/platform/messaging"
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
	module       engine.Module
	ownerID      string
	decayEnabled bool
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	pg, module, err := buildModule(cfg, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
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
	pg, module, err := buildModule(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		postgres:     pg,
		module:       module,
		ownerID:      cfg.GovernanceOwnerID,
		decayEnabled: cfg.EnableDecaySweep,
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func buildModule(cfg config.Config, logger *slog.Logger) (*db.Postgres, engine.Module, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, engine.Module{}, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, engine.Module{}, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := repo.AutoMigrate(); err != nil {
		_ = pg.Close()
		return nil, engine.Module{}, err
	}

	transfers := postgresadapter.NewLedgerTransferAgent(pg.DB, logger)
	if err := transfers.AutoMigrate(); err != nil {
		_ = pg.Close()
		return nil, engine.Module{}, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, engine.Module{}, err
	}

	module := engine.NewModule(engine.Dependencies{
		Repo:             repo,
		Outbox:           repo,
		Transfers:        transfers,
		Publisher:        kafka,
		Clock:            postgresadapter.SystemClock{},
		IDGen:            postgresadapter.UUIDGenerator{},
		OwnerID:          cfg.GovernanceOwnerID,
		ProposalDuration: cfg.ProposalDuration,
		Inactivity:       cfg.InactivityThreshold,
		DecayAmount:      cfg.DecayAmount,
		Logger:           logger,
	})
	return pg, module, nil
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
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"decay_enabled", w.decayEnabled,
		"relay_enabled", w.relayEnabled,
	)

	for {
		if w.relayEnabled {
			if _, err := w.module.Relay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.decayEnabled && strings.TrimSpace(w.ownerID) != "" {
			if _, err := w.module.Sweep.RunOnce(ctx, w.ownerID); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
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
