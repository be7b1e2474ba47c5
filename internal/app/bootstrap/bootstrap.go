package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	airdropservice "airvault/contexts/distribution-core/airdrop-service"
	airdroppostgres "airvault/contexts/distribution-core/airdrop-service/adapters/postgres"
	airdropworkers "airvault/contexts/distribution-core/airdrop-service/application/workers"
	"airvault/contexts/distribution-core/airdrop-service/domain/entities"
	custodyservice "airvault/contexts/treasury-core/custody-service"
	custodypostgres "airvault/contexts/treasury-core/custody-service/adapters/postgres"
	"airvault/internal/platform/config"
	"airvault/internal/platform/db"
	"airvault/internal/platform/httpserver"
	"airvault/internal/platform/messaging"
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
	relay        airdropworkers.OutboxRelay
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
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	accounts := custodypostgres.NewRepository(pg.DB, logger)
	custodyModule := custodyservice.NewModule(custodyservice.Dependencies{
		Accounts: accounts,
		Clock:    custodypostgres.SystemClock{},
		Logger:   logger,
	})

	ledger := airdroppostgres.NewRepository(pg.DB, logger)
	airdropModule := airdropservice.NewModule(airdropservice.Dependencies{
		Ledger:            ledger,
		Custody:           custodyModule.Service,
		Clock:             airdroppostgres.SystemClock{},
		IDGen:             airdroppostgres.UUIDGenerator{},
		Outbox:            ledger,
		TreasuryAccountID: cfg.TreasuryAccountID,
		Logger:            logger,
	})

	// The ledger and the pooled account are created once per deployment;
	// both calls are idempotent.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := custodyModule.Service.EnsureReceivable(ctx, cfg.TreasuryAccountID); err != nil {
		_ = pg.Close()
		return nil, err
	}
	if err := custodyModule.Service.EnsureReceivable(ctx, cfg.AdminAccountID); err != nil {
		_ = pg.Close()
		return nil, err
	}
	if err := ledger.InitTreasury(ctx, entities.TreasuryState{
		OwnerAccountID:    cfg.AdminAccountID,
		TreasuryAccountID: cfg.TreasuryAccountID,
		UpdatedAt:         time.Now().UTC(),
	}); err != nil {
		_ = pg.Close()
		return nil, err
	}

	server := httpserver.New(airdropModule, custodyModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run() error {
	return a.server.Start()
}

func (a *APIApp) Close() error {
	return a.postgres.Close()
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

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	ledger := airdroppostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		relay: airdropworkers.OutboxRelay{
			Outbox:    ledger,
			Publisher: kafka,
			Clock:     airdroppostgres.SystemClock{},
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.relayEnabled {
		w.logger.Info("outbox relay disabled, worker idle",
			"event", "worker_outbox_relay_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return ctx.Err()
	}
	return w.relay.Run(ctx, w.pollInterval)
}

func (w *WorkerApp) Close() error {
	return w.postgres.Close()
}

func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
