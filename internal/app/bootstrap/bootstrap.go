package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	catalogservice "eduvote/contexts/election-operations/catalog-service"
	catalogpostgres "eduvote/contexts/election-operations/catalog-service/adapters/postgres"
	votingengine "eduvote/contexts/election-operations/voting-engine"
	votingpostgres "eduvote/contexts/election-operations/voting-engine/adapters/postgres"
	votingredis "eduvote/contexts/election-operations/voting-engine/adapters/redis"
	"eduvote/contexts/election-operations/voting-engine/application/commands"
	"eduvote/contexts/election-operations/voting-engine/application/workers"
	"eduvote/contexts/election-operations/voting-engine/ports"
	registrationservice "eduvote/contexts/identity-access/registration-service"
	cryptoadapter "eduvote/contexts/identity-access/registration-service/adapters/crypto"
	emailadapter "eduvote/contexts/identity-access/registration-service/adapters/email"
	jwtadapter "eduvote/contexts/identity-access/registration-service/adapters/jwt"
	registrationpostgres "eduvote/contexts/identity-access/registration-service/adapters/postgres"
	"eduvote/internal/platform/config"
	"eduvote/internal/platform/db"
	"eduvote/internal/platform/httpserver"
	"eduvote/internal/platform/messaging"
	"eduvote/internal/platform/metrics"
	platformredis "eduvote/internal/platform/redis"
	"eduvote/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *platformredis.Client
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres    *db.Postgres
	bus         *messaging.Bus
	outboxRelay workers.OutboxRelay
	pollPeriod  time.Duration
	relayOn     bool
	logger      *slog.Logger
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

	appMetrics := metrics.New()
	signer := jwtadapter.NewSigner(cfg.SessionSecret, cfg.SessionTTL)

	catalogRepo := catalogpostgres.NewRepository(pg.DB, logger)
	catalogModule := catalogservice.NewModule(catalogservice.Dependencies{
		Catalog: catalogRepo,
		Clock:   catalogpostgres.SystemClock{},
		IDGen:   catalogpostgres.UUIDGenerator{},
		Logger:  logger,
	})

	var redisClient *platformredis.Client
	var votedHints ports.VotedHintStore
	if cfg.EnableVotedHintCache && cfg.RedisAddr != "" {
		redisClient, err = platformredis.New(cfg.RedisAddr)
		if err != nil {
			// The hint cache is optional; the DB constraint carries the
			// invariant on its own.
			logger.Warn("redis unavailable, voted hint cache disabled",
				"event", "bootstrap_redis_unavailable",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
			redisClient = nil
		}
		if redisClient != nil {
			votedHints = votingredis.NewVotedHintStore(redisClient, logger)
		}
	}

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	votingModule := votingengine.NewModule(votingengine.Dependencies{
		Catalog:      votingpostgres.NewCatalogProjection(pg.DB, logger),
		Ballots:      votingRepo,
		Outbox:       votingRepo,
		VotedHints:   votedHints,
		Clock:        votingpostgres.SystemClock{},
		IDGen:        votingpostgres.UUIDGenerator{},
		ReceiptIDGen: votingpostgres.HexReceiptIDGenerator{},
		Metrics:      appMetrics,
		Logger:       logger,
	})

	registrationRepo := registrationpostgres.NewRepository(pg.DB, logger)
	registrationModule := registrationservice.NewModule(registrationservice.Dependencies{
		Voters:          registrationRepo,
		Hasher:          cryptoadapter.BcryptHasher{},
		Sessions:        signer,
		Mailer:          emailadapter.NewLogMailer(logger),
		Clock:           registrationpostgres.SystemClock{},
		IDGen:           registrationpostgres.UUIDGenerator{},
		TokenGen:        cryptoadapter.HexTokenGenerator{},
		VerificationTTL: cfg.VerificationTTL,
		Metrics:         appMetrics,
		Logger:          logger,
	})

	server := httpserver.New(
		catalogModule,
		votingModule,
		registrationModule,
		signer,
		cfg.AdminToken,
		logger,
		":"+cfg.HTTPPort,
	)

	return &APIApp{
		server:   server,
		postgres: pg,
		redis:    redisClient,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run() error {
	return a.server.Start()
}

func (a *APIApp) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.postgres != nil {
		_ = a.postgres.Close()
	}
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

	bus := messaging.NewBus(logger)

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	relay := workers.OutboxRelay{
		Outbox:    votingRepo,
		Publisher: bus,
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	}

	return &WorkerApp{
		postgres:    pg,
		bus:         bus,
		outboxRelay: relay,
		pollPeriod:  cfg.OutboxPollPeriod,
		relayOn:     cfg.EnableOutboxRelay,
		logger:      logger,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	// Audit consumer: every published vote.recorded lands in the worker log.
	err := w.bus.Subscribe(ctx, commands.EventVoteRecorded, "eduvote-audit", func(_ context.Context, event events.Envelope) error {
		w.logger.Info("vote recorded event observed",
			"event", "worker_vote_recorded_observed",
			"module", "internal/app/bootstrap",
			"layer", "worker",
			"event_id", event.EventID,
			"entity_id", event.EntityID,
		)
		return nil
	})
	if err != nil {
		return err
	}

	if !w.relayOn {
		w.logger.Info("outbox relay disabled by config",
			"event", "worker_relay_disabled",
			"module", "internal/app/bootstrap",
			"layer", "worker",
		)
		<-ctx.Done()
		return nil
	}

	w.outboxRelay.Run(ctx, w.pollPeriod)
	return nil
}

func (w *WorkerApp) Close() {
	if w.postgres != nil {
		_ = w.postgres.Close()
	}
}
