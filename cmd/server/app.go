package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/demobank/internal/adapter/http"
	"github.com/iho/demobank/internal/adapter/http/handler"
	"github.com/iho/demobank/internal/adapter/http/middleware"
	"github.com/iho/demobank/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/demobank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/demobank/internal/adapter/repository/redis"
	"github.com/iho/demobank/internal/infrastructure/auth"
	"github.com/iho/demobank/internal/infrastructure/config"
	"github.com/iho/demobank/internal/infrastructure/idgen"
	"github.com/iho/demobank/internal/infrastructure/metrics"
	"github.com/iho/demobank/internal/infrastructure/notifier"
	"github.com/iho/demobank/internal/infrastructure/postgres"
	"github.com/iho/demobank/internal/infrastructure/redis"
	"github.com/iho/demobank/internal/infrastructure/retry"
	"github.com/iho/demobank/internal/usecase"
)

// app is the wired server.
type app struct {
	handler     http.Handler
	dispatcher  *notifier.Dispatcher
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

// Close releases connections in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storage is the selected account store and ledger backend.
type storage struct {
	txManager usecase.TxManager
	accounts  usecase.AccountStore
	ledger    usecase.Ledger
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}
	m := metrics.New(reg)
	ids := idgen.NewULIDGenerator()
	checks := map[string]handler.HealthCheck{}

	store, err := a.openStorage(ctx, cfg, logger, ids, checks)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Redis is optional: it backs idempotency keys and pub/sub notifications.
	var idempotencyStore usecase.IdempotencyStore
	var publisher notifier.Publisher = notifier.NewLogPublisher(logger)
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, m)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		publisher = redisRepo.NewPublisher(client)
		logger.Info().Msg("connected to redis")
	}

	a.dispatcher = notifier.NewDispatcher(notifier.Config{
		Publisher: publisher,
		Logger:    logger,
		Metrics:   m,
		QueueSize: cfg.NotifyQueueSize,
		Workers:   cfg.NotifyWorkers,
	})

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.TransferMaxRetries
	retrier := retry.NewRetrier(retryCfg, logger)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(store.txManager, store.accounts, store.ledger, ids, m)
	transferUC := usecase.NewTransferUseCase(store.txManager, store.accounts, store.ledger, ids, retrier, a.dispatcher,
		usecase.WithTransferTimeout(cfg.TransferTimeout),
		usecase.WithTransferMetrics(m),
		usecase.WithTransferLogger(logger),
	)
	transactionUC := usecase.NewTransactionUseCase(store.txManager, store.ledger, store.accounts, m)
	ledgerUC := usecase.NewLedgerUseCase(store.ledger, m)

	a.rateLimiter = middleware.NewRateLimiter("api", cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransferHandler:    handler.NewTransferHandler(transferUC, accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, accountUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		HealthHandler:      handler.NewHealthHandler(checks),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        a.rateLimiter,
		JWTManager:         jwtManager,
		Logger:             logger,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	return a, nil
}

func (a *app) openStorage(
	ctx context.Context,
	cfg *config.Config,
	logger zerolog.Logger,
	ids usecase.IDGenerator,
	checks map[string]handler.HealthCheck,
) (*storage, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		if cfg.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return nil, err
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		checks["postgres"] = pool.Ping
		logger.Info().Msg("connected to postgres")

		return &storage{
			txManager: postgresRepo.NewTxManager(pool),
			accounts:  postgresRepo.NewAccountRepository(pool),
			ledger:    postgresRepo.NewTransactionRepository(pool, ids),
		}, nil

	default:
		store := memory.New(ids)
		if cfg.SeedDemoData {
			seeded, err := store.SeedDemoData(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to seed demo data: %w", err)
			}
			logger.Info().Int("accounts", len(seeded)).Msg("seeded demo accounts")
		}

		return &storage{
			txManager: store.TxManager(),
			accounts:  store.Accounts(),
			ledger:    store.Ledger(),
		}, nil
	}
}
