// Package bootstrap is the composition root. Construction and wiring live
// here so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	pollservice "votehub/contexts/elections/poll-service"
	pollcache "votehub/contexts/elections/poll-service/adapters/cache"
	pollpostgres "votehub/contexts/elections/poll-service/adapters/postgres"
	votepipeline "votehub/contexts/elections/vote-pipeline"
	votecache "votehub/contexts/elections/vote-pipeline/adapters/cache"
	votepostgres "votehub/contexts/elections/vote-pipeline/adapters/postgres"
	taskqueueadapter "votehub/contexts/elections/vote-pipeline/adapters/taskqueue"
	"votehub/internal/platform/cache"
	"votehub/internal/platform/config"
	"votehub/internal/platform/db"
	"votehub/internal/platform/httpserver"
	"votehub/internal/platform/queue"
)

type APIApp struct {
	server    *httpserver.Server
	postgres  *db.Postgres
	voteQueue *queue.Queue
	consumer  queue.Consumer
	workers   int
	logger    *slog.Logger
}

type WorkerApp struct {
	postgres        *db.Postgres
	refresher       votepipeline.Module
	refreshInterval time.Duration
	logger          *slog.Logger
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

	pg, err := db.Connect(cfg.PostgresDSN, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		return nil, err
	}

	cacheClient := cache.New(logger)
	voteQueue := queue.New(cfg.QueueCapacity, logger)

	voteRepo := votepostgres.NewRepository(pg.DB, logger)
	cacheStore := votecache.NewStore(cacheClient)
	cacheStore.VotedSetTTL = cfg.VotedSetTTL
	cacheStore.StatusTTL = cfg.StatusTTL
	cacheStore.ResultsTTL = cfg.ResultsCacheTTL

	voteModule := votepipeline.NewModule(votepipeline.Dependencies{
		Ledger:     voteRepo,
		Candidates: voteRepo,
		Polls:      voteRepo,
		Guard:      cacheStore,
		Queue:      taskqueueadapter.NewVoteQueue(voteQueue),
		Statuses:   cacheStore,
		Results:    cacheStore,
		Stats:      cacheStore,
		Clock:      votepostgres.SystemClock{},
		IDGen:      votepostgres.UUIDGenerator{},
		Workers:    cfg.QueueWorkers,
		Logger:     logger,
	})

	pollRepo := pollpostgres.NewRepository(pg.DB, logger)
	pollModule := pollservice.NewModule(pollservice.Dependencies{
		Polls:      pollRepo,
		Candidates: pollRepo,
		Votes:      voteRepo,
		Results:    cacheStore,
		Listing:    pollcache.NewListing(cacheClient),
		Clock:      votepostgres.SystemClock{},
		IDGen:      votepostgres.UUIDGenerator{},
		Logger:     logger,
	})

	server := httpserver.New(pollModule, voteModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:    server,
		postgres:  pg,
		voteQueue: voteQueue,
		consumer:  taskqueueadapter.NewConsumer(voteQueue, &voteModule.Recorder, logger),
		workers:   cfg.QueueWorkers,
		logger:    logger,
	}, nil
}

// BuildWorker assembles the background process that keeps results snapshots
// warm. The recorder consumers run inside the API process, next to the
// in-process queue they drain.
func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		return nil, err
	}

	cacheClient := cache.New(logger)
	voteRepo := votepostgres.NewRepository(pg.DB, logger)
	cacheStore := votecache.NewStore(cacheClient)
	cacheStore.ResultsTTL = cfg.ResultsCacheTTL

	module := votepipeline.NewModule(votepipeline.Dependencies{
		Ledger:     voteRepo,
		Candidates: voteRepo,
		Polls:      voteRepo,
		Results:    cacheStore,
		Statuses:   cacheStore,
		Guard:      cacheStore,
		Stats:      cacheStore,
		Clock:      votepostgres.SystemClock{},
		IDGen:      votepostgres.UUIDGenerator{},
		Workers:    cfg.QueueWorkers,
		Logger:     logger,
	})

	return &WorkerApp{
		postgres:        pg,
		refresher:       module,
		refreshInterval: cfg.ResultsRefreshInterval,
		logger:          logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	for i := 0; i < a.workers; i++ {
		go func() {
			_ = a.consumer.Run(ctx)
		}()
	}
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"queue_workers", a.workers,
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.voteQueue != nil {
		a.voteQueue.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"refresh_interval", w.refreshInterval.String(),
	)

	for {
		if err := w.refresher.Refresher.RunOnce(ctx); err != nil {
			return err
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
