package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ainav/content-jobs/internal/config"
	"github.com/ainav/content-jobs/internal/crawl"
	"github.com/ainav/content-jobs/internal/queue"
	"github.com/ainav/content-jobs/internal/scrape"
	"github.com/ainav/content-jobs/internal/service/cache"
	"github.com/ainav/content-jobs/internal/service/database"
	"github.com/ainav/content-jobs/internal/store"
	"github.com/ainav/content-jobs/internal/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger = logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("AI tool crawler starting",
		zap.String("queue_file", cfg.Crawler.QueueFile),
		zap.Int("max_per_run", cfg.Crawler.MaxPerRun),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgres, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer postgres.Close()

	var resultCache scrape.ResultCache
	if cfg.Crawler.CacheResults && cfg.Redis.Host != "" {
		cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without scrape cache", zap.Error(err))
		} else {
			defer cacheSvc.Close()
			resultCache = cacheSvc
		}
	}

	queueStore := queue.NewStore(cfg.Crawler.QueueFile, logger)
	scraper := scrape.NewClient(cfg.Scrape.APIURL, cfg.Scrape.APIKey, cfg.Scrape.Timeout, cfg.Scrape.TagHints, resultCache, logger)
	tools := store.NewToolRepository(postgres, logger)

	runner := crawl.NewRunner(queueStore, scraper, tools,
		cfg.Crawler.MaxPerRun, cfg.Crawler.MinDelay, cfg.Crawler.MaxDelay, logger)

	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Error("Crawl run failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Crawl run finished",
		zap.Int("succeeded", len(summary.Succeeded)),
		zap.Int("failed", len(summary.Failed)),
		zap.Int("remaining", summary.Remaining),
	)
}
