package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ainav/content-jobs/internal/aggregate"
	"github.com/ainav/content-jobs/internal/config"
	"github.com/ainav/content-jobs/internal/constants"
	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/internal/generate"
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
	if cfg.Chat.APIKey == "" {
		fmt.Fprintln(os.Stderr, "XAI_API_KEY is required")
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger = logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("Blog generation starting",
		zap.String("model", cfg.Chat.Model),
		zap.Strings("target_languages", cfg.Blog.TargetLanguages),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Blog generation failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Blog generated and published")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	postgres, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer postgres.Close()

	aggregator, err := aggregate.NewAggregator(aggregate.DefaultSources(), cfg.Chat.Timeout, cfg.Chat.Proxy, logger)
	if err != nil {
		return err
	}

	provider, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}

	articles := aggregator.Collect(ctx)
	logger.Info("Articles aggregated", zap.Int("count", len(articles)))
	if len(articles) == 0 {
		return fmt.Errorf("no articles collected, aborting")
	}

	pipeline := generate.NewPipeline(provider, cfg.Blog.NativeLanguage, cfg.Blog.TargetLanguages, logger)
	post, err := pipeline.Run(ctx, articles)
	if err != nil {
		return err
	}

	posts := store.NewPostRepository(postgres, logger)
	author, err := posts.EnsureDefaultAuthor(ctx)
	if err != nil {
		return err
	}

	_, err = util.WithRetry(ctx, logger, "save blog post",
		constants.RetryConfig.MaxAttempts, constants.RetryConfig.BaseDelay,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, posts.UpsertPost(ctx, post, author.ID)
		})
	if err != nil {
		return fmt.Errorf("failed to save blog post: %w", err)
	}

	logPost(logger, post)
	return nil
}

func buildProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (generate.ChatProvider, error) {
	primary, err := generate.NewXAIProvider(cfg.Chat.BaseURL, cfg.Chat.APIKey, cfg.Chat.Model, cfg.Chat.Proxy, cfg.Chat.Timeout, logger)
	if err != nil {
		return nil, err
	}

	if !cfg.Gemini.EnableFallback || cfg.Gemini.APIKey == "" {
		return primary, nil
	}

	fallback, err := generate.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	if err != nil {
		logger.Warn("Gemini fallback unavailable", zap.Error(err))
		return primary, nil
	}

	return generate.NewModelManager(primary, fallback, logger), nil
}

func logPost(logger *zap.Logger, post *domain.MultilingualPost) {
	primary := post.Entries[constants.DefaultLanguage]
	logger.Info("Blog post persisted",
		zap.String("slug", primary.Slug),
		zap.String("title", primary.Title),
		zap.Int("languages", len(post.Entries)-1),
	)
}
