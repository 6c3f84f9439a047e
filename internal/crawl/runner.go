package crawl

import (
	"context"
	"math/rand"
	"time"

	"github.com/ainav/content-jobs/internal/domain"
	"go.uber.org/zap"
)

type Scraper interface {
	Crawl(ctx context.Context, url string) *domain.ScrapeResult
}

type ToolWriter interface {
	UpsertFromScrape(ctx context.Context, result *domain.ScrapeResult) bool
}

type QueueStore interface {
	Load() ([]string, error)
	Save(remaining []string) error
}

// Runner drains the crawl queue: up to MaxPerRun URLs per invocation, always
// taken from the front. Each URL is scraped and upserted exactly once and
// removed from the queue whether or not that succeeded (fire-once). The
// remaining queue is persisted at the end of the run.
type Runner struct {
	queue     QueueStore
	scraper   Scraper
	tools     ToolWriter
	maxPerRun int
	minDelay  time.Duration
	maxDelay  time.Duration
	sleep     func(time.Duration)
	rng       *rand.Rand
	logger    *zap.Logger
}

// Summary reports one run for the final log line and exit code.
type Summary struct {
	Succeeded []string
	Failed    []string
	Remaining int
	Total     int
}

func NewRunner(queue QueueStore, scraper Scraper, tools ToolWriter, maxPerRun int, minDelay, maxDelay time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		queue:     queue,
		scraper:   scraper,
		tools:     tools,
		maxPerRun: maxPerRun,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
		sleep:     time.Sleep,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    logger,
	}
}

func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	urls, err := r.queue.Load()
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(urls)}

	processCount := r.maxPerRun
	if len(urls) < processCount {
		processCount = len(urls)
	}

	for i := 0; i < processCount; i++ {
		if ctx.Err() != nil {
			r.logger.Warn("Run cancelled, persisting remaining queue",
				zap.Int("processed", i),
			)
			break
		}

		url := urls[0]
		r.logger.Info("Processing queue entry",
			zap.String("url", url),
			zap.Int("position", i+1),
			zap.Int("batch", processCount),
		)

		result := r.scraper.Crawl(ctx, url)
		if result != nil && r.tools.UpsertFromScrape(ctx, result) {
			summary.Succeeded = append(summary.Succeeded, url)
		} else {
			summary.Failed = append(summary.Failed, url)
		}

		// Processed entries leave the queue regardless of outcome; a URL that
		// fails here is not retried on a later run.
		urls = urls[1:]

		r.sleep(r.delay())
	}

	if err := r.queue.Save(urls); err != nil {
		return summary, err
	}

	summary.Remaining = len(urls)

	r.logger.Info("Crawl run complete",
		zap.Int("succeeded", len(summary.Succeeded)),
		zap.Int("failed", len(summary.Failed)),
		zap.Int("remaining", summary.Remaining),
		zap.Int("progress", summary.Total-summary.Remaining),
		zap.Int("total", summary.Total),
	)

	for _, url := range summary.Failed {
		r.logger.Warn("Failed URL", zap.String("url", url))
	}

	return summary, nil
}

// delay picks a randomized pause between queue entries so the scrape API is
// not hammered.
func (r *Runner) delay() time.Duration {
	if r.maxDelay <= r.minDelay {
		return r.minDelay
	}
	return r.minDelay + time.Duration(r.rng.Int63n(int64(r.maxDelay-r.minDelay)))
}
