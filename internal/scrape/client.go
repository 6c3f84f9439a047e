package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ainav/content-jobs/internal/constants"
	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/pkg/errors"
	"go.uber.org/zap"
)

// ResultCache is the optional layer in front of the crawl API. Implemented by
// cache.CacheService; nil disables caching.
type ResultCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Client calls the external crawl API once per URL. Failures are soft: the
// caller receives a nil result and decides what to do with the queue entry.
// Retries are deliberately not performed here.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	tagHints   []string
	cache      ResultCache
	logger     *zap.Logger
}

type request struct {
	URL  string   `json:"url"`
	Tags []string `json:"tags"`
}

func NewClient(apiURL, apiKey string, timeout time.Duration, tagHints []string, cache ResultCache, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiURL:   apiURL,
		apiKey:   apiKey,
		tagHints: tagHints,
		cache:    cache,
		logger:   logger,
	}
}

// Crawl POSTs one URL to the crawl API and returns the response envelope on
// success. Any transport fault, non-200 status, or unexpected envelope is
// logged and reported as a nil result with a nil error.
func (c *Client) Crawl(ctx context.Context, url string) *domain.ScrapeResult {
	if c.cache != nil {
		var cached domain.ScrapeResult
		if hit, err := c.cache.Get(ctx, cacheKey(url), &cached); err == nil && hit {
			c.logger.Debug("Scrape cache hit", zap.String("url", url))
			return &cached
		}
	}

	c.logger.Info("Crawling", zap.String("url", url))

	result, err := c.crawl(ctx, url)
	if err != nil {
		c.logger.Error("Crawl failed", zap.String("url", url), zap.Error(err))
		return nil
	}

	c.logger.Info("Crawl succeeded", zap.String("url", url))

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey(url), result, constants.CacheTTL.ScrapeResult); err != nil {
			c.logger.Debug("Failed to cache crawl result", zap.String("url", url), zap.Error(err))
		}
	}

	return result
}

func (c *Client) crawl(ctx context.Context, url string) (*domain.ScrapeResult, error) {
	body, err := json.Marshal(request{URL: url, Tags: c.tagHints})
	if err != nil {
		return nil, fmt.Errorf("failed to encode crawl request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build crawl request: %w", err)
	}

	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ainav-crawler/1.0")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crawl request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAPIError("crawl API returned unexpected status",
			resp.StatusCode, map[string]any{"url": url})
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read crawl response: %w", err)
	}

	var result domain.ScrapeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode crawl response: %w", err)
	}

	if result.Code != 200 || result.Msg != "success" || len(result.Data) == 0 {
		return nil, errors.NewAPIError("crawl API returned unexpected envelope",
			resp.StatusCode, map[string]any{
				"url":  url,
				"code": result.Code,
				"msg":  result.Msg,
			})
	}

	return &result, nil
}

func cacheKey(url string) string {
	return fmt.Sprintf("crawler:scrape:%s", url)
}
