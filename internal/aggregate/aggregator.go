package aggregate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ainav/content-jobs/internal/constants"
	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/internal/util"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

type SourceType string

const (
	SourceRSS SourceType = "rss"
	SourceWeb SourceType = "web"
)

// Source is one configured article origin: either an RSS feed or a web page
// scraped with a CSS selector.
type Source struct {
	Type     SourceType
	URL      string
	Selector string
}

// DefaultSources mirrors the feeds the blog job ships with.
func DefaultSources() []Source {
	return []Source{
		{Type: SourceRSS, URL: "https://www.artificialintelligence-news.com/feed/"},
		{Type: SourceRSS, URL: "https://venturebeat.com/category/ai/feed/"},
		{Type: SourceWeb, URL: "https://www.techcrunch.com/category/artificial-intelligence", Selector: "article"},
	}
}

// dateSelectors is probed in order when a scraped article carries no obvious
// publish date.
var dateSelectors = []string{".date", ".post-date", ".article-date", "time", "[datetime]", ".published-date"}

var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Aggregator fans in articles from every configured source, one source at a
// time, and produces a deduplicated, recency-sorted, capped list. It holds no
// persistent state.
type Aggregator struct {
	httpClient *http.Client
	feedParser *gofeed.Parser
	sources    []Source
	now        func() time.Time
	logger     *zap.Logger
}

func NewAggregator(sources []Source, timeout time.Duration, proxy string, logger *zap.Logger) (*Aggregator, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	feedParser := gofeed.NewParser()
	feedParser.Client = httpClient
	feedParser.UserAgent = "ainav-bloggen/1.0"

	return &Aggregator{
		httpClient: httpClient,
		feedParser: feedParser,
		sources:    sources,
		now:        time.Now,
		logger:     logger,
	}, nil
}

// Collect gathers articles published within the rolling window from every
// source. A failing source is logged and skipped; it never aborts the others.
func (a *Aggregator) Collect(ctx context.Context) []domain.RawArticle {
	cutoff := a.now().Add(-constants.AggregateConfig.Window)
	all := make([]domain.RawArticle, 0)

	for _, source := range a.sources {
		var (
			articles []domain.RawArticle
			err      error
		)

		switch source.Type {
		case SourceRSS:
			articles, err = a.collectRSS(ctx, source, cutoff)
		case SourceWeb:
			articles, err = a.collectWeb(ctx, source, cutoff)
		default:
			a.logger.Warn("Unknown source type",
				zap.String("type", string(source.Type)),
				zap.String("url", source.URL),
			)
			continue
		}

		if err != nil {
			a.logger.Error("Source fetch failed",
				zap.String("url", source.URL),
				zap.Error(err),
			)
			continue
		}

		a.logger.Info("Source collected",
			zap.String("url", source.URL),
			zap.Int("articles", len(articles)),
		)
		all = append(all, articles...)
	}

	return Finalize(all)
}

func (a *Aggregator) collectRSS(ctx context.Context, source Source, cutoff time.Time) ([]domain.RawArticle, error) {
	feed, err := util.WithRetry(ctx, a.logger, "fetch rss "+source.URL,
		constants.RetryConfig.MaxAttempts, constants.RetryConfig.BaseDelay,
		func(ctx context.Context) (*gofeed.Feed, error) {
			return a.feedParser.ParseURLWithContext(source.URL, ctx)
		})
	if err != nil {
		return nil, err
	}

	articles := make([]domain.RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.PublishedParsed == nil || item.PublishedParsed.Before(cutoff) {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		articles = append(articles, domain.RawArticle{
			Title:   item.Title,
			Content: content,
			Link:    item.Link,
			PubDate: *item.PublishedParsed,
			Source:  feed.Title,
		})
	}

	return articles, nil
}

func (a *Aggregator) collectWeb(ctx context.Context, source Source, cutoff time.Time) ([]domain.RawArticle, error) {
	doc, err := util.WithRetry(ctx, a.logger, "fetch page "+source.URL,
		constants.RetryConfig.MaxAttempts, constants.RetryConfig.BaseDelay,
		func(ctx context.Context) (*goquery.Document, error) {
			return a.fetchDocument(ctx, source.URL)
		})
	if err != nil {
		return nil, err
	}

	articles := make([]domain.RawArticle, 0)
	doc.Find(source.Selector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find("h2").Text())
		link, _ := sel.Find("a").Attr("href")
		summary := strings.TrimSpace(sel.Find("p").Text())

		pubDate := a.extractDate(sel)

		if title == "" || link == "" || pubDate.Before(cutoff) {
			return
		}

		articles = append(articles, domain.RawArticle{
			Title:   title,
			Content: summary,
			Link:    link,
			PubDate: pubDate,
			Source:  source.URL,
		})
	})

	return articles, nil
}

func (a *Aggregator) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "ainav-bloggen/1.0")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// extractDate probes the candidate selectors in order, taking the first one
// whose text or datetime attribute parses. Articles without a parseable date
// count as published now.
func (a *Aggregator) extractDate(sel *goquery.Selection) time.Time {
	for _, selector := range dateSelectors {
		dateElement := sel.Find(selector)
		if dateElement.Length() == 0 {
			continue
		}

		dateText := strings.TrimSpace(dateElement.First().Text())
		if dateText == "" {
			dateText, _ = dateElement.First().Attr("datetime")
		}
		if dateText == "" {
			continue
		}

		if parsed, ok := parseDate(dateText); ok {
			return parsed
		}
	}

	return a.now()
}

func parseDate(text string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Finalize deduplicates by (title, link) keeping the first occurrence, sorts
// by publish date descending, and caps the result.
func Finalize(articles []domain.RawArticle) []domain.RawArticle {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]domain.RawArticle, 0, len(articles))
	for _, article := range articles {
		key := article.DedupeKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, article)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].PubDate.After(unique[j].PubDate)
	})

	if len(unique) > constants.AggregateConfig.MaxArticles {
		unique = unique[:constants.AggregateConfig.MaxArticles]
	}

	return unique
}
