package constants

import "time"

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}{
	MaxAttempts: 3,
	BaseDelay:   2 * time.Second,
	Multiplier:  1.5,
}

var AggregateConfig = struct {
	Window      time.Duration
	MaxArticles int
}{
	Window:      24 * time.Hour,
	MaxArticles: 20,
}

var PipelineConfig = struct {
	MaxDigestChars    int
	MaxSummaryChars   int
	MaxExcerptChars   int
	MaxTokens         int
	TranslatePause    time.Duration
	TranslateAttempts int
	FilterTemperature float64
	DraftTemperature  float64
	TranslateTemp     float64
}{
	MaxDigestChars:    12000,
	MaxSummaryChars:   300,
	MaxExcerptChars:   200,
	MaxTokens:         2048,
	TranslatePause:    1 * time.Second,
	TranslateAttempts: 2,
	FilterTemperature: 0.5,
	DraftTemperature:  0.7,
	TranslateTemp:     0.3,
}

var CacheTTL = struct {
	ScrapeResult time.Duration
}{
	ScrapeResult: 24 * time.Hour,
}

// PostStatusPublished is the blog_post.status code consumed by the site.
const PostStatusPublished = 2

const DefaultLanguage = "en"
