package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ainav/content-jobs/pkg/errors"
	"github.com/joho/godotenv"
)

type Config struct {
	Scrape   ScrapeConfig
	Chat     ChatConfig
	Gemini   GeminiConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Crawler  CrawlerConfig
	Blog     BlogConfig
	Logging  LoggingConfig
}

type ScrapeConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
	// TagHints is sent with every crawl request to bias category detection.
	TagHints []string
}

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Proxy   string
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	EnableFallback bool
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CrawlerConfig struct {
	QueueFile    string
	MaxPerRun    int
	MinDelay     time.Duration
	MaxDelay     time.Duration
	CacheResults bool
}

type BlogConfig struct {
	// NativeLanguage is the language the draft stage writes in. Its content is
	// stored as a translation entry; English occupies the primary columns.
	NativeLanguage  string
	TargetLanguages []string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Scrape: ScrapeConfig{
			APIURL:   getEnv("SCRAPE_API_URL", "http://127.0.0.1:8040/site/crawl"),
			APIKey:   getEnv("SCRAPE_API_KEY", ""),
			Timeout:  time.Duration(getEnvInt("SCRAPE_TIMEOUT_SECONDS", 30)) * time.Second,
			TagHints: parseCommaSeparated(getEnv("SCRAPE_TAG_HINTS", "ai-detector,chatbot,text-writing,image,code-it")),
		},
		Chat: ChatConfig{
			BaseURL: getEnv("CHAT_API_BASE_URL", "https://api.x.ai/v1"),
			APIKey:  getEnv("XAI_API_KEY", ""),
			Model:   getEnv("CHAT_MODEL", "grok-2"),
			Timeout: time.Duration(getEnvInt("CHAT_TIMEOUT_SECONDS", 60)) * time.Second,
			Proxy:   getEnv("HTTPS_PROXY", ""),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			EnableFallback: getEnvBool("GEMINI_ENABLE_FALLBACK", true),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnvInt("PG_PORT", 5432),
			User:     getEnv("PG_USER", "postgres"),
			Password: getEnv("PG_PASSWORD", ""),
			Database: getEnv("PG_DATABASE", "ainav"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Crawler: CrawlerConfig{
			QueueFile:    getEnv("CRAWLER_QUEUE_FILE", "ai_source_list/ai_tools_list.csv"),
			MaxPerRun:    getEnvInt("CRAWLER_MAX_PER_RUN", 50),
			MinDelay:     time.Duration(getEnvInt("CRAWLER_MIN_DELAY_MS", 1000)) * time.Millisecond,
			MaxDelay:     time.Duration(getEnvInt("CRAWLER_MAX_DELAY_MS", 3000)) * time.Millisecond,
			CacheResults: getEnvBool("CRAWLER_CACHE_RESULTS", false),
		},
		Blog: BlogConfig{
			NativeLanguage:  getEnv("BLOG_NATIVE_LANGUAGE", "cn"),
			TargetLanguages: parseCommaSeparated(getEnv("BLOG_TARGET_LANGUAGES", "cn,tw,jp,es")),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scrape.APIURL == "" {
		return errors.NewJobError("SCRAPE_API_URL is required", errors.CodeValidation, nil)
	}
	if c.Postgres.Host == "" {
		return errors.NewJobError("PG_HOST is required", errors.CodeValidation, nil)
	}
	if c.Postgres.Database == "" {
		return errors.NewJobError("PG_DATABASE is required", errors.CodeValidation, nil)
	}
	if c.Crawler.MaxPerRun <= 0 {
		return errors.NewJobError("CRAWLER_MAX_PER_RUN must be positive", errors.CodeValidation, nil)
	}
	if c.Crawler.MinDelay > c.Crawler.MaxDelay {
		return errors.NewJobError("CRAWLER_MIN_DELAY_MS must not exceed CRAWLER_MAX_DELAY_MS", errors.CodeValidation, nil)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
