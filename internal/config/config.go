package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// defaultTopicID is the Google News topic the ingester was built around.
// It can be overridden per run via TOPIC_ID or the --topic-id flag.
const defaultTopicID = "CAAqIggKIhxDQkFTRHdvSkwyMHZNRFF5Y214bUVnSmhjaWdBUAE"

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseURL string

	// Headline feed
	TopicID      string
	TopicTitle   string
	FeedLanguage string
	FeedCountry  string
	EntryLimit   int
	DumpDir      string

	// Redirect resolution
	ResolverSettle  time.Duration
	ResolverTimeout time.Duration
	ScraperHeadless bool

	// Content extraction
	FetchTimeout time.Duration

	// Server (serve mode)
	Port            int
	FeedTitle       string
	FeedDescription string
	FeedLink        string
	FeedAuthor      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		TopicID:         getEnv("TOPIC_ID", defaultTopicID),
		TopicTitle:      getEnv("TOPIC_TITLE", "alhilal"),
		FeedLanguage:    getEnv("FEED_LANG", "ar"),
		FeedCountry:     getEnv("FEED_COUNTRY", "SA"),
		EntryLimit:      getEnvAsInt("ENTRY_LIMIT", 50),
		DumpDir:         getEnv("DUMP_DIR", "."),
		ResolverSettle:  getEnvAsDuration("RESOLVER_SETTLE", 5*time.Second),
		ResolverTimeout: getEnvAsDuration("RESOLVER_TIMEOUT", 30*time.Second),
		ScraperHeadless: getEnvAsBool("SCRAPER_HEADLESS", true),
		FetchTimeout:    getEnvAsDuration("FETCH_TIMEOUT", 20*time.Second),
		Port:            getEnvAsInt("PORT", 8080),
		FeedTitle:       getEnv("FEED_TITLE", "Topicwire News Feed"),
		FeedDescription: getEnv("FEED_DESCRIPTION", "Articles ingested by topic"),
		FeedLink:        getEnv("FEED_LINK", "http://localhost:8080"),
		FeedAuthor:      getEnv("FEED_AUTHOR", "Topicwire"),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TopicID == "" {
		return nil, fmt.Errorf("TOPIC_ID is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
