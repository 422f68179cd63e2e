package config

import (
	"time"

	"golang-sentiment-scryper/pkg/config"
)

// NewsAPI holds the configuration for the NewsAPI provider.
type NewsAPI struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	PageSize            int           `mapstructure:"page_size"`
	Language            string        `mapstructure:"language"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// YouTube holds the configuration for the YouTube Data API.
type YouTube struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Region              string        `mapstructure:"region"`
	MaxDaysOld          int           `mapstructure:"max_days_old"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// Classifier holds the configuration of the chat backend used for sentiment
// classification. Provider is one of ollama, openai, gemini or vader.
type Classifier struct {
	Provider            string        `mapstructure:"provider"`
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	DefaultModel        string        `mapstructure:"default_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MemoTTL             time.Duration `mapstructure:"memo_ttl"`
}

// Cache holds result cache settings.
type Cache struct {
	VideoTTL time.Duration `mapstructure:"video_ttl"`
}

// Scheduler holds the cron specs of background jobs.
type Scheduler struct {
	IndexReloadCron string `mapstructure:"index_reload_cron"`
	CachePurgeCron  string `mapstructure:"cache_purge_cron"`
}

// Config holds the full configuration for the analyzer service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	NATS       config.NATS     `mapstructure:"nats"`
	API        config.API      `mapstructure:"api"`
	NewsAPI    NewsAPI         `mapstructure:"news_api"`
	YouTube    YouTube         `mapstructure:"youtube"`
	Classifier Classifier      `mapstructure:"classifier"`
	Cache      Cache           `mapstructure:"cache"`
	Scheduler  Scheduler       `mapstructure:"scheduler"`
}

var defaults = map[string]interface{}{
	"app.name":                          "analyzer-service",
	"logger.level":                      "info",
	"logger.encoding":                   "json",
	"api.port":                          8080,
	"database.ssl_mode":                 "disable",
	"news_api.base_url":                 "https://newsapi.org/v2",
	"news_api.page_size":                100,
	"news_api.language":                 "en",
	"news_api.timeout":                  "30s",
	"news_api.max_request_per_minute":   60,
	"youtube.base_url":                  "https://www.googleapis.com/youtube/v3",
	"youtube.region":                    "us",
	"youtube.max_days_old":              30,
	"youtube.timeout":                   "30s",
	"youtube.max_request_per_minute":    60,
	"classifier.provider":               "ollama",
	"classifier.base_url":               "http://localhost:11434",
	"classifier.default_model":          "gemma3:1b",
	"classifier.timeout":                "300s",
	"classifier.max_request_per_minute": 600,
	"classifier.memo_ttl":               "168h",
	"cache.video_ttl":                   "1h",
	"scheduler.index_reload_cron":       "@every 30m",
	"scheduler.cache_purge_cron":        "@every 10m",
	"nats.subject":                      "sentiment.results",
}

// Load loads the analyzer configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults); err != nil {
		return nil, err
	}
	return &cfg, nil
}
