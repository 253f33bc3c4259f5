package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataDir             string `envconfig:"DATA_DIR" default:"data" validate:"required"`
	CarModel            string `envconfig:"CAR_MODEL"`
	ExcludeKeywordsFile string `envconfig:"EXCLUDE_KEYWORDS_FILE" default:"exclude_keywords.txt"`
	FilterFile          string `envconfig:"FILTER_FILE"`
	ExportPath          string `envconfig:"EXPORT_PATH"`
	LogLevel            string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	LoadConcurrency int `envconfig:"LOAD_CONCURRENCY" default:"4" validate:"min=1,max=64"`

	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432" validate:"numeric"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"dashboard"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"dashboard"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"car_dashboard"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	SQLitePath       string `envconfig:"SQLITE_PATH" default:"output/car_dashboard.db"`

	ScrapeStartURL  string `envconfig:"SCRAPE_START_URL" validate:"omitempty,url"`
	MaxConcurrency  int    `envconfig:"MAX_CONCURRENCY" default:"3" validate:"min=1"`
	RateLimitMs     int    `envconfig:"RATE_LIMIT_MS" default:"2000" validate:"min=0"`
	MaxRetries      int    `envconfig:"MAX_RETRIES" default:"3" validate:"min=1"`
	PagesToScrape   int    `envconfig:"PAGES_TO_SCRAPE" default:"2" validate:"min=1"`
	ListingsPerPage int    `envconfig:"LISTINGS_PER_PAGE" default:"30" validate:"min=1"`
	ChromeBin       string `envconfig:"CHROME_BIN"`
}

// Load reads the .env file, then environment variables, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// RateLimit returns the minimum spacing between scraper page loads.
func (c *Config) RateLimit() time.Duration {
	return time.Duration(c.RateLimitMs) * time.Millisecond
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
