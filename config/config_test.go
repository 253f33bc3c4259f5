package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.LoadConcurrency)
	assert.Equal(t, 2*time.Second, cfg.RateLimit())
	assert.Equal(t, "output/car_dashboard.db", cfg.SQLitePath)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/listings")
	t.Setenv("CAR_MODEL", "GR86")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_MS", "500")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/srv/listings", cfg.DataDir)
	assert.Equal(t, "GR86", cfg.CarModel)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit())
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"zero load workers", "LOAD_CONCURRENCY", "0"},
		{"bad start url", "SCRAPE_START_URL", "not a url"},
		{"non-numeric port", "POSTGRES_PORT", "five"},
		{"malformed int", "MAX_RETRIES", "three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "cars",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=cars sslmode=disable", cfg.DSN())
}
