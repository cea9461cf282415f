package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MAX_RETRIES", "PAGE_DELAY_MS", "PAGE_SIZE", "FETCH_MODE", "BASE_URL", "WRITE_XLSX"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.PageDelay())
	assert.Equal(t, "http", cfg.FetchMode)
	assert.Equal(t, "https://www.booking.com", cfg.BaseURL)
	assert.True(t, cfg.WriteXLSX)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("PAGE_DELAY_MS", "0")
	t.Setenv("FETCH_MODE", "Browser")
	t.Setenv("BASE_URL", "http://localhost:8080/")
	t.Setenv("WRITE_XLSX", "false")
	t.Setenv("POSTGRES_ENABLED", "not-a-bool")

	cfg := Load()

	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, time.Duration(0), cfg.PageDelay())
	assert.Equal(t, "browser", cfg.FetchMode)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.False(t, cfg.WriteXLSX)
	assert.False(t, cfg.PostgresEnabled)
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("MAX_RETRIES", "three")

	cfg := Load()

	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "reviews",
		PostgresSSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=reviews sslmode=disable", cfg.DSN())
}
