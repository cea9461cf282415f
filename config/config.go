package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	InputPath string
	BaseURL   string
	UserAgent string
	FetchMode string
	ChromeBin string

	RequestTimeoutMs int
	MaxRetries       int
	RetryDelayMs     int
	PageDelayMs      int
	PageSize         int

	SnapshotDir string
	OutputDir   string
	WriteXLSX   bool

	LogFile  string
	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "hotel_reviews"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		InputPath: getEnv("INPUT_PATH", "hotels.txt"),
		BaseURL:   strings.TrimRight(getEnv("BASE_URL", "https://www.booking.com"), "/"),
		UserAgent: getEnv("USER_AGENT", defaultUserAgent),
		FetchMode: strings.ToLower(getEnv("FETCH_MODE", "http")),
		ChromeBin: getEnv("CHROME_BIN", ""),

		RequestTimeoutMs: getEnvInt("REQUEST_TIMEOUT_MS", 30000),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
		RetryDelayMs:     getEnvInt("RETRY_DELAY_MS", 2000),
		PageDelayMs:      getEnvInt("PAGE_DELAY_MS", 1500),
		PageSize:         getEnvInt("PAGE_SIZE", 25),

		SnapshotDir: getEnv("SNAPSHOT_DIR", "hotel_data_snapshots"),
		OutputDir:   getEnv("OUTPUT_DIR", "."),
		WriteXLSX:   getEnvBool("WRITE_XLSX", true),

		LogFile:  getEnv("LOG_FILE", "scraping_log.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
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

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
