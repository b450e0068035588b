package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service, loaded from the
// environment (with an optional .env file for local development).
type Config struct {
	// Server
	ServerHost  string
	ServerPort  string
	Environment string

	// Persistence and cache
	DatabaseURL  string
	RedisURL     string
	CacheEnabled bool
	CacheTTL     time.Duration

	// Dashboard auth
	JWTSecret      string
	AccessTokenTTL time.Duration

	// CRM event feed
	CRMBaseURL         string
	CRMAccessToken     string
	FeedPageSize       int
	FeedMaxPages       int
	FeedRequestTimeout time.Duration

	// Business-hours defaults, used until settings are saved
	BusinessTimezone  string
	BusinessStartHour int
	BusinessEndHour   int
	BusinessDays      []int
	SLAMinutes        int

	// Pairing fan-out
	ReportMaxConcurrency int

	// Logging
	LogLevel  string
	LogFormat string
}

var (
	ErrMissingDatabaseURL    = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret      = errors.New("JWT_SECRET is required")
	ErrMissingCRMBaseURL     = errors.New("CRM_BASE_URL is required")
	ErrMissingCRMAccessToken = errors.New("CRM_ACCESS_TOKEN is required")
)

// Load reads configuration from the environment
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerHost:  getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		Environment: getEnvOrDefault("ENV", "development"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		CacheEnabled: getEnvOrDefaultBool("REPORT_CACHE_ENABLED", true),
		CacheTTL:     getEnvOrDefaultDuration("REPORT_CACHE_TTL", 5*time.Minute),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: getEnvOrDefaultDuration("ACCESS_TOKEN_TTL", 15*time.Minute),

		CRMBaseURL:         os.Getenv("CRM_BASE_URL"),
		CRMAccessToken:     os.Getenv("CRM_ACCESS_TOKEN"),
		FeedPageSize:       getEnvOrDefaultInt("CRM_PAGE_SIZE", 100),
		FeedMaxPages:       getEnvOrDefaultInt("CRM_MAX_PAGES", 50),
		FeedRequestTimeout: getEnvOrDefaultDuration("CRM_REQUEST_TIMEOUT", 10*time.Second),

		BusinessTimezone:  getEnvOrDefault("BUSINESS_TIMEZONE", "UTC"),
		BusinessStartHour: getEnvOrDefaultInt("BUSINESS_START_HOUR", 8),
		BusinessEndHour:   getEnvOrDefaultInt("BUSINESS_END_HOUR", 18),
		BusinessDays:      getEnvOrDefaultInts("BUSINESS_DAYS", []int{1, 2, 3, 4, 5}),
		SLAMinutes:        getEnvOrDefaultInt("SLA_MINUTES", 10),

		ReportMaxConcurrency: getEnvOrDefaultInt("REPORT_MAX_CONCURRENCY", 8),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.CRMBaseURL == "" {
		return ErrMissingCRMBaseURL
	}
	if c.CRMAccessToken == "" {
		return ErrMissingCRMAccessToken
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvOrDefaultInts(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	parsed := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		parsed = append(parsed, n)
	}
	return parsed
}
