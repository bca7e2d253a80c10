// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetDBMaxConns() int
	GetDBMinConns() int
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetPublicInquiryRatePerMin() int
}

// RedisConfig provides the connection used by caches.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the asynq reminder queue.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// CatalogConfig provides settings for property search.
type CatalogConfig interface {
	GetCatalogCacheTTL() time.Duration
	GetCatalogQueryMode() string
}

// FavoritesConfig provides settings for the favorite ledger.
type FavoritesConfig interface {
	GetFavoritesCacheTTL() time.Duration
}

// LeadsConfig provides settings for lead intake.
type LeadsConfig interface {
	GetPhoneDefaultRegion() string
}

// TourConfig provides settings for tour scheduling.
type TourConfig interface {
	GetTourReminderLeadTime() time.Duration
	GetTourRejectPastDates() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	HTTPAddr                string
	DatabaseURL             string
	DBMaxConns              int
	DBMinConns              int
	MigrationsDir           string
	JWTAccessSecret         string
	CORSAllowAll            bool
	CORSOrigins             []string
	CORSAllowCreds          bool
	PublicInquiryRatePerMin int
	RedisURL                string
	RedisTLSInsecure        bool
	AsynqQueueName          string
	AsynqConcurrency        int
	CatalogCacheTTL         time.Duration
	CatalogQueryMode        string
	FavoritesCacheTTL       time.Duration
	PhoneDefaultRegion      string
	TourReminderLeadTime    time.Duration
	TourRejectPastDates     bool
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }
func (c *Config) GetDBMaxConns() int      { return c.DBMaxConns }
func (c *Config) GetDBMinConns() int      { return c.DBMinConns }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string             { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool           { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string        { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool         { return c.CORSAllowCreds }
func (c *Config) GetPublicInquiryRatePerMin() int { return c.PublicInquiryRatePerMin }

// RedisConfig / SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsRedisEnabled() bool      { return c.RedisURL != "" }

// CatalogConfig implementation
func (c *Config) GetCatalogCacheTTL() time.Duration { return c.CatalogCacheTTL }
func (c *Config) GetCatalogQueryMode() string       { return c.CatalogQueryMode }

// FavoritesConfig implementation
func (c *Config) GetFavoritesCacheTTL() time.Duration { return c.FavoritesCacheTTL }

// LeadsConfig implementation
func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }

// TourConfig implementation
func (c *Config) GetTourReminderLeadTime() time.Duration { return c.TourReminderLeadTime }
func (c *Config) GetTourRejectPastDates() bool           { return c.TourRejectPastDates }

const (
	// QueryModePushdown evaluates filters inside the catalog store.
	QueryModePushdown = "pushdown"
	// QueryModeEngine fetches the catalog and filters in process.
	QueryModeEngine = "engine"
)

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		DBMaxConns:              mustInt(getEnv("DB_MAX_CONNS", "25")),
		DBMinConns:              mustInt(getEnv("DB_MIN_CONNS", "5")),
		MigrationsDir:           getEnv("MIGRATIONS_DIR", "migrations"),
		JWTAccessSecret:         getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:            corsAllowAll,
		CORSOrigins:             corsOrigins,
		CORSAllowCreds:          strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		PublicInquiryRatePerMin: mustInt(getEnv("PUBLIC_INQUIRY_RATE_PER_MIN", "10")),
		RedisURL:                getEnv("REDIS_URL", ""),
		RedisTLSInsecure:        strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:          getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:        mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		CatalogCacheTTL:         mustDuration(getEnv("CATALOG_CACHE_TTL", "2m")),
		CatalogQueryMode:        strings.ToLower(getEnv("CATALOG_QUERY_MODE", QueryModePushdown)),
		FavoritesCacheTTL:       mustDuration(getEnv("FAVORITES_CACHE_TTL", "30m")),
		PhoneDefaultRegion:      strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "US")),
		TourReminderLeadTime:    mustDuration(getEnv("TOUR_REMINDER_LEAD_TIME", "24h")),
		TourRejectPastDates:     strings.EqualFold(getEnv("TOUR_REJECT_PAST_DATES", "false"), "true"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if c.CatalogQueryMode != QueryModePushdown && c.CatalogQueryMode != QueryModeEngine {
		return fmt.Errorf("CATALOG_QUERY_MODE must be %q or %q", QueryModePushdown, QueryModeEngine)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
