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
}

// JWTConfig provides JWT validation settings for middleware. Token issuance
// lives in the external auth subsystem; this backend only validates.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetSweepInterval() time.Duration
}

// CallCenterConfig provides the assignment-engine business settings.
type CallCenterConfig interface {
	GetMaxAttempts() int
	GetStaleLeadThreshold() time.Duration
	GetClaimRetries() int
	GetAgentTimezone() *time.Location
	GetDefaultPhoneRegion() string
}

// PresenceConfig provides settings for the Redis agent-presence store.
type PresenceConfig interface {
	GetRedisURL() string
	GetPresenceTTL() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	JWTAccessSecret    string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	RedisURL           string
	RedisTLSInsecure   bool
	AsynqQueueName     string
	AsynqConcurrency   int
	SweepInterval      time.Duration
	MaxAttempts        int
	StaleLeadThreshold time.Duration
	ClaimRetries       int
	AgentTimezone      *time.Location
	DefaultPhoneRegion string
	PresenceTTL        time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string              { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool        { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string        { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int         { return c.AsynqConcurrency }
func (c *Config) GetSweepInterval() time.Duration  { return c.SweepInterval }

// CallCenterConfig implementation
func (c *Config) GetMaxAttempts() int                   { return c.MaxAttempts }
func (c *Config) GetStaleLeadThreshold() time.Duration  { return c.StaleLeadThreshold }
func (c *Config) GetClaimRetries() int                  { return c.ClaimRetries }
func (c *Config) GetAgentTimezone() *time.Location      { return c.AgentTimezone }
func (c *Config) GetDefaultPhoneRegion() string         { return c.DefaultPhoneRegion }

// PresenceConfig implementation
func (c *Config) GetPresenceTTL() time.Duration { return c.PresenceTTL }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	tzName := getEnv("AGENT_TIMEZONE", "America/Mexico_City")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid AGENT_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTAccessSecret:    getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisTLSInsecure:   strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:     getEnv("ASYNQ_QUEUE", "callcenter"),
		AsynqConcurrency:   mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		SweepInterval:      mustDuration(getEnv("SWEEP_INTERVAL", "10m")),
		MaxAttempts:        mustInt(getEnv("MAX_ATTEMPTS", "6")),
		StaleLeadThreshold: mustDuration(getEnv("STALE_LEAD_THRESHOLD", "30m")),
		ClaimRetries:       mustInt(getEnv("CLAIM_RETRIES", "3")),
		AgentTimezone:      tz,
		DefaultPhoneRegion: getEnv("DEFAULT_PHONE_REGION", "MX"),
		PresenceTTL:        mustDuration(getEnv("PRESENCE_TTL", "5m")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("MAX_ATTEMPTS must be at least 1")
	}
	if cfg.ClaimRetries < 1 {
		return nil, fmt.Errorf("CLAIM_RETRIES must be at least 1")
	}
	if cfg.StaleLeadThreshold <= 0 {
		return nil, fmt.Errorf("STALE_LEAD_THRESHOLD must be positive")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
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
	result, err := strconv.Atoi(value)
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
