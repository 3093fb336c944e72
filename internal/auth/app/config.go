package app

import (
	"os"
	"strconv"
	"time"

	"github.com/northbndlabs/gatekeeper/pkg/jwtx"
)

type Config struct {
	Issuer      string // Optional: issuer claim for tokens (default: gatekeeper)
	TokenSecret string // Required: shared HS256 signing secret

	AccessTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 6h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	RevocationBackend string // Optional: revocation list backend (memory, redis) (default: memory)
	RedisAddr         string // Optional: redis address (default: localhost:6379)
	RedisPassword     string // Optional: redis password
	RedisDB           int    // Optional: redis database number (default: 0)

	BootstrapUsername string // Optional: initial admin account seeded into an empty store
	BootstrapPassword string // Optional: initial admin password, required with BootstrapUsername
	BootstrapEmail    string // Optional: initial admin email

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:      getEnvOrDefault("AUTH_ISSUER", "gatekeeper"),
		TokenSecret: os.Getenv("AUTH_TOKEN_SECRET"),

		AccessTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		RevocationBackend: getEnvOrDefault("AUTH_REVOCATION_BACKEND", "memory"),
		RedisAddr:         getEnvOrDefault("AUTH_REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:           getEnvIntOrDefault("AUTH_REDIS_DB", 0),

		BootstrapUsername: os.Getenv("AUTH_BOOTSTRAP_USERNAME"),
		BootstrapPassword: os.Getenv("AUTH_BOOTSTRAP_PASSWORD"),
		BootstrapEmail:    os.Getenv("AUTH_BOOTSTRAP_EMAIL"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
