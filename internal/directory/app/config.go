package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string        // Issuer claim for session tokens (default: synkcrm-directory)
	SigningKeyFile string        // Optional: PEM Ed25519 key; empty means an ephemeral key per process
	SessionTTL     time.Duration // Session token lifetime (default: 15m)
	SeedDemo       bool          // Seed the demo accounts into an empty directory (default: true)

	DatabaseFile string // Path to SQLite database file (default: ./directory.db)
	PepperFile   string // Path to password pepper file (default: ./pepper)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session cleanup interval (default: 1h)
}

func LoadConfig() Config {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	return Config{
		Issuer:               getEnvOrDefault("DIRECTORY_ISSUER", "synkcrm-directory"),
		SigningKeyFile:       os.Getenv("DIRECTORY_SIGNING_KEY_FILE"),
		SessionTTL:           getEnvDurationOrDefault("DIRECTORY_SESSION_TTL", 15*time.Minute),
		SeedDemo:             getEnvBoolOrDefault("DIRECTORY_SEED_DEMO", true),
		DatabaseFile:         getEnvOrDefault("DIRECTORY_DATABASE_FILE", "directory.db"),
		PepperFile:           getEnvOrDefault("DIRECTORY_PEPPER_FILE", "pepper"),
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are taken as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
