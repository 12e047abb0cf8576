package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SecretKey string // Required: symmetric signing key for access tokens
	Algorithm string // Optional: JWT signing algorithm (HS256, HS384, HS512) (default: HS256)
	Issuer    string // Optional: issuer claim for tokens (default: srihealth-api)
	AccessTTL time.Duration // Optional: access token lifetime (default: 60 minutes)

	DatabaseFile string   // Optional: path to SQLite database file (default: ./srihealth.db)
	ModelPath    string   // Optional: path to trained model weights (default: ./addnet.bin)
	CORSOrigins  []string // Optional: allowed browser origins (default: http://localhost:5173)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// A local .env is convenient in development; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		SecretKey:    os.Getenv("SECRET_KEY"),
		Algorithm:    getEnvOrDefault("ALGORITHM", "HS256"),
		Issuer:       getEnvOrDefault("ISSUER", "srihealth-api"),
		AccessTTL:    getEnvDurationOrDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60*time.Minute),
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "srihealth.db"),
		ModelPath:    getEnvOrDefault("MODEL_PATH", "addnet.bin"),
		CORSOrigins: splitAndTrim(
			getEnvOrDefault("CORS_ORIGINS", "http://localhost:5173"),
		),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

func splitAndTrim(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
