// Package config loads service configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config carries every tunable of the ingestion service. All values have
// working defaults except the connection strings, which select between
// live and in-memory/offline collaborators when absent.
type Config struct {
	// Stores
	DatabaseURL   string // PostgreSQL DSN; empty selects the in-memory store
	ClickhouseDSN string // run-history sink; empty disables run history

	// Registrar API
	RegistrarURL    string // empty selects the offline stub checker
	RegistrarKey    string
	RegistrarSecret string
	RegistrarRPS    float64
	LookupTimeout   time.Duration

	// Availability cache
	RedisAddr     string // empty disables the lookup cache
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Pipeline
	AcceptedTLD  string
	SampleWindow int
	MaxSelected  int
	Concurrency  int
	ChunkDelay   time.Duration

	// Observability and logging
	MetricsAddr string
	LogFile     string // empty logs to stdout only
	LogLevel    string
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	cfg := Config{}

	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.ClickhouseDSN = getEnv("CLICKHOUSE_DSN", "")

	cfg.RegistrarURL = getEnv("REGISTRAR_URL", "")
	cfg.RegistrarKey = getEnv("REGISTRAR_API_KEY", "")
	cfg.RegistrarSecret = getEnv("REGISTRAR_API_SECRET", "")
	cfg.RegistrarRPS = getEnvFloat("REGISTRAR_RPS", 10)
	cfg.LookupTimeout = getEnvDuration("LOOKUP_TIMEOUT", 15*time.Second)

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", 15*time.Minute)

	cfg.AcceptedTLD = getEnv("ACCEPTED_TLD", ".com")
	cfg.SampleWindow = getEnvInt("SAMPLE_WINDOW", 1000)
	cfg.MaxSelected = getEnvInt("MAX_SELECTED", 50)
	cfg.Concurrency = getEnvInt("CHECK_CONCURRENCY", 5)
	cfg.ChunkDelay = getEnvDuration("CHUNK_DELAY", time.Second)

	cfg.MetricsAddr = getEnv("METRICS_ADDR", ":9090")
	cfg.LogFile = getEnv("LOG_FILE", "")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg
}

// SlogLevel maps the configured level name to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment", "key", key, "value", v)
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid float in environment", "key", key, "value", v)
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment", "key", key, "value", v)
		return defaultVal
	}
	return d
}
