package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxLife  time.Duration

	QueueCapacity int
	QueueWorkers  int

	ResultsRefreshInterval time.Duration
	ResultsCacheTTL        time.Duration
	StatusTTL              time.Duration
	VotedSetTTL            time.Duration
}

func Load() (Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "votehub"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 16),
		DBMaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 8),
		DBConnMaxLife:  envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		QueueCapacity: envInt("VOTE_QUEUE_CAPACITY", 1024),
		QueueWorkers:  envInt("VOTE_QUEUE_WORKERS", 4),

		ResultsRefreshInterval: envDuration("RESULTS_REFRESH_INTERVAL", 30*time.Second),
		ResultsCacheTTL:        envDuration("RESULTS_CACHE_TTL", 30*time.Second),
		StatusTTL:              envDuration("VOTE_STATUS_TTL", time.Hour),
		VotedSetTTL:            envDuration("VOTED_SET_TTL", 30*24*time.Hour),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
