// Package config loads service settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RoutingConfig struct {
	Provider      string
	OSRMBaseURL   string
	OSRMProfile   string
	GoogleAPIKey  string
	Timeout       time.Duration
	BreakerConfig BreakerConfig
}

type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
	Interval    time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type DBConfig struct {
	Driver      string
	Path        string
	DatabaseURL string
	SeedPath    string
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	Port      string
	Routing   RoutingConfig
	RateLimit RateLimitConfig
	DB        DBConfig
	Log       LogConfig
	Tracing   struct {
		Exporter string
	}
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	var cfg Config
	cfg.Port = Get("PORT", "8080")

	cfg.Routing.Provider = strings.ToLower(Get("ROUTING_PROVIDER", "osrm"))
	cfg.Routing.OSRMBaseURL = strings.TrimRight(Get("OSRM_BASE_URL", "http://router.project-osrm.org"), "/")
	cfg.Routing.OSRMProfile = Get("OSRM_PROFILE", "driving")
	cfg.Routing.GoogleAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.Routing.Timeout = GetDuration("ROUTING_TIMEOUT", 10*time.Second)
	cfg.Routing.BreakerConfig.MaxFailures = uint32(GetInt("BREAKER_MAX_FAILURES", 5))
	cfg.Routing.BreakerConfig.OpenTimeout = GetDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second)
	cfg.Routing.BreakerConfig.Interval = GetDuration("BREAKER_INTERVAL", 60*time.Second)

	cfg.RateLimit.RPS = GetFloat("RATE_LIMIT_RPS", 0)
	cfg.RateLimit.Burst = GetInt("RATE_LIMIT_BURST", 10)

	cfg.DB.Driver = strings.ToLower(os.Getenv("DB_DRIVER"))
	if cfg.DB.Driver == "postgres" || cfg.DB.Driver == "postgresql" {
		cfg.DB.Driver = "pgx"
	}
	cfg.DB.Path = Get("DB_PATH", "data/app.db")
	cfg.DB.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.DB.SeedPath = Get("SEED_PATH", "data/seeds/roster.json")

	cfg.Log.Level = Get("LOG_LEVEL", "info")
	cfg.Log.Format = Get("LOG_FORMAT", "text")
	cfg.Tracing.Exporter = Get("TRACING_EXPORTER", "none")

	return cfg
}

// DSN returns the data source name for the configured roster database driver.
func (c DBConfig) DSN() string {
	if c.Driver == "pgx" {
		return c.DatabaseURL
	}
	return c.Path
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
