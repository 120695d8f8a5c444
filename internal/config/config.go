package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	StoreDriver  string
	DatabaseURL  string
	DatabaseName string
	RedisURL     string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	RateLimitChat    time.Duration
	RateLimitRequest time.Duration
	RateLimitIPRPS   float64
	RateLimitIPBurst int

	ReindexSchedule      string
	LimiterSweepSchedule string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		StoreDriver:  getEnv("STORE_DRIVER", StoreMongo),
		DatabaseURL:  getEnv("DATABASE_URL", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "collab"),
		RedisURL:     os.Getenv("REDIS_URL"),

		MeiliSearchHost: normalizeMeiliHost(os.Getenv("MEILISEARCH_HOST")),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "collab_projects"),

		ReindexSchedule:      getEnv("JOB_REINDEX_SCHEDULE", "@every 1h"),
		LimiterSweepSchedule: getEnv("JOB_LIMITER_SWEEP_SCHEDULE", "@every 1m"),
	}

	var err error
	cfg.RateLimitChat, err = parseDuration(getEnv("RATE_LIMIT_CHAT", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_CHAT: %w", err)
	}
	cfg.RateLimitRequest, err = parseDuration(getEnv("RATE_LIMIT_REQUEST", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUEST: %w", err)
	}
	cfg.RateLimitIPRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_IP_RPS", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_IP_RPS: %w", err)
	}
	cfg.RateLimitIPBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_IP_BURST", "40"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_IP_BURST: %w", err)
	}

	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required with the mongo store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, StoreMongo, StoreMemory)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// normalizeMeiliHost accepts a bare host name the way docker-compose service
// names are usually given. An empty host stays empty.
func normalizeMeiliHost(host string) string {
	if host == "" || strings.HasPrefix(host, "http") {
		return host
	}
	return "http://" + host + ":7700"
}
