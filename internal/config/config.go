// Package config reads the server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"kls/internal/infrastructure/storage/codec"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds the server settings.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	StorageDriver string
	DatabaseURL   string
	MongoURL      string
	MongoDatabase string

	CORSOrigins []string

	// SummaryCron schedules the outstanding-credit summary; empty disables it.
	SummaryCron string

	// CompressThreshold is the snapshot size in bytes above which values are
	// zstd-compressed; 0 disables compression.
	CompressThreshold int
}

// Development reports whether the server runs in development mode.
func (c Config) Development() bool {
	return c.Env == "development"
}

// Load reads .env (when present) and then the process environment.
// Variables already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// FromEnv builds a Config from getenv, applying defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Env:           get("APP_ENV", "development"),
		Port:          get("APP_PORT", "8080"),
		LogLevel:      get("LOG_LEVEL", "info"),
		StorageDriver: strings.ToLower(get("STORAGE_DRIVER", DriverMemory)),
		DatabaseURL:   get("DATABASE_URL", ""),
		MongoURL:      get("MONGO_URL", ""),
		MongoDatabase: get("MONGO_DATABASE", "kls"),
		CORSOrigins:   splitList(get("CORS_ORIGINS", "http://localhost:5173")),
		SummaryCron:   get("SUMMARY_CRON", "0 20 * * *"),
	}
	if strings.EqualFold(cfg.SummaryCron, "off") {
		cfg.SummaryCron = ""
	}

	threshold := get("SNAPSHOT_COMPRESS_THRESHOLD", strconv.Itoa(codec.DefaultThreshold))
	n, err := strconv.Atoi(threshold)
	if err != nil {
		return Config{}, fmt.Errorf("SNAPSHOT_COMPRESS_THRESHOLD: %w", err)
	}
	cfg.CompressThreshold = n

	return cfg, nil
}

// Validate checks that the selected driver has what it needs.
func (c Config) Validate() error {
	var errs []error
	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverMongo:
		if c.MongoURL == "" {
			errs = append(errs, errors.New("MONGO_URL is required for the mongo driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	if c.SummaryCron != "" {
		if _, err := cron.ParseStandard(c.SummaryCron); err != nil {
			errs = append(errs, fmt.Errorf("SUMMARY_CRON: %w", err))
		}
	}
	if c.CompressThreshold < 0 {
		errs = append(errs, errors.New("SNAPSHOT_COMPRESS_THRESHOLD must not be negative"))
	}
	return errors.Join(errs...)
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
