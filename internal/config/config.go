package config

import (
	"log/slog"
	"os"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Storage
	LookupDir   string // directory holding one lookup file per fingerprint
	StudiesFile string // studies definition file, TOML by default or YAML by extension

	// Logging
	LogLevel string // "debug", "info", "warn", "error"

	// Jobs
	StudiesCheckInterval time.Duration // 0 disables the periodic studies file check
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                  getEnv("ENV", "development"),
		ServerAddr:           getEnv("SERVER_ADDR", ":3000"),
		LookupDir:            getEnv("LOOKUP_DIR", "./lookups"),
		StudiesFile:          getEnv("STUDIES_FILE", "./studies.toml"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		StudiesCheckInterval: getDurationEnv("STUDIES_CHECK_INTERVAL", 0),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// SlogLevel maps the configured log level onto slog's levels.
func (c *Config) SlogLevel() slog.Level {
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
