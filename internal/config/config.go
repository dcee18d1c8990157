// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseType string

const (
	SQLite  DatabaseType = "sqlite"
	MongoDB DatabaseType = "mongodb"
)

const (
	minSecretLength = 32
	minBcryptCost   = 4
	maxBcryptCost   = 14
)

type Config struct {
	Port         string
	DatabaseType DatabaseType
	DatabasePath string // SQLite file
	MongoURI     string
	DatabaseName string // MongoDB database
	SecretKey    string
	TokenTTL     time.Duration
	BcryptCost   int
	UploadDir    string
	CORSOrigin   string // empty disables CORS headers
	CookieSecure bool
	LogLevel     slog.Level
}

// Load reads a .env file when one exists in the working directory, then
// builds the Config from the environment. Variables already set in the
// environment take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         envOrDefault("PORT", "4000"),
		DatabaseType: DatabaseType(envOrDefault("DATABASE_TYPE", string(SQLite))),
		DatabasePath: envOrDefault("DATABASE_PATH", "inkwell.db"),
		MongoURI:     os.Getenv("MONGO_URI"),
		DatabaseName: envOrDefault("DATABASE_NAME", "inkwell"),
		SecretKey:    os.Getenv("SECRET_KEY"),
		UploadDir:    envOrDefault("UPLOAD_DIR", "uploads"),
		CORSOrigin:   os.Getenv("CORS_ORIGIN"),
		// Default to secure cookies; disable only for local development.
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",
	}

	if cfg.SecretKey == "" {
		return nil, errors.New("SECRET_KEY environment variable is required")
	}
	if len(cfg.SecretKey) < minSecretLength {
		return nil, fmt.Errorf("SECRET_KEY must be at least %d characters for HMAC-SHA256 security", minSecretLength)
	}

	switch cfg.DatabaseType {
	case SQLite:
	case MongoDB:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is required when DATABASE_TYPE=mongodb")
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}

	ttl, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, errors.New("TOKEN_TTL must be positive")
	}
	cfg.TokenTTL = ttl

	cost, err := strconv.Atoi(envOrDefault("BCRYPT_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cost < minBcryptCost || cost > maxBcryptCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", minBcryptCost, maxBcryptCost, cost)
	}
	cfg.BcryptCost = cost

	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
