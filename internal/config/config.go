package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig aggregates runtime configuration, injected via environment
// variables with sensible defaults for local development.
type AppConfig struct {
	HTTPAddr string
	DBPath   string

	// Optional bootstrap admin account, created at startup when both are set.
	AdminEmail    string
	AdminPassword string

	// Cost parameter for bcrypt password hashing.
	BcryptCost int
}

// Load reads a .env file if present, then builds and validates the config.
func Load() (AppConfig, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := AppConfig{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DBPath:        getEnv("DB_PATH", "auction_market.db"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		BcryptCost:    10,
	}

	cost, err := getEnvInt("BCRYPT_COST", cfg.BcryptCost)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cost < 4 || cost > 31 {
		return AppConfig{}, fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	cfg.BcryptCost = cost

	if cfg.HTTPAddr == "" {
		return AppConfig{}, fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DBPath == "" {
		return AppConfig{}, fmt.Errorf("DB_PATH must not be empty")
	}

	return cfg, nil
}

// getEnv reads a string env var, falling back when unset or blank.
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt reads an integer env var, falling back when unset or blank.
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
