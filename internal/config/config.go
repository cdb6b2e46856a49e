// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Remote blog API
	APIBaseURL  string // general endpoints (/posts, /categories, ...)
	AuthBaseURL string // auth endpoints (/register, /login, /verify)

	// External AI service (summaries and tag suggestions)
	AIBaseURL string

	// Valkey/Redis (sessions + view caches)
	RedisHost     string
	RedisPort     string
	RedisPassword string
}

// Load reads configuration from the environment, applying defaults for
// development where appropriate. A .env file in the working directory is
// loaded first when present. Returns an error if critical values are
// missing in production mode.
func Load() (*Config, error) {
	// Best-effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "3000"),
		Env:  envOrDefault("APP_ENV", "development"),

		APIBaseURL:  envOrDefault("BLOG_API_URL", "http://localhost:8080/api"),
		AuthBaseURL: os.Getenv("BLOG_AUTH_URL"),
		AIBaseURL:   envOrDefault("AI_SERVICE_URL", "http://localhost:8000"),

		RedisHost:     envOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     envOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	// The auth endpoints usually live next to the API ones; derive the
	// default from the API base so a single variable configures both.
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/api") + "/auth"
	}

	if cfg.Env == "production" {
		if os.Getenv("BLOG_API_URL") == "" {
			return nil, fmt.Errorf("BLOG_API_URL must be set in production")
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
