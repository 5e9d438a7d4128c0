// Package config reads service configuration from the environment, an
// optional .env file, and command-line flags.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime parameters of the API server.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`
}

// Parse loads .env if present, then environment variables, then flags.
// Environment values win over flag values.
func Parse() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURL := cfg.DatabaseURL

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURL, "d", "", "postgres connection URL")
	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURL != "" {
		cfg.DatabaseURL = envDatabaseURL
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "fornaria-dev-secret"
	}

	return cfg, nil
}
