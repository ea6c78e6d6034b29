package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Secrets are never kept in the TOML file, they come from the process environment.
type Secrets struct {
	JWTSecret        string `env:"GYM_JWT_SECRET,required"`
	PostgresPassword string `env:"GYM_POSTGRES_PASSWORD"`
	RedisPassword    string `env:"GYM_REDIS_PASS"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED" envDefault:"false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"gymtracker"`
}

func LoadSecrets() (*Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &s, nil
}
