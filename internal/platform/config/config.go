// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend selectors. Memory variants run without external infrastructure and
// are the dev-mode defaults.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	LimiterMemory = "memory"
	LimiterRedis  = "redis"
)

type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	SMERevenueRatio   int    `env:"SME_REVENUE_RATIO" envDefault:"5"`
	StartupCashRatio  int    `env:"STARTUP_CASH_RATIO" envDefault:"3"`
	MaxFailedAttempts int    `env:"MAX_FAILED_ATTEMPTS" envDefault:"3"`
	EscalationMessage string `env:"ESCALATION_MESSAGE" envDefault:"A sales agent will contact you"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`
	DatabaseURL  string `env:"DATABASE_URL"`

	RateLimitBackend  string        `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`
	RateLimitDisabled bool          `env:"RATE_LIMIT_DISABLED" envDefault:"false"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"30"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RedisURL          string        `env:"REDIS_URL"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses and validates the environment so main stays lean.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.RateLimitBackend {
	case LimiterMemory:
	case LimiterRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when RATE_LIMIT_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimitBackend)
	}

	if c.SMERevenueRatio <= 0 || c.StartupCashRatio <= 0 {
		return fmt.Errorf("funding ratios must be positive")
	}
	if c.MaxFailedAttempts < 0 {
		return fmt.Errorf("MAX_FAILED_ATTEMPTS cannot be negative")
	}
	return nil
}
