// Package config loads the process-wide settings once at startup.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const EnvProduction = "production"

type Config struct {
	Env      string `env:"GO_ENV" env-default:"development"`
	Port     string `env:"PORT" env-default:"3000"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// DatabaseURL is the SQLite database path, ":memory:" for a throwaway store.
	DatabaseURL string `env:"DATABASE_URL" env-default:"notes.db"`
	NodeID      int64  `env:"NODE_ID" env-default:"1"`

	// JWTSecret signs every token. Never log it. Tokens always live utils.TokenTTL.
	JWTSecret string `env:"JWT_SECRET" env-required:"true"`

	RateLimitWindow Millis `env:"RATE_LIMIT_WINDOW_MS" env-default:"900000"`
	RateLimitMax    int    `env:"RATE_LIMIT_MAX_REQUESTS" env-default:"100"`
	BodyLimit       string `env:"BODY_LIMIT" env-default:"1M"`

	AWSRegion        string `env:"AWS_REGION" env-default:"us-east-2"`
	SSMParameterPath string `env:"SSM_PARAMETER_PATH" env-default:"/notes/prod/"`
}

// Millis parses a bare number as milliseconds ("900000") or a Go duration ("15m").
type Millis time.Duration

func (m *Millis) SetValue(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("empty duration")
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*m = Millis(time.Duration(n) * time.Millisecond)
		return nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must be like 15m or a number of milliseconds: %w", err)
	}
	*m = Millis(d)
	return nil
}

func (m Millis) Duration() time.Duration { return time.Duration(m) }

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load decodes the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	// An exported but empty variable passes env-required
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	if cfg.RateLimitWindow.Duration() <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW_MS must be positive")
	}

	if cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive")
	}
	return &cfg, nil
}
