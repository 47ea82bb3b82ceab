package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Env holds process settings read from the environment.
type Env struct {
	Port             string        `env:"PORT" envDefault:"8080"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	DraftConfig      string        `env:"DRAFT_CONFIG"`
	AutoPickDelay    time.Duration `env:"AUTOPICK_DELAY" envDefault:"1s"`
	SchedulerWorkers int           `env:"SCHEDULER_WORKERS" envDefault:"4"`
	StallPolicy      string        `env:"STALL_POLICY" envDefault:"block"`
	PlayerSource     string        `env:"PLAYER_SOURCE" envDefault:"memory"`
	SQLitePath       string        `env:"SQLITE_PATH" envDefault:"players.db"`
	NATSEnabled      bool          `env:"NATS_ENABLED" envDefault:"false"`
	NATSURL          string        `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses Env and checks the enumerated values.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}

	switch cfg.PlayerSource {
	case "memory", "postgres", "sqlite":
	default:
		return Env{}, fmt.Errorf("PLAYER_SOURCE must be memory, postgres or sqlite, got %q", cfg.PlayerSource)
	}
	switch cfg.StallPolicy {
	case "block", "force_best":
	default:
		return Env{}, fmt.Errorf("STALL_POLICY must be block or force_best, got %q", cfg.StallPolicy)
	}
	if cfg.AutoPickDelay < 0 {
		return Env{}, fmt.Errorf("AUTOPICK_DELAY must not be negative")
	}
	return cfg, nil
}

// Level returns the zerolog level named by LOG_LEVEL, defaulting to info.
func (e Env) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(e.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
