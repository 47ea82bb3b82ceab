package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Second, cfg.AutoPickDelay)
	assert.Equal(t, 4, cfg.SchedulerWorkers)
	assert.Equal(t, "memory", cfg.PlayerSource)
	assert.Equal(t, "block", cfg.StallPolicy)
	assert.False(t, cfg.NATSEnabled)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTOPICK_DELAY", "250ms")
	t.Setenv("PLAYER_SOURCE", "sqlite")
	t.Setenv("STALL_POLICY", "force_best")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.AutoPickDelay)
	assert.Equal(t, "sqlite", cfg.PlayerSource)
	assert.Equal(t, "force_best", cfg.StallPolicy)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestLoadEnvRejectsUnknownValues(t *testing.T) {
	t.Setenv("PLAYER_SOURCE", "mongo")
	_, err := LoadEnv()
	assert.ErrorContains(t, err, "PLAYER_SOURCE")
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("SCHEDULER_WORKERS", "lots")
	_, err := LoadEnv()
	assert.ErrorContains(t, err, "parse env:")
}
