package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifoldhq/manifold/pkg/observability"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "./data/plugins", cfg.Storage.Root)
	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MANIFOLD_PORT", "9999")
	t.Setenv("MANIFOLD_LOG_LEVEL", "debug")
	t.Setenv("MANIFOLD_METRICS_ENABLED", "false")
	t.Setenv("MANIFOLD_READ_TIMEOUT", "5s")
	t.Setenv("MANIFOLD_POSTGRES_MAX_CONNS", "50")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.False(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MANIFOLD_POSTGRES_MAX_CONNS", "not-a-number")
	t.Setenv("MANIFOLD_READ_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestValidate_PortClash(t *testing.T) {
	t.Setenv("MANIFOLD_HEALTH_PORT", "8080")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestValidate_ConnectionBounds(t *testing.T) {
	t.Setenv("MANIFOLD_POSTGRES_MAX_CONNS", "2")
	t.Setenv("MANIFOLD_POSTGRES_IDLE_CONNS", "10")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max open connections")
}
