package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestNew_UsesDefaultsWhenEnvUnset(t *testing.T) {
	for _, key := range []string{
		"SERVER_ADDRESS", "ENVIRONMENT", "LOG_LEVEL", "CATALOGUE_STORE",
		"CATALOGUE_PATH", "AWS_REGION", "TABLE_NAME", "ENABLE_METRICS",
		"ENABLE_TRACING", "OTLP_ENDPOINT",
	} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		if had {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}

	cfg := New()
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "memory", cfg.CatalogueStore)
	assert.True(t, cfg.EnableMetrics)
	assert.False(t, cfg.EnableTracing)
}

func TestNew_ReadsOverridesFromEnv(t *testing.T) {
	withEnv(t, "ENVIRONMENT", "production")
	withEnv(t, "CATALOGUE_STORE", "dynamodb")
	withEnv(t, "ENABLE_TRACING", "true")

	cfg := New()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "dynamodb", cfg.CatalogueStore)
	assert.True(t, cfg.EnableTracing)
}

func TestNew_IgnoresUnparseableBoolAndFallsBackToDefault(t *testing.T) {
	withEnv(t, "ENABLE_METRICS", "not-a-bool")

	cfg := New()
	assert.True(t, cfg.EnableMetrics)
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Environment: "development"}
	assert.True(t, cfg.IsDevelopment())

	cfg.Environment = "production"
	assert.False(t, cfg.IsDevelopment())
}
