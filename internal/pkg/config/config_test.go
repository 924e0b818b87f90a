package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PromptManager/internal/pkg/env"
)

func withEnv(t *testing.T, values map[string]string) {
	t.Helper()
	env.Env = values
	t.Cleanup(func() { env.Env = nil })
}

func TestLoadDefaults(t *testing.T) {
	withEnv(t, map[string]string{})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, 6379, cfg.Cache.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.CheckoutBaseURL)
	assert.Equal(t, "http://localhost:4000", cfg.BaseURL())
}

func TestLoadPostgresAndCheckoutLink(t *testing.T) {
	withEnv(t, map[string]string{
		"DB_DRIVER":                 "Postgres",
		"APP_ENV":                   "dev",
		"PUBLIC_DOMAIN":             "https://prompts.example.com/",
		"MONTHLY_SUBSCRIPTION_LINK": " https://buy.stripe.com/test_123 ",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.True(t, cfg.IsDev)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "https://buy.stripe.com/test_123", cfg.CheckoutBaseURL)
	assert.Equal(t, "https://prompts.example.com", cfg.BaseURL())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	withEnv(t, map[string]string{"DB_DRIVER": "oracle"})
	_, err := Load()
	assert.Error(t, err)

	withEnv(t, map[string]string{"CACHE_PORT": "abc"})
	_, err = Load()
	assert.Error(t, err)
}
