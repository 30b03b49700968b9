package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/.config.yaml")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "indexer")
	t.Setenv("POSTGRES_PASS", "secret")
	t.Setenv("POSTGRES_DATABASE", "tokens")
	t.Setenv("PROVIDER_URL", "https://eth-mainnet.example.com/v2/")
	t.Setenv("PROVIDER_WEBSOCKET", "wss://eth-mainnet.example.com/v2/")
	t.Setenv("PROVIDER_KEY", "apikey")
	t.Setenv("CHAIN_ID", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "tokens", cfg.Database.Name)
	assert.Equal(t, int64(1), cfg.Provider.ChainID)
	assert.Equal(t, LogLevelInfo, cfg.Log.Level)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal port=5433")
	assert.Contains(t, cfg.Database.DSN(), "dbname=tokens")
}

func TestLoadConfig_MissingProviderURL(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/.config.yaml")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_DATABASE", "tokens")
	t.Setenv("PROVIDER_URL", "")
	t.Setenv("PROVIDER_WEBSOCKET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROVIDER_URL")
}

func TestInterpolateEnvVars(t *testing.T) {
	t.Setenv("TEST_HOST", "db.example.com")

	yaml := "host: ${TEST_HOST}\nport: ${TEST_PORT:-5432}\nuser: $TEST_HOST"
	got := interpolateEnvVars(yaml)

	assert.Equal(t, "host: db.example.com\nport: 5432\nuser: db.example.com", got)
}
