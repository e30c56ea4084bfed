package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	// Run from a temp dir so no real config file is picked up.
	t.Chdir(t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, 30, cfg.AI.TimeoutSeconds)
	assert.Equal(t, "finance.db", cfg.Data.DatabaseFile)
	assert.Equal(t, "local", cfg.Owner.ID)
	assert.InDelta(t, 24500.0, cfg.Gold.USDToVND, 0.01)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FINANCE_LOG_LEVEL", "debug")
	t.Setenv("FINANCE_OWNER_ID", "alice")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "alice", cfg.Owner.ID)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Log.Level = "info"
		cfg.Log.Format = "text"
		cfg.AI.TimeoutSeconds = 30
		cfg.Data.DatabaseFile = "finance.db"
		cfg.Owner.ID = "local"
		cfg.Gold.USDToVND = 24500
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateConfig(valid()))
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Level = "verbose"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("bad timeout", func(t *testing.T) {
		cfg := valid()
		cfg.AI.TimeoutSeconds = 0
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("empty database file", func(t *testing.T) {
		cfg := valid()
		cfg.Data.DatabaseFile = ""
		assert.Error(t, validateConfig(cfg))
	})
}
