package config_test

import (
	"testing"

	"curriculum-sync/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8765", cfg.Anki.Endpoint)
	assert.Equal(t, 30, cfg.Anki.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "content", cfg.Content.Dir)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ANKI_ENDPOINT", "http://localhost:8888")
	t.Setenv("ANKI_TIMEOUT_SECONDS", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CONTENT_DIR", "testdata/corpus")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8888", cfg.Anki.Endpoint)
	assert.Equal(t, 5, cfg.Anki.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "testdata/corpus", cfg.Content.Dir)
}
