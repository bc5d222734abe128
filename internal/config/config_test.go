package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "test-missing")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, int64(1<<20), cfg.ReadLimit)
	assert.Equal(t, int64(16), cfg.MaxInflightChunks)
	assert.Equal(t, 3*time.Second, cfg.Speech.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.Speech.PollTimeout)
	assert.Equal(t, "gemini-1.5-flash", cfg.Summary.Model)
}

func TestLoadAPIKeysFromEnv(t *testing.T) {
	t.Setenv("CONFIG_ENV", "test-missing")
	t.Setenv("AI_ASSEMBLY_API", "speech-key")
	t.Setenv("GEMINI_API_KEY", "summary-key")
	t.Setenv("HUDDLE_STORE_DSN", "user:pass@tcp(localhost:3306)/huddle")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "speech-key", cfg.Speech.APIKey)
	assert.Equal(t, "summary-key", cfg.Summary.APIKey)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/huddle", cfg.Store.DSN)
}
