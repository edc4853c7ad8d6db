package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("MAX_CHUNKS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxChunks)
	assert.Equal(t, 50, cfg.MinChunkChars)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.ExtractPacing)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_CHUNKS", "3")
	t.Setenv("REQUEST_TIMEOUT", "90s")
	t.Setenv("OPENAI_TEMPERATURE", "0.5")
	t.Setenv("S3_ENDPOINT", "localhost:9000")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("MAX_REQUEST_BYTES", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxChunks)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
	assert.InDelta(t, 0.5, cfg.OpenAITemperature, 1e-9)
	assert.True(t, cfg.ArchiveEnabled())
	assert.Equal(t, int64(1024), cfg.MaxRequestBytes, "request limit never below upload ceiling")
}

func TestLoadPlaceholderKeyIsAbsent(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", PlaceholderAPIKey)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.OpenAIAPIKey)
}
