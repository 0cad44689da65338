package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_ADDR", "LOG_LEVEL", "SENTILENS_MAX_UPLOAD_MB", "SENTILENS_REQUEST_TIMEOUT",
		"SENTILENS_SCORING_WORKERS", "SENTILENS_STRIP_MARKDOWN", "TRANSLATOR_BACKEND",
		"TRANSLATOR_DEFAULT_ON", "TRANSLATOR_TIMEOUT", "VALKEY_INIT_ADDRESS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 8, cfg.ScoringWorkers)
	assert.False(t, cfg.StripMarkdown)
	assert.Equal(t, TRANSLATOR_NONE, cfg.Translator.Backend)
	assert.Equal(t, 10*time.Second, cfg.Translator.Timeout)
	assert.False(t, cfg.Valkey.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SENTILENS_MAX_UPLOAD_MB", "4")
	t.Setenv("SENTILENS_SCORING_WORKERS", "0")
	t.Setenv("SENTILENS_STRIP_MARKDOWN", "true")
	t.Setenv("TRANSLATOR_BACKEND", "Google")
	t.Setenv("TRANSLATOR_TIMEOUT", "2s")
	t.Setenv("VALKEY_INIT_ADDRESS", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, int64(4<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 1, cfg.ScoringWorkers)
	assert.True(t, cfg.StripMarkdown)
	assert.Equal(t, TRANSLATOR_GOOGLE, cfg.Translator.Backend)
	assert.Equal(t, 2*time.Second, cfg.Translator.Timeout)
	assert.True(t, cfg.Valkey.Enabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"TRANSLATOR_BACKEND", "babelfish"},
		{"SENTILENS_MAX_UPLOAD_MB", "lots"},
		{"SENTILENS_MAX_UPLOAD_MB", "0"},
		{"SENTILENS_REQUEST_TIMEOUT", "soon"},
		{"SENTILENS_REQUEST_TIMEOUT", "0s"},
		{"SENTILENS_REQUEST_TIMEOUT", "-5s"},
		{"TRANSLATOR_TIMEOUT", "0s"},
		{"TRANSLATOR_HEALTHCHECK_INTERVAL", "0s"},
		{"TRANSLATOR_HEALTHCHECK_INTERVAL", "-1m"},
		{"TRANSLATION_CACHE_TTL", "0s"},
		{"LOG_LEVEL", "chatty"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
