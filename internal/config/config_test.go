package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every MARS_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MARS_TRACK_INTERVAL", "MARS_DRILLING_REPORT", "MARS_LOG_LEVEL", "MARS_LOG_FILE", "MARS_DATABASE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.TrackInterval)
	assert.False(t, cfg.DrillingReport)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Database)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MARS_TRACK_INTERVAL", "250")
	t.Setenv("MARS_DRILLING_REPORT", "true")
	t.Setenv("MARS_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.TrackInterval)
	assert.True(t, cfg.DrillingReport)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MARS_DATABASE=/tmp/mars.db\nMARS_TRACK_INTERVAL=500\n"), 0o644))
	t.Setenv("MARS_TRACK_INTERVAL", "750")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mars.db", cfg.Database)
	assert.Equal(t, 750, cfg.TrackInterval, "environment wins over dotenv")
}

func TestLoadMissingDotenv(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"interval not an int", "MARS_TRACK_INTERVAL", "soon"},
		{"interval zero", "MARS_TRACK_INTERVAL", "0"},
		{"bad level", "MARS_LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			require.Error(t, err)
		})
	}
}
