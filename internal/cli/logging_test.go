package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafritemema/MARS-data-build/internal/config"
)

func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
}

func TestSetupLogging_FanoutToFile(t *testing.T) {
	restoreDefaultLogger(t)
	logFile := filepath.Join(t.TempDir(), "marsc.log")
	stderr := &bytes.Buffer{}

	closer, err := setupLogging(config.Config{LogLevel: "info", LogFile: logFile}, false, stderr)
	require.NoError(t, err)

	slog.Info("sequences stored", "inserted", 2)
	slog.Debug("hidden at info")
	require.NoError(t, closer.Close())

	assert.Contains(t, stderr.String(), "sequences stored")
	assert.NotContains(t, stderr.String(), "hidden at info")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "sequences stored", line["msg"])
	assert.Equal(t, float64(2), line["inserted"])
}

func TestSetupLogging_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		verbose   bool
		wantDebug bool
	}{
		{"info", "info", false, false},
		{"debug_from_config", "debug", false, true},
		{"verbose_forces_debug", "warn", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreDefaultLogger(t)
			stderr := &bytes.Buffer{}

			closer, err := setupLogging(config.Config{LogLevel: tt.level}, tt.verbose, stderr)
			require.NoError(t, err)
			defer closer.Close()

			slog.Debug("compiling action")
			if tt.wantDebug {
				assert.Contains(t, stderr.String(), "compiling action")
			} else {
				assert.Empty(t, stderr.String())
			}
		})
	}
}

func TestSetupLogging_InvalidLevel(t *testing.T) {
	_, err := setupLogging(config.Config{LogLevel: "loud"}, false, &bytes.Buffer{})
	require.Error(t, err)
}
