package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/miradorstack/broadcast-response/internal/models"
	"github.com/miradorstack/broadcast-response/internal/utils"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BROADCAST_RESPONSE_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, cfg.Policy.WindowDuration)
	require.Equal(t, models.ImportanceTop, cfg.Policy.ForegroundThreshold)
	require.True(t, cfg.Auth.Enforce)
	require.Zero(t, cfg.Tracker.SweepInterval)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "engine.yaml", `
server:
  address: ":6000"
policy:
  windowDuration: 30s
  foregroundThreshold: foreground_service
tracker:
  sweepInterval: 1m
auth:
  enforce: false
`)
	t.Setenv("BROADCAST_RESPONSE_LOG_LEVEL", "debug")
	t.Setenv("BROADCAST_RESPONSE_WINDOW_DURATION", "120000")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":6000", cfg.Server.Address)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, 2*time.Minute, cfg.Policy.WindowDuration)
	require.Equal(t, models.ImportanceForegroundService, cfg.Policy.ForegroundThreshold)
	require.Equal(t, time.Minute, cfg.Tracker.SweepInterval)
	require.False(t, cfg.Auth.Enforce)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeFile(t, t.TempDir(), "engine.yaml", "policy:\n  foregroundThreshold: sideways\n")
	_, err = Load(path)
	require.Error(t, err)

	path = writeFile(t, t.TempDir(), "engine.yaml", "policy:\n  windowDuration: 0s\n")
	_, err = Load(path)
	require.Error(t, err)
	require.Equal(t, "windowDuration", utils.FieldOf(err))

	t.Setenv("BROADCAST_RESPONSE_FG_THRESHOLD", "nope")
	_, err = Load("")
	require.Error(t, err)
	require.Equal(t, "BROADCAST_RESPONSE_FG_THRESHOLD", utils.FieldOf(err))
}

func TestParsePolicyOverrides(t *testing.T) {
	overrides, ignored, err := ParsePolicyOverrides([]byte(`
broadcast_response_window_timeout_ms: 120000
broadcast_response_fg_threshold_state: 2
app_standby_enabled: true
`))
	require.NoError(t, err)
	require.Equal(t, []string{"app_standby_enabled"}, ignored)
	require.Equal(t, 2*time.Minute, *overrides.WindowDuration)
	require.Equal(t, models.ImportanceTop, *overrides.ForegroundThreshold)

	overrides, _, err = ParsePolicyOverrides([]byte("broadcast_response_fg_threshold_state: cached_empty\n"))
	require.NoError(t, err)
	require.Nil(t, overrides.WindowDuration)
	require.Equal(t, models.ImportanceCachedEmpty, *overrides.ForegroundThreshold)

	_, _, err = ParsePolicyOverrides([]byte("broadcast_response_window_timeout_ms: later\n"))
	require.Error(t, err)
	require.Equal(t, KeyWindowDuration, utils.FieldOf(err))
}

func TestLoadPolicyOverridesMissingFile(t *testing.T) {
	overrides, ignored, err := LoadPolicyOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.True(t, overrides.Empty())
	require.Empty(t, ignored)
}
