package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skimmer.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "")
	t.Setenv("EXECUTION_MODE", "")
	t.Setenv("CHROMIUM_PATH", "")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "local", cfg.ExecutionMode)
	assert.Empty(t, cfg.ExecutablePath)
	assert.Equal(t, 30*time.Second, cfg.OperationTimeout())
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
port = 8080
execution_mode = "hosted"
executable_path = "/opt/chromium/chrome"
operation_timeout_seconds = 60
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "hosted", cfg.ExecutionMode)
	assert.Equal(t, "/opt/chromium/chrome", cfg.ExecutablePath)
	assert.Equal(t, time.Minute, cfg.OperationTimeout())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, "port = [not toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
port = 8080
execution_mode = "local"
`)
	t.Setenv("PORT", "9090")
	t.Setenv("EXECUTION_MODE", "hosted")
	t.Setenv("CHROMIUM_PATH", "/usr/bin/chromium")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "hosted", cfg.ExecutionMode)
	assert.Equal(t, "/usr/bin/chromium", cfg.ExecutablePath)
}

func TestInvalidPortEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")

	_, err := Load(writeConfig(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PORT")
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"port too low", "port = 0", "out of range"},
		{"port too high", "port = 70000", "out of range"},
		{"bad mode", `execution_mode = "cloud"`, "invalid execution_mode"},
		{"negative timeout", "operation_timeout_seconds = -1", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestZeroTimeoutDisables(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, "operation_timeout_seconds = 0"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.OperationTimeout())
}
