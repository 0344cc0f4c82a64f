package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/launchdeck/internal/logger"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "launchdeck.db"), cfg.DatabasePath)
	assert.Equal(t, LocalUserID, cfg.UserID)
	assert.True(t, cfg.ConfirmDelete)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.Backend = BackendRemote
	cfg.ServerURL = "https://deck.example.com"
	cfg.LogLevel = "DEBUG"
	require.NoError(t, cfg.Save())

	loaded, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.True(t, loaded.IsRemote())
	assert.Equal(t, "https://deck.example.com", loaded.ServerURL)
	assert.Equal(t, logger.DEBUG, loaded.LoggerConfig().Level)
	assert.Equal(t, dir, loaded.Dir())
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: local\nlog_level: WARN\n"), 0644))
	t.Setenv("LAUNCHDECK_LOG_LEVEL", "ERROR")
	t.Setenv("LAUNCHDECK_LOG_CONSOLE", "true")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "ERROR", cfg.LogLevel)
	assert.True(t, cfg.LogConsole)
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: cloud\n"), 0644))
	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Backend")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: remote\nserver_url: \"\"\n"), 0644))
	_, err = LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ServerURL")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0644))
	_, err = LoadFrom(dir)
	assert.ErrorContains(t, err, "failed to parse config")
}
