package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, 9, cfg.Game.GridWidth)
	assert.Equal(t, 10, cfg.Game.GridHeight)
	assert.Equal(t, 3, cfg.Game.ActionsPerTurn)
	assert.Equal(t, 5, cfg.Game.StartingHandSize)
	assert.Equal(t, int64(0), cfg.Game.Seed)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
catalog:
  path: /data/cards.yaml
game:
  grid_width: 11
  seed: 1234
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/cards.yaml", cfg.Catalog.Path)
	assert.Equal(t, 11, cfg.Game.GridWidth)
	assert.Equal(t, int64(1234), cfg.Game.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10, cfg.Game.GridHeight)
	assert.Equal(t, 3, cfg.Game.ActionsPerTurn)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  grid_width: 1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BMSIM_GAME_ACTIONS_PER_TURN", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Game.ActionsPerTurn)
}
