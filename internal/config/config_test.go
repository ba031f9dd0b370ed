package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmg29/tmg29/internal/errs"
)

func TestDefaultConfigButtonMapHasNoCollisions(t *testing.T) {
	cfg := DefaultConfig()
	seen := make(map[uint8]bool)
	for _, v := range cfg.Input.ButtonMap {
		assert.False(t, seen[v], "virtual bit %d mapped twice", v)
		seen[v] = true
	}
}

func TestLoadConfigFallsBackOnMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Physical.VendorID, cfg.Physical.VendorID)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.SetPath(path)
	cfg.Input.SteeringDeadzone = 0.05
	require.NoError(t, cfg.Save())

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.05), loaded.Input.SteeringDeadzone)
}

func TestEnvOverridesApplyAfterLoad(t *testing.T) {
	t.Setenv("TMG29_FFB_ENABLED", "false")
	t.Setenv("TMG29_MAX_FORCE", "5.0")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.FFB.Enabled)
	assert.Equal(t, float32(5.0), cfg.FFB.MaxForce)
}

func TestLoadConfigFailsOnMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [not: valid"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ConfigError))
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.SetPath(path)
	require.NoError(t, cfg.Save())

	_, err := os.Stat(path)
	require.NoError(t, err)
}
