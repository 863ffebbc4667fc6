package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 600*time.Millisecond, cfg.Engine.LockDuration)
	assert.Equal(t, 768, cfg.Viewport.Breakpoint)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carousel.yaml")
	yml := `
catalog: testimonials.yaml
engine:
  lock_duration: 450ms
viewport:
  breakpoint: 640
autoplay:
  period: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testimonials.yaml", cfg.CatalogPath)
	assert.Equal(t, 450*time.Millisecond, cfg.Engine.LockDuration)
	assert.Equal(t, 640, cfg.Viewport.Breakpoint)
	assert.Equal(t, 2*time.Second, cfg.Autoplay.Period)
	// untouched sections keep their defaults
	assert.Equal(t, 5, cfg.Viewport.ExpandedSlots)
	assert.Equal(t, 1.05, cfg.Engine.ActiveScale)
}

func TestWriteLoadKeepsDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carousel.yaml")
	cfg := Default()
	cfg.Engine.LockDuration = 750 * time.Millisecond
	require.NoError(t, Write(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, got.Engine.LockDuration)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Engine.LockDuration = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Viewport.ExpandedSlots = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Autoplay.Period = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLockDuration, "1s")
	t.Setenv(EnvBreakpoint, "1024")
	t.Setenv(EnvAddr, "127.0.0.1:9000")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, time.Second, cfg.Engine.LockDuration)
	assert.Equal(t, 1024, cfg.Viewport.Breakpoint)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	t.Setenv(EnvAutoplayPeriod, "soon")
	assert.Error(t, cfg.ApplyEnv())
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CAROUSEL_CATALOG=from-dotenv.yaml\n"), 0644))
	os.Unsetenv(EnvCatalog)
	t.Cleanup(func() { os.Unsetenv(EnvCatalog) })

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "from-dotenv.yaml", cfg.CatalogPath)
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.Engine.ActiveScale = 1.1
	opts := cfg.EngineOptions(nil, nil)

	require.NotNil(t, opts.Layout)
	assert.Equal(t, 1.1, opts.Layout.ActiveScale)
	assert.Equal(t, cfg.Engine.LockDuration, opts.LockDuration)
	assert.Equal(t, 5, cfg.Classifier().SlotCount(1280))
}
