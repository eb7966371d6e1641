package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Orchestrator.PositionTolerance)
	assert.Equal(t, 3, cfg.Orchestrator.PositionRetries)
	assert.Equal(t, 20*time.Second, cfg.GetLoadTimeout())
	assert.Equal(t, 500*time.Millisecond, cfg.GetPingInterval())
	assert.False(t, cfg.Browser.Headless)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
browser:
  headless: true
  load_timeout: 5s
orchestrator:
  position_retries: 7
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 5*time.Second, cfg.GetLoadTimeout())
	assert.Equal(t, 7, cfg.Orchestrator.PositionRetries)
	// Untouched fields keep defaults
	assert.Equal(t, 5, cfg.Orchestrator.PositionTolerance)
	assert.Equal(t, "127.0.0.1:8674", cfg.Server.Addr)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("browser: ["), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROMPTFAN_CHROME_BIN", "/opt/chromium/chrome")
	t.Setenv("PROMPTFAN_HEADLESS", "1")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/opt/chromium/chrome", cfg.Browser.Bin)
	assert.True(t, cfg.Browser.Headless)
}

func TestMalformedDurationFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Orchestrator.InjectTimeout = "not-a-duration"
	assert.Equal(t, 25*time.Second, cfg.GetInjectTimeout())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Browser.Headless = true
	require.NoError(t, cfg.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, loaded.Browser.Headless)
}
