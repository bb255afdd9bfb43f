package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 32.0, cfg.TileSize)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, 12.0, cfg.Sim.AnimFPS)
	assert.Equal(t, 0.05, cfg.Sim.MaxDelta)
	assert.False(t, cfg.Graylog.Enabled)
	assert.Equal(t, "localhost:12201", cfg.Graylog.Address)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "", cfg.Store.DSN)
	assert.False(t, cfg.Influx.Enabled)
	assert.Equal(t, "battles", cfg.Influx.Bucket)
	assert.True(t, cfg.Audio.Enabled)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "trenchline.yaml")
	doc := `
logLevel: debug
tileSize: 24
sim:
  animFps: 8
store:
  driver: postgres
  dsn: host=db user=trench
influx:
  enabled: true
  url: http://influx:8086
`
	require.NoError(t, os.WriteFile(file, []byte(doc), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 24.0, cfg.TileSize)
	assert.Equal(t, 8.0, cfg.Sim.AnimFPS)
	assert.Equal(t, 0.05, cfg.Sim.MaxDelta, "unset keys keep defaults")
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "host=db user=trench", cfg.Store.DSN)
	assert.True(t, cfg.Influx.Enabled)
	assert.Equal(t, "http://influx:8086", cfg.Influx.URL)
}

func TestLoad_DiscoversWorkingDirFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trenchline.json"), []byte(`{"assetsDir": "/srv/assets"}`), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/assets", cfg.AssetsDir)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRENCHLINE_LOGLEVEL", "warn")
	t.Setenv("TRENCHLINE_AUDIO_ENABLED", "false")
	t.Setenv("TRENCHLINE_WINDOW_WIDTH", "1920")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 1920, cfg.Window.Width)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/trenchline.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("store:\n  driver: mysql\n"), 0o644))

	_, err := Load(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}
