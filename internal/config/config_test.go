package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvConfig, "")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/items.csv"}, c.Data.Sources)
	assert.Equal(t, 30*time.Second, c.Data.Timeout)
	assert.True(t, c.Data.Watch)
	assert.Equal(t, "PRICE", c.Data.PriceCol)
	assert.Equal(t, 100, c.Layout.Breakpoint)
	assert.Equal(t, "/", c.UI.StartPath)
	assert.Equal(t, "info", c.Logging.Level)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "csvboard.toml")
	require.NoError(t, os.WriteFile(p, []byte(`
[data]
sources = ["https://example.test/a.csv", "b.csv"]
timeout = "5s"
watch = false

[layout]
breakpoint = 120

[ui]
theme = "neon"
start_path = "/todo"
`), 0o644))

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.test/a.csv", "b.csv"}, c.Data.Sources)
	assert.Equal(t, 5*time.Second, c.Data.Timeout)
	assert.False(t, c.Data.Watch)
	assert.Equal(t, 120, c.Layout.Breakpoint)
	assert.Equal(t, "neon", c.UI.Theme)
	assert.Equal(t, "/todo", c.UI.StartPath)
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("CSVBOARD_DATA_TIMEOUT", "2s")
	t.Setenv("CSVBOARD_UI_START_PATH", "/home")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, c.Data.Timeout)
	assert.Equal(t, "/home", c.UI.StartPath)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err, "explicit file must exist")

	p := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(p, []byte("[layout]\nbreakpoint = 0\n"), 0o644))
	_, err = Load(p)
	assert.ErrorContains(t, err, "breakpoint")

	t.Setenv("CSVBOARD_LOGGING_LEVEL", "loud")
	_, err = Load("")
	assert.ErrorContains(t, err, "logging.level")
}

func TestLoadRejectsUnknownTheme(t *testing.T) {
	isolate(t)

	t.Setenv("CSVBOARD_UI_THEME", "sepia")
	_, err := Load("")
	assert.ErrorContains(t, err, `unknown theme "sepia"`)

	t.Setenv("CSVBOARD_UI_THEME", "Mono")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Mono", c.UI.Theme)
}

func TestWriteExampleRoundTrip(t *testing.T) {
	isolate(t)
	def, err := Load("")
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), "sub", "config.toml")
	require.NoError(t, WriteExample(p, def, false))
	assert.Error(t, WriteExample(p, def, false))
	require.NoError(t, WriteExample(p, def, true))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, def, got)
}
