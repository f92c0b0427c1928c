package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config search path at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range envBindings {
		t.Setenv(EnvVar(key), "")
		os.Unsetenv(EnvVar(key))
	}
	return dir
}

func loadFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Second, cfg.Viewer.Duration)
	assert.Equal(t, 300*time.Millisecond, cfg.Viewer.AnimationDuration)
	assert.Equal(t, 3, cfg.Theme.StoryAvatarSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero duration", func(c *Config) { c.Viewer.Duration = 0 }, "viewer.duration"},
		{"negative animation", func(c *Config) { c.Viewer.AnimationDuration = -time.Second }, "viewer.animation_duration"},
		{"tiny tick", func(c *Config) { c.Viewer.TickInterval = time.Microsecond }, "viewer.tick_interval"},
		{"no width", func(c *Config) { c.Viewer.PageWidth = 0 }, "viewer.page_width"},
		{"negative avatar", func(c *Config) { c.Theme.StoryAvatarSize = -1 }, "theme.story_avatar_size"},
		{"no cell size", func(c *Config) { c.TUI.CellHeightPx = 0 }, "tui.cell_width_px"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := DefaultConfig()
	cfg.Viewer.AnimationDuration = 0
	assert.NoError(t, cfg.Validate(), "animations may be disabled")
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "reel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
viewer:
  duration: 2s
  animation_duration: 0s
theme:
  story_avatar_size: 5
  text_style:
    foreground: "205"
    italic: true
logging:
  level: debug
  file: ~/reel.log
`), 0o644))

	cfg, err := loadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Viewer.Duration)
	assert.Zero(t, cfg.Viewer.AnimationDuration)
	assert.Equal(t, 16*time.Millisecond, cfg.Viewer.TickInterval)
	assert.Equal(t, 5, cfg.Theme.StoryAvatarSize)
	assert.Equal(t, "205", cfg.Theme.TextStyle.Foreground)
	assert.True(t, cfg.Theme.TextStyle.Italic)
	assert.True(t, cfg.Theme.TextStyle.Bold, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(dir, "reel.log"), cfg.Logging.File)
}

func TestLoadSearchesXDGDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "reel"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reel", "config.yaml"), []byte("viewer:\n  page_width: 600\n"), 0o644))

	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 600.0, cfg.Viewer.PageWidth)
	assert.Equal(t, filepath.Join(dir, "reel", "config.yaml"), loader.ConfigFileUsed())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "reel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("viewer:\n  duration: 2s\n"), 0o644))
	t.Setenv("REEL_VIEWER_DURATION", "7s")
	t.Setenv("REEL_TUI_ALT_SCREEN", "false")

	cfg, err := loadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.Viewer.Duration)
	assert.False(t, cfg.TUI.AltScreen)
}

func TestLoaderSetOverridesEverything(t *testing.T) {
	isolate(t)
	t.Setenv("REEL_LOGGING_LEVEL", "warn")

	loader := NewLoader()
	loader.Set("logging.level", "debug")
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	_, err := loadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("viewer:\n  duration: 0s\n"), 0o644))
	_, err = loadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewer.duration")
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "REEL_THEME_TEXT_STYLE_BOLD", EnvVar("theme.text_style.bold"))
}
