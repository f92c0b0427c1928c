package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (REEL_VIEWER_DURATION).
const EnvPrefix = "REEL"

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load loads configuration with proper precedence:
// defaults < config file < env vars < CLI flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	l.setupViper(cfg)

	if err := l.loadConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Logging.File = expandTilde(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// setupViper configures Viper with defaults and environment bindings.
func (l *Loader) setupViper(cfg *Config) {
	v := l.v

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		v.AddConfigPath(filepath.Join(xdgConfig, "reel"))
	}
	homeDir, _ := os.UserHomeDir()
	if homeDir != "" {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "reel"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.setDefaults(cfg)

	// Explicitly bind environment variables (Viper's Unmarshal has issues without this)
	bindEnvVars(v)

	v.AutomaticEnv()
}

// setDefaults sets all default values in Viper.
func (l *Loader) setDefaults(cfg *Config) {
	v := l.v

	// Viewer
	v.SetDefault("viewer.duration", cfg.Viewer.Duration)
	v.SetDefault("viewer.animation_duration", cfg.Viewer.AnimationDuration)
	v.SetDefault("viewer.tick_interval", cfg.Viewer.TickInterval)
	v.SetDefault("viewer.page_width", cfg.Viewer.PageWidth)
	v.SetDefault("viewer.page_height", cfg.Viewer.PageHeight)

	// Theme
	v.SetDefault("theme.story_avatar_size", cfg.Theme.StoryAvatarSize)
	v.SetDefault("theme.text_style.foreground", cfg.Theme.TextStyle.Foreground)
	v.SetDefault("theme.text_style.background", cfg.Theme.TextStyle.Background)
	v.SetDefault("theme.text_style.bold", cfg.Theme.TextStyle.Bold)
	v.SetDefault("theme.text_style.italic", cfg.Theme.TextStyle.Italic)

	// Logging
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.enable_caller", cfg.Logging.EnableCaller)

	// TUI
	v.SetDefault("tui.cell_width_px", cfg.TUI.CellWidthPx)
	v.SetDefault("tui.cell_height_px", cfg.TUI.CellHeightPx)
	v.SetDefault("tui.alt_screen", cfg.TUI.AltScreen)
}

// loadConfigFile reads the config file. A missing file is only an error
// when one was named explicitly.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}

// ConfigFileUsed returns the config file that was loaded.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Set sets a Viper value by key. Used by the CLI to apply flag overrides.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// envBindings lists every key that supports an environment override.
var envBindings = []string{
	// Viewer
	"viewer.duration",
	"viewer.animation_duration",
	"viewer.tick_interval",
	"viewer.page_width",
	"viewer.page_height",
	// Theme
	"theme.story_avatar_size",
	"theme.text_style.foreground",
	"theme.text_style.background",
	"theme.text_style.bold",
	"theme.text_style.italic",
	// Logging
	"logging.level",
	"logging.format",
	"logging.file",
	"logging.enable_caller",
	// TUI
	"tui.cell_width_px",
	"tui.cell_height_px",
	"tui.alt_screen",
}

// bindEnvVars binds environment variables for config keys.
// Viper's Unmarshal has issues with env vars on nested structs unless explicitly bound.
func bindEnvVars(v *viper.Viper) {
	for _, key := range envBindings {
		_ = v.BindEnv(key, EnvVar(key))
	}
}

// EnvVar returns the environment variable overriding key:
// viewer.duration -> REEL_VIEWER_DURATION.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
