// Package config handles reel configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure for reel.
type Config struct {
	// Viewer playback and geometry settings
	Viewer ViewerConfig `yaml:"viewer" mapstructure:"viewer"`

	// Theme settings passed through to the render host
	Theme ThemeConfig `yaml:"theme" mapstructure:"theme"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// TUI settings
	TUI TUIConfig `yaml:"tui" mapstructure:"tui"`
}

// ViewerConfig contains playback and viewport settings.
type ViewerConfig struct {
	// Duration is the playback duration of stories that set none.
	Duration time.Duration `yaml:"duration" mapstructure:"duration"`

	// AnimationDuration is the length of page slides and the entry/exit
	// animation. Zero disables animations.
	AnimationDuration time.Duration `yaml:"animation_duration" mapstructure:"animation_duration"`

	// TickInterval is how often the viewer polls its timer and redraws.
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`

	// PageWidth and PageHeight are the viewport in logical pixels, used
	// when the host cannot measure one.
	PageWidth  float64 `yaml:"page_width" mapstructure:"page_width"`
	PageHeight float64 `yaml:"page_height" mapstructure:"page_height"`
}

// ThemeConfig is handed to rendering untouched.
type ThemeConfig struct {
	// StoryAvatarSize is the avatar edge length in cells.
	StoryAvatarSize int `yaml:"story_avatar_size" mapstructure:"story_avatar_size"`

	TextStyle TextStyle `yaml:"text_style" mapstructure:"text_style"`
}

// TextStyle describes story text. Colors accept anything lipgloss does
// ("#ff8800", "205").
type TextStyle struct {
	Foreground string `yaml:"foreground" mapstructure:"foreground"`
	Background string `yaml:"background" mapstructure:"background"`
	Bold       bool   `yaml:"bold" mapstructure:"bold"`
	Italic     bool   `yaml:"italic" mapstructure:"italic"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path. The terminal viewer owns the
	// screen, so it logs nowhere unless this is set.
	File string `yaml:"file" mapstructure:"file"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// TUIConfig contains terminal host settings.
type TUIConfig struct {
	// CellWidthPx and CellHeightPx convert terminal cells to logical
	// pixels so drag thresholds keep their physical meaning.
	CellWidthPx  float64 `yaml:"cell_width_px" mapstructure:"cell_width_px"`
	CellHeightPx float64 `yaml:"cell_height_px" mapstructure:"cell_height_px"`

	// AltScreen runs the viewer on the alternate screen.
	AltScreen bool `yaml:"alt_screen" mapstructure:"alt_screen"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Duration:          5 * time.Second,
			AnimationDuration: 300 * time.Millisecond,
			TickInterval:      16 * time.Millisecond,
			PageWidth:         390,
			PageHeight:        844,
		},
		Theme: ThemeConfig{
			StoryAvatarSize: 3,
			TextStyle: TextStyle{
				Foreground: "#F5F5F5",
				Bold:       true,
			},
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			EnableCaller: false,
		},
		TUI: TUIConfig{
			CellWidthPx:  8,
			CellHeightPx: 16,
			AltScreen:    true,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Viewer.Duration <= 0 {
		return fmt.Errorf("viewer.duration must be positive")
	}
	if c.Viewer.AnimationDuration < 0 {
		return fmt.Errorf("viewer.animation_duration must not be negative")
	}
	if c.Viewer.TickInterval < time.Millisecond {
		return fmt.Errorf("viewer.tick_interval must be at least 1ms")
	}
	if c.Viewer.PageWidth <= 0 || c.Viewer.PageHeight <= 0 {
		return fmt.Errorf("viewer.page_width and viewer.page_height must be positive")
	}
	if c.Theme.StoryAvatarSize < 0 {
		return fmt.Errorf("theme.story_avatar_size must not be negative")
	}
	if c.TUI.CellWidthPx <= 0 || c.TUI.CellHeightPx <= 0 {
		return fmt.Errorf("tui.cell_width_px and tui.cell_height_px must be positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be one of console, json")
	}
	return nil
}

// EnsureLogDirectory creates the parent directory of the log file.
func (c *Config) EnsureLogDirectory() error {
	if c.Logging.File == "" {
		return nil
	}
	dir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// ConfigDir returns the directory reel keeps its own files in.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "reel")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "reel")
}
