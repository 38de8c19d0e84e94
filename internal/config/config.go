// Package config provides configuration management for the hierarchy viewer:
// command line flags and the per-project settings file.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSettingsFile is looked up in the working directory when no
// settings path is given.
const DefaultSettingsFile = ".hierlens.yaml"

// Config holds the application configuration.
type Config struct {
	// Input options
	ScenePaths   []string `json:"scene_paths,omitempty"` // Empty means the built-in sample scene
	SettingsPath string   `json:"settings_path"`

	// Output options
	OutputFormat string `json:"output_format"` // "tui", "text", "json"
	OutputFile   string `json:"output_file,omitempty"`
	Width        int    `json:"width"`
	Plain        bool   `json:"plain"`

	// UI options
	Theme   string `json:"theme,omitempty"` // Overrides the settings file theme
	Watch   bool   `json:"watch"`
	Restart string `json:"restart"` // "first", "rewind"

	// Debug options
	Verbose bool   `json:"verbose"`
	Debug   bool   `json:"debug"`
	LogFile string `json:"log_file,omitempty"`
}

// NewConfig creates a new configuration with default values.
func NewConfig() *Config {
	return &Config{
		SettingsPath: DefaultSettingsFile,
		OutputFormat: "tui",
		Width:        80,
		Watch:        true,
		Restart:      "first",
	}
}

// ParseFlags parses the process command line and updates the config.
func (c *Config) ParseFlags() error {
	return c.ParseArgs(os.Args[1:])
}

// ParseArgs parses args and updates the config.
func (c *Config) ParseArgs(args []string) error {
	fs := flag.NewFlagSet("hierlens", flag.ContinueOnError)

	var scenes string
	fs.StringVar(&scenes, "scene", strings.Join(c.ScenePaths, ","), "Scene files to open (comma separated, default: built-in sample)")
	fs.StringVar(&c.SettingsPath, "settings", c.SettingsPath, "Settings file")
	fs.StringVar(&c.OutputFormat, "format", c.OutputFormat, "Output format (tui, text, json)")
	fs.StringVar(&c.OutputFile, "output", c.OutputFile, "Output file (defaults to stdout)")
	fs.IntVar(&c.Width, "width", c.Width, "Row width for text output")
	fs.BoolVar(&c.Plain, "plain", c.Plain, "Strip styling from text output")
	fs.StringVar(&c.Theme, "theme", c.Theme, "Theme (default, neon)")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "Reload the settings file when it changes")
	fs.StringVar(&c.Restart, "restart", c.Restart, "Pass restart detection (first, rewind)")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "Verbose output")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Debug output")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Write logs to this file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c.ScenePaths = splitList(scenes)
	return c.Validate()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for i, path := range c.ScenePaths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("invalid scene path %s: %w", path, err)
		}
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			return fmt.Errorf("scene file does not exist: %s", path)
		}
		c.ScenePaths[i] = abs
	}

	validFormats := map[string]bool{
		"tui":  true,
		"text": true,
		"json": true,
	}
	if !validFormats[c.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (valid: tui, text, json)", c.OutputFormat)
	}

	if c.OutputFormat != "tui" && c.Width < 10 {
		return fmt.Errorf("width must be at least 10, got %d", c.Width)
	}

	if c.Theme != "" && !IsTheme(c.Theme) {
		return fmt.Errorf("invalid theme: %s", c.Theme)
	}

	validRestart := map[string]bool{
		"first":  true,
		"rewind": true,
	}
	if !validRestart[c.Restart] {
		return fmt.Errorf("invalid restart mode: %s (valid: first, rewind)", c.Restart)
	}

	return nil
}

// IsTheme reports whether name is a known theme.
func IsTheme(name string) bool {
	switch name {
	case "default", "neon":
		return true
	default:
		return false
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
