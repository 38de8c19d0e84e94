package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Settings is the per-project look of the hierarchy. A loaded Settings
// value is treated as an immutable snapshot: reloads produce a new value.
type Settings struct {
	Theme       string             `yaml:"theme,omitempty"`
	Decorators  map[string]bool    `yaml:"decorators,omitempty"` // Name -> enabled, missing = enabled
	Band        BandSettings       `yaml:"band"`
	Header      HeaderSettings     `yaml:"header"`
	Icons       IconSettings       `yaml:"icons"`
	Badges      BadgeSettings      `yaml:"badges"`
	Toggle      ToggleSettings     `yaml:"toggle"`
	Breadcrumbs BreadcrumbSettings `yaml:"breadcrumbs"`
}

// BandSettings controls two-tone row banding.
type BandSettings struct {
	Even string `yaml:"even,omitempty"` // Hex colour, empty = theme
	Odd  string `yaml:"odd,omitempty"`
}

// HeaderSettings controls prefix-based header rows.
type HeaderSettings struct {
	Prefix     string `yaml:"prefix"`
	Background string `yaml:"background,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Uppercase  bool   `yaml:"uppercase"`
}

// IconSettings controls the component icon strip.
type IconSettings struct {
	Max    int               `yaml:"max"`
	Hidden []string          `yaml:"hidden,omitempty"` // Components never shown
	Glyphs map[string]string `yaml:"glyphs,omitempty"` // Component -> glyph overrides
}

// BadgeSettings controls tag and layer badges.
type BadgeSettings struct {
	ShowTag      bool   `yaml:"show_tag"`
	ShowLayer    bool   `yaml:"show_layer"`
	DefaultTag   string `yaml:"default_tag"`
	DefaultLayer string `yaml:"default_layer"`
}

// ToggleSettings controls the active-state glyphs.
type ToggleSettings struct {
	On  string `yaml:"on"`
	Off string `yaml:"off"`
}

// BreadcrumbSettings controls the ancestor path of the selected row.
type BreadcrumbSettings struct {
	Separator     string `yaml:"separator"`
	MaxItems      int    `yaml:"max_items"`
	MaxNameLength int    `yaml:"max_name_length"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Theme:      "default",
		Decorators: make(map[string]bool),
		Header: HeaderSettings{
			Prefix:    "---",
			Uppercase: true,
		},
		Icons: IconSettings{
			Max:    4,
			Hidden: []string{"Transform"},
		},
		Badges: BadgeSettings{
			ShowTag:      true,
			ShowLayer:    true,
			DefaultTag:   "Untagged",
			DefaultLayer: "Default",
		},
		Toggle: ToggleSettings{
			On:  "●",
			Off: "○",
		},
		Breadcrumbs: BreadcrumbSettings{
			Separator:     "›",
			MaxItems:      10,
			MaxNameLength: 20,
		},
	}
}

// Enabled reports whether the named decorator is switched on.
func (s *Settings) Enabled(name string) bool {
	if s == nil || s.Decorators == nil {
		return true
	}
	on, ok := s.Decorators[name]
	return !ok || on
}

// IconHidden reports whether a component is excluded from the icon strip.
func (s *Settings) IconHidden(component string) bool {
	for _, h := range s.Icons.Hidden {
		if h == component {
			return true
		}
	}
	return false
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks the settings for values the decorators cannot use.
func (s *Settings) Validate() error {
	if s.Theme != "" && !IsTheme(s.Theme) {
		return fmt.Errorf("invalid theme: %s", s.Theme)
	}

	colors := map[string]string{
		"band.even":         s.Band.Even,
		"band.odd":          s.Band.Odd,
		"header.background": s.Header.Background,
		"header.foreground": s.Header.Foreground,
	}
	for key, value := range colors {
		if value != "" && !hexColor.MatchString(value) {
			return fmt.Errorf("invalid colour for %s: %q", key, value)
		}
	}

	if s.Icons.Max < 0 {
		return fmt.Errorf("icons.max must not be negative, got %d", s.Icons.Max)
	}
	if s.Breadcrumbs.MaxItems < 0 {
		return fmt.Errorf("breadcrumbs.max_items must not be negative, got %d", s.Breadcrumbs.MaxItems)
	}
	if s.Breadcrumbs.MaxNameLength != 0 && s.Breadcrumbs.MaxNameLength < 4 {
		return fmt.Errorf("breadcrumbs.max_name_length must be 0 or at least 4, got %d", s.Breadcrumbs.MaxNameLength)
	}

	return nil
}

// LoadSettings reads the settings file at path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if s.Decorators == nil {
		s.Decorators = make(map[string]bool)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}

	return s, nil
}

// SaveSettings writes s to path as YAML.
func SaveSettings(s *Settings, path string) error {
	if s == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}
