// Package theme provides the colour palettes and glyphs shared by the row
// decorators and the terminal UI chrome.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents the complete visual theme for the application.
type Theme struct {
	// Base colors
	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color
	Muted   lipgloss.Color
	Subtle  lipgloss.Color
	Text    lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Hierarchy row colors
	BandEven   lipgloss.Color
	BandOdd    lipgloss.Color
	Header     lipgloss.Color
	HeaderText lipgloss.Color
	Guide      lipgloss.Color
	Tag        lipgloss.Color
	Layer      lipgloss.Color
	Prefab     lipgloss.Color
	Match      lipgloss.Color
	Inactive   lipgloss.Color

	// UI element colors
	Border    lipgloss.Color
	Selection lipgloss.Color
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Base:    lipgloss.Color("#0d1117"),
		Surface: lipgloss.Color("#161b22"),
		Overlay: lipgloss.Color("#21262d"),
		Muted:   lipgloss.Color("#484f58"),
		Subtle:  lipgloss.Color("#6e7681"),
		Text:    lipgloss.Color("#e6edf3"),

		Primary:   lipgloss.Color("#58a6ff"),
		Secondary: lipgloss.Color("#bc8cff"),

		Success: lipgloss.Color("#3fb950"),
		Warning: lipgloss.Color("#d29922"),
		Error:   lipgloss.Color("#f85149"),

		BandEven:   lipgloss.Color("#0d1117"),
		BandOdd:    lipgloss.Color("#131820"),
		Header:     lipgloss.Color("#1f6feb"),
		HeaderText: lipgloss.Color("#ffffff"),
		Guide:      lipgloss.Color("#30363d"),
		Tag:        lipgloss.Color("#a371f7"), // Purple for tags
		Layer:      lipgloss.Color("#7ee787"), // Green for layers
		Prefab:     lipgloss.Color("#ffa657"), // Orange for prefab overrides
		Match:      lipgloss.Color("#ffd33d"),
		Inactive:   lipgloss.Color("#484f58"),

		Border:    lipgloss.Color("#30363d"),
		Selection: lipgloss.Color("#388bfd"),
	}
}

// NeonTheme returns a vibrant neon theme.
func NeonTheme() *Theme {
	return &Theme{
		Base:    lipgloss.Color("#0a0a0f"),
		Surface: lipgloss.Color("#12121a"),
		Overlay: lipgloss.Color("#1a1a24"),
		Muted:   lipgloss.Color("#3a3a4a"),
		Subtle:  lipgloss.Color("#5a5a6a"),
		Text:    lipgloss.Color("#f0f0f5"),

		Primary:   lipgloss.Color("#00ffff"), // Cyan
		Secondary: lipgloss.Color("#ff00ff"), // Magenta

		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0055"),

		BandEven:   lipgloss.Color("#0a0a0f"),
		BandOdd:    lipgloss.Color("#14141e"),
		Header:     lipgloss.Color("#ff00ff"),
		HeaderText: lipgloss.Color("#0a0a0f"),
		Guide:      lipgloss.Color("#2a2a3a"),
		Tag:        lipgloss.Color("#ff00ff"),
		Layer:      lipgloss.Color("#00ff88"),
		Prefab:     lipgloss.Color("#ffff00"),
		Match:      lipgloss.Color("#00ffff"),
		Inactive:   lipgloss.Color("#3a3a4a"),

		Border:    lipgloss.Color("#2a2a3a"),
		Selection: lipgloss.Color("#0088aa"),
	}
}

// ByName returns the named theme, falling back to the default theme.
func ByName(name string) *Theme {
	switch name {
	case "neon":
		return NeonTheme()
	default:
		return DefaultTheme()
	}
}

// Styles holds the pre-configured styles for the UI chrome.
type Styles struct {
	theme *Theme

	// Layout styles
	Header lipgloss.Style
	Footer lipgloss.Style

	// Tab styles
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style

	// Special styles
	KeyBinding lipgloss.Style
	KeyLabel   lipgloss.Style
	Search     lipgloss.Style
	Box        lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	s := &Styles{theme: theme}

	s.Header = lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.Surface).
		Bold(true).
		Padding(0, 1)

	s.Footer = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Background(theme.Surface).
		Padding(0, 1)

	s.Tab = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Padding(0, 1)

	s.ActiveTab = lipgloss.NewStyle().
		Foreground(theme.Base).
		Background(theme.Primary).
		Bold(true).
		Padding(0, 1)

	s.Success = lipgloss.NewStyle().
		Foreground(theme.Success)

	s.Warning = lipgloss.NewStyle().
		Foreground(theme.Warning)

	s.Error = lipgloss.NewStyle().
		Foreground(theme.Error)

	s.Muted = lipgloss.NewStyle().
		Foreground(theme.Muted)

	s.KeyBinding = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Background(theme.Overlay).
		Padding(0, 1).
		Bold(true)

	s.KeyLabel = lipgloss.NewStyle().
		Foreground(theme.Subtle)

	s.Search = lipgloss.NewStyle().
		Foreground(theme.Match).
		Background(theme.Overlay).
		Padding(0, 1)

	s.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2)

	return s
}

// GetTheme returns the underlying theme.
func (s *Styles) GetTheme() *Theme {
	return s.theme
}

// Glyphs used by the hierarchy rows.
var Glyphs = struct {
	Expanded  string
	Collapsed string
	Leaf      string
	Branch    string
	LastChild string
	Pipe      string
	Blank     string
	Prefab    string
}{
	Expanded:  "▾ ",
	Collapsed: "▸ ",
	Leaf:      "  ",
	Branch:    "├─",
	LastChild: "└─",
	Pipe:      "│ ",
	Blank:     "  ",
	Prefab:    "◆",
}

// componentIcons maps well-known components to one-cell glyphs.
var componentIcons = map[string]string{
	"Animator":            "♫",
	"AudioListener":       "♪",
	"AudioSource":         "♪",
	"BoxCollider":         "□",
	"Camera":              "◉",
	"Canvas":              "▭",
	"CanvasScaler":        "⇲",
	"CapsuleCollider":     "○",
	"Image":               "▣",
	"Light":               "☀",
	"MeshRenderer":        "▲",
	"NavMeshAgent":        "⚑",
	"RawImage":            "▣",
	"Rigidbody":           "●",
	"SkinnedMeshRenderer": "△",
	"Terrain":             "◭",
	"TerrainCollider":     "▱",
	"Transform":           "✥",
}

// ScriptIcon is used for components without a dedicated glyph.
const ScriptIcon = "#"

// ComponentIcon returns the glyph for a component. overrides wins over the
// built-in table.
func ComponentIcon(component string, overrides map[string]string) string {
	if g, ok := overrides[component]; ok && g != "" {
		return g
	}
	if g, ok := componentIcons[component]; ok {
		return g
	}
	return ScriptIcon
}
