package decorators

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
	"github.com/ikari-pl/go-scene-hierarchy/internal/theme"
)

// Styles are the resolved row styles for one settings snapshot. A Styles
// value is built once per snapshot and never changed afterwards.
type Styles struct {
	Theme *theme.Theme

	BandEven   lipgloss.Color
	BandOdd    lipgloss.Color
	HeaderFill lipgloss.Color
	Selection  lipgloss.Color

	Label         lipgloss.Style
	LabelInactive lipgloss.Style
	Header        lipgloss.Style
	Guide         lipgloss.Style
	Arrow         lipgloss.Style
	Icon          lipgloss.Style
	Tag           lipgloss.Style
	Layer         lipgloss.Style
	Prefab        lipgloss.Style
	ToggleOn      lipgloss.Style
	ToggleOff     lipgloss.Style
	Breadcrumb    lipgloss.Style
}

// NewStyles resolves the styles for s.
func NewStyles(s *config.Settings) Styles {
	if s == nil {
		s = config.DefaultSettings()
	}
	t := theme.ByName(s.Theme)

	st := Styles{
		Theme:      t,
		BandEven:   pick(s.Band.Even, t.BandEven),
		BandOdd:    pick(s.Band.Odd, t.BandOdd),
		HeaderFill: pick(s.Header.Background, t.Header),
		Selection:  t.Selection,
	}

	st.Label = lipgloss.NewStyle().
		Foreground(t.Text)

	st.LabelInactive = lipgloss.NewStyle().
		Foreground(t.Inactive).
		Italic(true)

	st.Header = lipgloss.NewStyle().
		Foreground(pick(s.Header.Foreground, t.HeaderText)).
		Bold(true)

	st.Guide = lipgloss.NewStyle().
		Foreground(t.Guide)

	st.Arrow = lipgloss.NewStyle().
		Foreground(t.Subtle)

	st.Icon = lipgloss.NewStyle().
		Foreground(t.Subtle).
		PaddingLeft(1)

	st.Tag = lipgloss.NewStyle().
		Foreground(t.Tag).
		PaddingLeft(1)

	st.Layer = lipgloss.NewStyle().
		Foreground(t.Layer).
		PaddingLeft(1)

	st.Prefab = lipgloss.NewStyle().
		Foreground(t.Prefab).
		Bold(true)

	st.ToggleOn = lipgloss.NewStyle().
		Foreground(t.Success)

	st.ToggleOff = lipgloss.NewStyle().
		Foreground(t.Muted)

	st.Breadcrumb = lipgloss.NewStyle().
		Foreground(t.Subtle).
		Italic(true)

	return st
}

func pick(hex string, fallback lipgloss.Color) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return fallback
}

// styleCache memoises the styles of the latest settings snapshot.
type styleCache struct {
	mu       sync.Mutex
	settings *config.Settings
	styles   Styles
	built    bool
}

var styles styleCache

// StylesFor returns the styles of s, rebuilding them only when the
// snapshot changes.
func StylesFor(s *config.Settings) Styles {
	styles.mu.Lock()
	defer styles.mu.Unlock()

	if !styles.built || styles.settings != s {
		styles.styles = NewStyles(s)
		styles.settings = s
		styles.built = true
	}
	return styles.styles
}
