package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-scene-hierarchy/internal/theme"
)

// chrome renders everything around the hierarchy rows.
type chrome struct {
	theme  *theme.Theme
	styles *theme.Styles

	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
	errorStyle  lipgloss.Style
	dimStyle    lipgloss.Style
}

func newChrome(t *theme.Theme) *chrome {
	if t == nil {
		t = theme.DefaultTheme()
	}
	return &chrome{
		theme:  t,
		styles: theme.NewStyles(t),

		titleStyle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		statusStyle: lipgloss.NewStyle().
			Foreground(t.Success).
			Padding(0, 1),

		errorStyle: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Error).
			Bold(true).
			Padding(0, 1),

		dimStyle: lipgloss.NewStyle().
			Foreground(t.Muted),
	}
}

// Tabs renders the scene tab bar followed by the accent rule.
func (c *chrome) Tabs(names []string, active, width int) string {
	var b strings.Builder
	b.WriteString(c.titleStyle.Render("hierlens"))
	for i, name := range names {
		if i == active {
			b.WriteString(c.styles.ActiveTab.Render(name))
		} else {
			b.WriteString(c.styles.Tab.Render(name))
		}
	}

	bar := c.styles.Header.
		Width(width).
		MaxWidth(width).
		Render(b.String())

	return bar + "\n" + c.rule(width)
}

// rule draws a two-tone accent line under the tab bar.
func (c *chrome) rule(width int) string {
	if width <= 0 {
		width = 80
	}

	colors := []lipgloss.Color{
		c.theme.Primary,
		c.theme.Secondary,
		c.theme.Primary,
	}

	var b strings.Builder
	segmentWidth := width / len(colors)
	for i, color := range colors {
		n := segmentWidth
		if i == len(colors)-1 {
			// Fill remaining width
			n = width - i*segmentWidth
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▀", n)))
	}
	return b.String()
}

// Status renders a one-line message.
func (c *chrome) Status(text string, isErr bool) string {
	if text == "" {
		return ""
	}
	if isErr {
		return c.errorStyle.Render(text)
	}
	return c.statusStyle.Render(text)
}

// Position renders the cursor position summary.
func (c *chrome) Position(index, total, objects int) string {
	if total == 0 {
		return c.dimStyle.Render(" empty scene")
	}
	return c.dimStyle.Render(fmt.Sprintf(" %d/%d rows · %d objects", index+1, total, objects))
}

// Footer wraps the key help line.
func (c *chrome) Footer(help string, width int) string {
	return c.styles.Footer.
		Width(width).
		MaxWidth(width).
		Render(help)
}

// Search renders the search input line.
func (c *chrome) Search(input string) string {
	return c.styles.Search.Render(input)
}
