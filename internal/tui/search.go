package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// search holds the row search input. The query is highlighted by the
// search decorator; it never hides rows.
type search struct {
	input  textinput.Model
	active bool
}

func newSearch() *search {
	input := textinput.New()
	input.Placeholder = "Search objects by name..."
	input.CharLimit = 100
	input.Width = 40
	input.Prompt = "/ "

	return &search{input: input}
}

// IsActive returns true while the input has focus.
func (s *search) IsActive() bool {
	return s.active
}

// SetActive focuses or blurs the input. The query is kept either way.
func (s *search) SetActive(active bool) {
	s.active = active
	if active {
		s.input.Focus()
	} else {
		s.input.Blur()
	}
}

// Update feeds a message to the input.
func (s *search) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// Clear drops the query and leaves search mode.
func (s *search) Clear() {
	s.input.SetValue("")
	s.SetActive(false)
}

// Query returns the current query.
func (s *search) Query() string {
	return s.input.Value()
}

// SetQuery replaces the query.
func (s *search) SetQuery(q string) {
	s.input.SetValue(q)
}

// View renders the input line.
func (s *search) View() string {
	return s.input.View()
}
