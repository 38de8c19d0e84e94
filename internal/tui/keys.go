package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the hierarchy panel bindings.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	Rename      key.Binding
	Save        key.Binding
	Toggle      key.Binding
	Destroy     key.Binding
	Search      key.Binding
	NextMatch   key.Binding
	Reload      key.Binding
	NextScene   key.Binding
	PrevScene   key.Binding
	CloseScene  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse all"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Rename: key.NewBinding(
			key.WithKeys("R", "f2"),
			key.WithHelp("R", "rename"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save scene"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle active"),
		),
		Destroy: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "destroy"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload settings"),
		),
		NextScene: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next scene"),
		),
		PrevScene: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev scene"),
		),
		CloseScene: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close scene"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Expand, k.Collapse, k.ExpandAll, k.CollapseAll},
		{k.Toggle, k.Destroy, k.Search, k.NextMatch},
		{k.MoveUp, k.MoveDown, k.Rename, k.Save},
		{k.NextScene, k.PrevScene, k.CloseScene, k.Reload},
		{k.Help, k.Quit},
	}
}
