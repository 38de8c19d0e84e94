package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-scene-hierarchy/internal/canvas"
	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
	"github.com/ikari-pl/go-scene-hierarchy/internal/decorators"
	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
	"github.com/ikari-pl/go-scene-hierarchy/internal/scene"
	"github.com/ikari-pl/go-scene-hierarchy/internal/theme"
)

// Options configures the terminal host.
type Options struct {
	SettingsPath string
	Watch        bool
	Theme        string // Overrides the settings theme when set
	Restart      hierarchy.RestartMode
	Repository   scene.Repository // Saves scenes; defaults to the JSON repository
}

// tui implements the TUI interface.
type tui struct {
	logger   *slog.Logger
	settings *config.Settings
	opts     Options
}

// NewTUI creates a new TUI instance.
func NewTUI(logger *slog.Logger, settings *config.Settings, opts Options) TUI {
	if logger == nil {
		logger = slog.Default()
	}
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &tui{
		logger:   logger,
		settings: settings,
		opts:     opts,
	}
}

// Run opens the scenes as tabs and blocks until the user exits.
func (t *tui) Run(ctx context.Context, scenes []*scene.Scene) error {
	if len(scenes) == 0 {
		return fmt.Errorf("no scenes to show")
	}

	signal := &repaintSignal{}
	m, err := newModel(t.logger, t.settings, t.opts, signal, scenes)
	if err != nil {
		return err
	}
	m.ctx = ctx

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	signal.bind(p.Send)

	if t.opts.Watch && t.opts.SettingsPath != "" {
		w, err := config.NewWatcher(t.opts.SettingsPath,
			config.WithOnReload(func(s *config.Settings) {
				p.Send(settingsMsg{settings: s})
			}),
			config.WithOnError(func(err error) {
				p.Send(settingsErrMsg{err: err})
			}),
		)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			t.logger.Warn("Settings watcher disabled", "path", t.opts.SettingsPath, "error", err)
		} else {
			defer w.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// repaintMsg asks the model to paint the rows again.
type repaintMsg struct{}

// settingsMsg carries a settings snapshot reloaded from disk.
type settingsMsg struct {
	settings *config.Settings
}

// settingsErrMsg reports a settings file that failed to load.
type settingsErrMsg struct {
	err error
}

// repaintSignal turns dispatcher repaint requests into one pending
// repaintMsg. Requests made while a repaint is pending are folded into it.
// Requests raised while the model itself is painting are answered by the
// model and never leave as a message.
type repaintSignal struct {
	mu       sync.Mutex
	send     func(tea.Msg)
	painting bool
	refolded bool
	pending  atomic.Bool
}

func (r *repaintSignal) bind(send func(tea.Msg)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.send = send
}

// RequestRepaint implements hierarchy.Repainter.
func (r *repaintSignal) RequestRepaint() {
	r.mu.Lock()
	if r.painting {
		r.refolded = true
		r.mu.Unlock()
		return
	}
	send := r.send
	r.mu.Unlock()

	if send == nil || !r.pending.CompareAndSwap(false, true) {
		return
	}
	go send(repaintMsg{})
}

func (r *repaintSignal) beginPaint() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.painting = true
	r.refolded = false
}

// endPaint reports whether the pass asked for its own rows to be painted
// again.
func (r *repaintSignal) endPaint() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.painting = false
	return r.refolded
}

// Pending reports whether a repaint is queued.
func (r *repaintSignal) Pending() bool {
	return r.pending.Load()
}

func (r *repaintSignal) done() {
	r.pending.Store(false)
}

// sceneTab is one open scene and its panel state.
type sceneTab struct {
	scene     *scene.Scene
	collapsed map[hierarchy.ID]bool
	cursor    hierarchy.ID
}

func (t *sceneTab) expanded(id hierarchy.ID) bool {
	return !t.collapsed[id]
}

// model is the bubbletea model of the hierarchy panel.
type model struct {
	ctx        context.Context
	dispatcher *hierarchy.Dispatcher
	repo       scene.Repository
	signal     *repaintSignal
	logger     *slog.Logger
	opts       Options

	tabs   []*sceneTab
	active int

	keys     keyMap
	help     help.Model
	search   *search
	rename   textinput.Model
	renaming bool
	viewport viewport.Model
	chrome   *chrome
	canvas   *canvas.Canvas

	rows      []hierarchy.ID
	status    string
	statusErr bool
	width     int
	height    int
	showHelp  bool
}

func newModel(logger *slog.Logger, settings *config.Settings, opts Options, signal *repaintSignal, scenes []*scene.Scene) (*model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	repo := opts.Repository
	if repo == nil {
		repo = scene.NewRepository(logger)
	}
	registry := hierarchy.NewRegistry(logger, hierarchy.WithRestartMode(opts.Restart))
	settings = withTheme(settings, opts.Theme)

	d := hierarchy.NewDispatcher(registry,
		hierarchy.WithLogger(logger),
		hierarchy.WithRepainter(signal),
		hierarchy.WithSettings(settings),
	)
	if err := decorators.Install(d); err != nil {
		return nil, fmt.Errorf("failed to install decorators: %w", err)
	}

	m := &model{
		ctx:        context.Background(),
		dispatcher: d,
		repo:       repo,
		signal:     signal,
		logger:     logger,
		opts:       opts,
		keys:       defaultKeyMap(),
		help:       help.New(),
		search:     newSearch(),
		rename:     newRenameInput(),
		viewport:   viewport.New(80, 20),
		chrome:     newChrome(theme.ByName(settings.Theme)),
		canvas:     canvas.New(),
		width:      80,
		height:     24,
	}
	m.help.Width = m.width

	for _, s := range scenes {
		if err := registry.Register(s); err != nil {
			return nil, fmt.Errorf("failed to open scene %s: %w", s.Name(), err)
		}
		tab := &sceneTab{
			scene:     s,
			collapsed: make(map[hierarchy.ID]bool),
		}
		if roots := s.Roots(); len(roots) > 0 {
			tab.cursor = roots[0]
		}
		m.tabs = append(m.tabs, tab)
	}
	if err := registry.SetActive(m.tabs[0].scene); err != nil {
		return nil, err
	}

	m.refresh()
	return m, nil
}

// withTheme returns s with its theme replaced, leaving s untouched.
func withTheme(s *config.Settings, name string) *config.Settings {
	if name == "" || s.Theme == name {
		return s
	}
	cp := *s
	cp.Theme = name
	return &cp
}

// Init initializes the model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case repaintMsg:
		m.signal.done()
		m.refresh()
		return m, nil

	case settingsMsg:
		m.applySettings(msg.settings, "Settings reloaded from disk")
		return m, nil

	case settingsErrMsg:
		m.setError(msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	if m.search.IsActive() {
		cmd := m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the panel.
func (m *model) View() string {
	return m.header() + "\n" + m.viewport.View() + "\n" + m.footer()
}

// handleKeyPress handles key press messages.
func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Always handle ctrl+c
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.renaming {
		switch msg.String() {
		case "esc":
			m.endRename()
		case "enter":
			m.applyRename()
		default:
			var cmd tea.Cmd
			m.rename, cmd = m.rename.Update(msg)
			return m, cmd
		}
		m.refresh()
		return m, nil
	}

	if m.search.IsActive() {
		switch msg.String() {
		case "esc":
			m.search.Clear()
		case "enter":
			m.search.SetActive(false)
			m.jumpToMatch(true)
		default:
			cmd := m.search.Update(msg)
			m.refresh()
			return m, cmd
		}
		m.refresh()
		return m, nil
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.viewport.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.viewport.Height)
	case key.Matches(msg, m.keys.Expand):
		m.expand()
	case key.Matches(msg, m.keys.Collapse):
		m.collapse()
	case key.Matches(msg, m.keys.ExpandAll):
		clear(m.tab().collapsed)
	case key.Matches(msg, m.keys.CollapseAll):
		m.collapseAll()
	case key.Matches(msg, m.keys.MoveUp):
		m.moveSibling(-1)
	case key.Matches(msg, m.keys.MoveDown):
		m.moveSibling(1)
	case key.Matches(msg, m.keys.Rename):
		if m.startRename() {
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Toggle):
		m.toggleActive()
	case key.Matches(msg, m.keys.Destroy):
		m.destroy()
	case key.Matches(msg, m.keys.Search):
		m.search.SetActive(true)
		m.refresh()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.NextMatch):
		m.jumpToMatch(false)
	case key.Matches(msg, m.keys.Reload):
		m.reloadSettings()
	case key.Matches(msg, m.keys.NextScene):
		m.switchScene(1)
	case key.Matches(msg, m.keys.PrevScene):
		m.switchScene(-1)
	case key.Matches(msg, m.keys.CloseScene):
		if m.closeScene() {
			return m, tea.Quit
		}
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case msg.String() == "esc":
		m.search.Clear()
	}

	m.refresh()
	return m, nil
}

func (m *model) tab() *sceneTab {
	if len(m.tabs) == 0 {
		return nil
	}
	return m.tabs[m.active]
}

func (m *model) cursorIndex() int {
	tab := m.tab()
	if tab == nil {
		return -1
	}
	for i, id := range m.rows {
		if id == tab.cursor {
			return i
		}
	}
	return -1
}

func (m *model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	idx := m.cursorIndex()
	if idx < 0 {
		idx = 0
	}
	idx = max(0, min(len(m.rows)-1, idx+delta))
	m.tab().cursor = m.rows[idx]
}

func (m *model) expand() {
	tab := m.tab()
	o, ok := tab.scene.Object(tab.cursor)
	if !ok || len(o.Children()) == 0 {
		return
	}
	if tab.collapsed[tab.cursor] {
		delete(tab.collapsed, tab.cursor)
		return
	}
	tab.cursor = o.Children()[0]
}

func (m *model) collapse() {
	tab := m.tab()
	o, ok := tab.scene.Object(tab.cursor)
	if !ok {
		return
	}
	if len(o.Children()) > 0 && !tab.collapsed[tab.cursor] {
		tab.collapsed[tab.cursor] = true
		return
	}
	if pid, ok := o.Parent(); ok {
		tab.cursor = pid
	}
}

func (m *model) collapseAll() {
	tab := m.tab()
	tab.scene.Walk(nil, func(id hierarchy.ID, _ int) bool {
		if o, ok := tab.scene.Object(id); ok && len(o.Children()) > 0 {
			tab.collapsed[id] = true
		}
		return true
	})
	// Move the cursor up to its root.
	for {
		o, ok := tab.scene.Object(tab.cursor)
		if !ok {
			return
		}
		pid, ok := o.Parent()
		if !ok {
			return
		}
		tab.cursor = pid
	}
}

func (m *model) toggleActive() {
	tab := m.tab()
	o, ok := tab.scene.Object(tab.cursor)
	if !ok {
		return
	}
	if err := tab.scene.SetActive(tab.cursor, !o.ActiveSelf()); err != nil {
		m.setError(err)
		return
	}
	state := "inactive"
	if o.ActiveSelf() {
		state = "active"
	}
	m.status = fmt.Sprintf("%s is now %s", o.Name(), state)
}

// moveSibling shifts the cursor object delta places among its siblings.
func (m *model) moveSibling(delta int) {
	tab := m.tab()
	o, ok := tab.scene.Object(tab.cursor)
	if !ok {
		return
	}
	parent, hasParent := o.Parent()
	siblings := tab.scene.Roots()
	if hasParent {
		p, _ := tab.scene.Object(parent)
		siblings = p.Children()
	} else {
		parent = scene.NoParent
	}

	idx := slices.Index(siblings, tab.cursor)
	to := idx + delta
	if idx < 0 || to < 0 || to >= len(siblings) {
		return
	}
	if err := tab.scene.Move(tab.cursor, parent, to); err != nil {
		m.setError(err)
		return
	}
	m.status = fmt.Sprintf("Moved %s", o.Name())
}

func newRenameInput() textinput.Model {
	input := textinput.New()
	input.CharLimit = 100
	input.Width = 40
	input.Prompt = "rename: "
	return input
}

func (m *model) startRename() bool {
	tab := m.tab()
	o, ok := tab.scene.Object(tab.cursor)
	if !ok {
		return false
	}
	m.rename.SetValue(o.Name())
	m.rename.CursorEnd()
	m.rename.Focus()
	m.renaming = true
	return true
}

func (m *model) endRename() {
	m.renaming = false
	m.rename.Blur()
	m.rename.SetValue("")
}

func (m *model) applyRename() {
	defer m.endRename()

	tab := m.tab()
	name := strings.TrimSpace(m.rename.Value())
	if err := tab.scene.Rename(tab.cursor, name); err != nil {
		m.setError(err)
		return
	}
	m.status = fmt.Sprintf("Renamed to %s", name)
}

// save writes the active scene back to the file it came from.
func (m *model) save() {
	s := m.tab().scene
	if s.Path() == "" {
		m.status = fmt.Sprintf("%s has no scene file", s.Name())
		return
	}
	if err := m.repo.Save(m.ctx, s, s.Path()); err != nil {
		m.setError(err)
		return
	}
	m.status = fmt.Sprintf("Saved %s", s.Path())
}

func (m *model) destroy() {
	tab := m.tab()
	o, ok := tab.scene.Object(tab.cursor)
	if !ok {
		return
	}
	idx := m.cursorIndex()
	name := o.Name()
	if err := tab.scene.Destroy(tab.cursor); err != nil {
		m.setError(err)
		return
	}
	delete(tab.collapsed, tab.cursor)

	rows := tab.scene.Visible(tab.expanded)
	switch {
	case len(rows) == 0:
		tab.cursor = 0
	case idx >= len(rows):
		tab.cursor = rows[len(rows)-1]
	case idx >= 0:
		tab.cursor = rows[idx]
	default:
		tab.cursor = rows[0]
	}
	m.status = fmt.Sprintf("Destroyed %s", name)
}

// jumpToMatch moves the cursor to the next visible row matching the
// search query, wrapping around. inclusive also considers the cursor row.
func (m *model) jumpToMatch(inclusive bool) {
	query := m.search.Query()
	if strings.TrimSpace(query) == "" || len(m.rows) == 0 {
		return
	}
	tab := m.tab()
	start := m.cursorIndex()
	if !inclusive {
		start++
	}
	for i := 0; i < len(m.rows); i++ {
		id := m.rows[(max(start, 0)+i)%len(m.rows)]
		if o, ok := tab.scene.Object(id); ok && decorators.Matches(o.Name(), query) {
			tab.cursor = id
			return
		}
	}
	m.status = fmt.Sprintf("No match for %q", query)
}

func (m *model) reloadSettings() {
	if m.opts.SettingsPath == "" {
		m.status = "No settings file"
		return
	}
	s, err := config.LoadSettings(m.opts.SettingsPath)
	if err != nil {
		m.setError(err)
		return
	}
	m.applySettings(s, "Settings reloaded")
}

func (m *model) applySettings(s *config.Settings, note string) {
	s = withTheme(s, m.opts.Theme)
	if err := decorators.Reinstall(m.dispatcher); err != nil {
		m.setError(err)
		return
	}
	m.dispatcher.SetSettings(s)
	m.chrome = newChrome(theme.ByName(s.Theme))
	m.status = note
	m.statusErr = false
	m.refresh()
}

func (m *model) switchScene(delta int) {
	if len(m.tabs) < 2 {
		return
	}
	m.active = (m.active + delta + len(m.tabs)) % len(m.tabs)
	if err := m.dispatcher.Registry().SetActive(m.tab().scene); err != nil {
		m.setError(err)
	}
}

// closeScene closes the active tab. It reports true when no tab is left.
func (m *model) closeScene() bool {
	tab := m.tab()
	if err := m.dispatcher.Registry().Unregister(tab.scene.TreeID()); err != nil {
		m.setError(err)
		return false
	}
	m.tabs = append(m.tabs[:m.active], m.tabs[m.active+1:]...)
	if len(m.tabs) == 0 {
		return true
	}
	m.active %= len(m.tabs)
	if err := m.dispatcher.Registry().SetActive(m.tab().scene); err != nil {
		m.setError(err)
	}
	m.status = fmt.Sprintf("Closed %s", tab.scene.Name())
	return false
}

func (m *model) setError(err error) {
	m.logger.Warn("Panel error", "error", err)
	m.status = err.Error()
	m.statusErr = true
}

// refresh walks the visible rows of the active scene and paints every one
// of them, top to bottom.
func (m *model) refresh() {
	tab := m.tab()
	if tab == nil {
		return
	}

	m.rows = tab.scene.Visible(tab.expanded)
	m.ensureCursor()
	m.canvas.SetQuery(m.search.Query())

	// A pass that changes the arrow of a row it already drew is painted
	// once more.
	var lines []string
	for pass := 0; pass < 2; pass++ {
		m.signal.beginPaint()
		lines = m.paintRows()
		if !m.signal.endPaint() {
			break
		}
	}

	m.layout()
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.scrollToCursor()
}

func (m *model) paintRows() []string {
	tab := m.tab()
	lines := make([]string, 0, len(m.rows))
	for i, id := range m.rows {
		rect := canvas.Rect{Row: i, Width: m.width, Selected: id == tab.cursor}
		if err := m.dispatcher.DispatchRow(id, rect, m.canvas); err != nil {
			m.logger.Debug("Row painted with errors", "node", id, "error", err)
		}
		if m.canvas.Painted() {
			lines = append(lines, m.canvas.Render())
		} else {
			lines = append(lines, "")
		}
	}
	return lines
}

// ensureCursor keeps the cursor on a visible row, preferring the nearest
// visible ancestor of a hidden one.
func (m *model) ensureCursor() {
	tab := m.tab()
	if len(m.rows) == 0 {
		tab.cursor = 0
		return
	}
	if m.cursorIndex() >= 0 {
		return
	}
	id := tab.cursor
	for {
		o, ok := tab.scene.Object(id)
		if !ok {
			break
		}
		pid, ok := o.Parent()
		if !ok {
			break
		}
		id = pid
		for _, row := range m.rows {
			if row == id {
				tab.cursor = id
				return
			}
		}
	}
	tab.cursor = m.rows[0]
}

func (m *model) layout() {
	height := m.height - lipgloss.Height(m.header()) - lipgloss.Height(m.footer())
	if height < 1 {
		height = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
}

func (m *model) scrollToCursor() {
	idx := m.cursorIndex()
	if idx < 0 {
		return
	}
	switch {
	case idx < m.viewport.YOffset:
		m.viewport.SetYOffset(idx)
	case idx >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(idx - m.viewport.Height + 1)
	}
}

func (m *model) header() string {
	names := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		names[i] = t.scene.Name()
	}
	return m.chrome.Tabs(names, m.active, m.width)
}

func (m *model) footer() string {
	var lines []string
	if m.renaming {
		lines = append(lines, m.chrome.Search(m.rename.View()))
	} else if m.search.IsActive() || m.search.Query() != "" {
		lines = append(lines, m.chrome.Search(m.search.View()))
	}

	objects := 0
	if tab := m.tab(); tab != nil {
		objects = tab.scene.Len()
	}
	lines = append(lines, m.chrome.Position(m.cursorIndex(), len(m.rows), objects)+m.chrome.Status(m.status, m.statusErr))
	lines = append(lines, m.chrome.Footer(m.help.View(m.keys), m.width))
	return strings.Join(lines, "\n")
}
