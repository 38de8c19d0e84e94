package tui

import (
	"errors"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
	"github.com/ikari-pl/go-scene-hierarchy/internal/scene"
)

func newTestModel(t *testing.T, scenes ...*scene.Scene) *model {
	t.Helper()
	if len(scenes) == 0 {
		scenes = []*scene.Scene{scene.Sample(1)}
	}
	m, err := newModel(nil, config.DefaultSettings(), Options{}, &repaintSignal{}, scenes)
	if err != nil {
		t.Fatalf("newModel() error = %v", err)
	}
	return m
}

func press(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "pgdown":
			msg = tea.KeyMsg{Type: tea.KeyPgDown}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m *model, text string) {
	for _, r := range text {
		press(m, string(r))
	}
}

func (m *model) cursorTo(t *testing.T, name string) {
	t.Helper()
	id, ok := m.tab().scene.FindByName(name)
	if !ok {
		t.Fatalf("no object named %q", name)
	}
	m.tab().cursor = id
	m.refresh()
}

func (m *model) cursorName() string {
	o, ok := m.tab().scene.Object(m.tab().cursor)
	if !ok {
		return ""
	}
	return o.Name()
}

func (m *model) rowNames() []string {
	names := make([]string, 0, len(m.rows))
	for _, id := range m.rows {
		if o, ok := m.tab().scene.Object(id); ok {
			names = append(names, o.Name())
		}
	}
	return names
}

func wantCursor(t *testing.T, m *model, want string) {
	t.Helper()
	if got := m.cursorName(); got != want {
		t.Errorf("cursor = %q, want %q", got, want)
	}
}

func wantStatus(t *testing.T, m *model, want string) {
	t.Helper()
	if m.status != want {
		t.Errorf("status = %q, want %q", m.status, want)
	}
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t)

	if len(m.rows) != m.tab().scene.Len() {
		t.Errorf("got %d rows, want %d", len(m.rows), m.tab().scene.Len())
	}
	wantCursor(t, m, "--- Environment")

	view := m.View()
	for _, want := range []string{"hierlens", "▾ Terrain", "ENVIRONMENT"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q", want)
		}
	}
}

func TestMoveCursor(t *testing.T) {
	m := newTestModel(t)

	press(m, "down", "j")
	wantCursor(t, m, "Directional Light")

	press(m, "k")
	wantCursor(t, m, "Main Camera")

	press(m, "up", "up", "up")
	wantCursor(t, m, "--- Environment")

	press(m, "pgdown")
	if m.cursorName() == "--- Environment" {
		t.Error("page down should move the cursor")
	}
}

func TestExpandCollapse(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Terrain")
	total := len(m.rows)

	press(m, "left")
	if len(m.rows) != total-4 {
		t.Errorf("got %d rows, want %d", len(m.rows), total-4)
	}
	view := m.viewport.View()
	if !strings.Contains(view, "▸ Terrain") || strings.Contains(view, "▾ Terrain") {
		t.Errorf("collapsed Terrain should show a closed arrow in the same frame:\n%s", view)
	}

	press(m, "left")
	wantCursor(t, m, "Terrain")

	press(m, "right")
	if len(m.rows) != total {
		t.Errorf("got %d rows, want %d", len(m.rows), total)
	}
	if !strings.Contains(m.viewport.View(), "▾ Terrain") {
		t.Error("expanded Terrain should show an open arrow in the same frame")
	}

	press(m, "right")
	wantCursor(t, m, "Trees")

	press(m, "h")
	press(m, "h")
	wantCursor(t, m, "Terrain")
}

func TestCollapseDoesNotQueueRepaint(t *testing.T) {
	m := newTestModel(t)
	msgs := make(chan tea.Msg, 4)
	m.signal.bind(func(msg tea.Msg) { msgs <- msg })
	m.cursorTo(t, "Terrain")

	press(m, "left")

	select {
	case msg := <-msgs:
		t.Errorf("refold painted by the model itself queued %T", msg)
	case <-time.After(50 * time.Millisecond):
	}
	if m.signal.Pending() {
		t.Error("no repaint should be pending")
	}
}

func TestCollapseAll(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Sword")

	press(m, "c")
	wantCursor(t, m, "Player")
	if len(m.rows) != len(m.tab().scene.Roots()) {
		t.Errorf("got %d rows, want only roots", len(m.rows))
	}

	press(m, "e")
	if len(m.rows) != m.tab().scene.Len() {
		t.Errorf("got %d rows, want every object", len(m.rows))
	}
}

func TestHiddenCursorMovesToAncestor(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Sword")

	player, _ := m.tab().scene.FindByName("Player")
	m.tab().collapsed[player] = true
	m.refresh()

	wantCursor(t, m, "Player")
}

func TestToggleActive(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Main Camera")

	press(m, "space")

	o, _ := m.tab().scene.Object(m.tab().cursor)
	if o.ActiveSelf() {
		t.Error("Main Camera should be inactive")
	}
	wantStatus(t, m, "Main Camera is now inactive")
}

func TestDestroy(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Terrain")
	before := m.tab().scene.Len()

	press(m, "d")

	if got := m.tab().scene.Len(); got != before-5 {
		t.Errorf("Len() = %d, want %d", got, before-5)
	}
	wantCursor(t, m, "--- Actors")
	wantStatus(t, m, "Destroyed Terrain")
	if strings.Contains(m.viewport.View(), "Terrain") {
		t.Error("destroyed rows should not be drawn")
	}
}

func TestDestroyLastRow(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Debug Overlay")

	press(m, "d")

	wantCursor(t, m, "Minimap")
}

func TestMoveSibling(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Main Camera")

	press(m, "K")
	if got := m.rowNames()[0]; got != "Main Camera" {
		t.Errorf("first row = %q, want Main Camera", got)
	}
	wantCursor(t, m, "Main Camera")
	wantStatus(t, m, "Moved Main Camera")

	press(m, "K")
	if got := m.rowNames()[0]; got != "Main Camera" {
		t.Errorf("first row = %q, moving past the top should do nothing", got)
	}

	press(m, "J", "J")
	if got := m.rowNames()[:3]; !reflect.DeepEqual(got, []string{"--- Environment", "Directional Light", "Main Camera"}) {
		t.Errorf("rows = %v", got)
	}
}

func TestMoveChildStaysUnderParent(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Pine")

	press(m, "K")

	trees, _ := m.tab().scene.FindByName("Trees")
	o, _ := m.tab().scene.Object(trees)
	children := o.Children()
	first, _ := m.tab().scene.Object(children[0])
	if first.Name() != "Pine" {
		t.Errorf("first child of Trees = %q, want Pine", first.Name())
	}
	rows := m.rowNames()
	i := slices.Index(rows, "Trees")
	if got := rows[i+1 : i+3]; !reflect.DeepEqual(got, []string{"Pine", "Oak"}) {
		t.Errorf("rows under Trees = %v, want [Pine Oak]", got)
	}
}

func TestRename(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Terrain")

	press(m, "R")
	if !m.renaming {
		t.Fatal("R should open the rename input")
	}
	typeText(m, " Mesh")
	if m.cursorName() != "Terrain" {
		t.Error("typing should not rename before enter")
	}
	press(m, "enter")

	wantCursor(t, m, "Terrain Mesh")
	wantStatus(t, m, "Renamed to Terrain Mesh")
	if !strings.Contains(m.viewport.View(), "▾ Terrain Mesh") {
		t.Error("the new name should be drawn")
	}
}

func TestRenameCancelAndEmpty(t *testing.T) {
	m := newTestModel(t)
	m.cursorTo(t, "Rocks")

	press(m, "R")
	typeText(m, "dj")
	press(m, "esc")
	wantCursor(t, m, "Rocks")
	if m.renaming {
		t.Error("esc should close the rename input")
	}

	press(m, "R")
	m.rename.SetValue("  ")
	press(m, "enter")
	wantCursor(t, m, "Rocks")
	if !m.statusErr {
		t.Error("an empty name should be reported")
	}
}

func TestSave(t *testing.T) {
	s := scene.New(1, "Level")
	root, err := s.Add(scene.NoParent, scene.Spec{Name: "Root", Active: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(root, scene.Spec{Name: "Child", Active: true}); err != nil {
		t.Fatal(err)
	}
	s.SetPath(filepath.Join(t.TempDir(), "level.json"))

	m := newTestModel(t, s)
	m.cursorTo(t, "Child")
	press(m, "R")
	typeText(m, "ren")
	press(m, "enter", "s")

	wantStatus(t, m, "Saved "+s.Path())

	loaded, err := scene.NewRepository(nil).Load(m.ctx, s.Path(), 1)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := loaded.FindByName("Children"); !ok {
		t.Error("saved scene should carry the rename")
	}
}

func TestSaveWithoutFile(t *testing.T) {
	m := newTestModel(t)

	press(m, "s")

	wantStatus(t, m, "Sample has no scene file")
}

func TestSearch(t *testing.T) {
	m := newTestModel(t)

	press(m, "/")
	if !m.search.IsActive() {
		t.Fatal("/ should open the search input")
	}
	typeText(m, "cam")
	press(m, "enter")

	if m.search.IsActive() {
		t.Error("enter should close the search input")
	}
	if m.search.Query() != "cam" {
		t.Errorf("Query() = %q, want cam", m.search.Query())
	}
	wantCursor(t, m, "Main Camera")

	press(m, "n")
	wantCursor(t, m, "Camera Target")

	press(m, "n")
	wantCursor(t, m, "Main Camera")

	press(m, "esc")
	if m.search.Query() != "" {
		t.Errorf("Query() = %q, want empty after esc", m.search.Query())
	}
}

func TestSearchNoMatch(t *testing.T) {
	m := newTestModel(t)

	press(m, "/")
	typeText(m, "zzz")
	press(m, "enter")

	wantCursor(t, m, "--- Environment")
	if !strings.Contains(m.status, "No match") {
		t.Errorf("status = %q, want No match", m.status)
	}
}

func TestSearchKeysDoNotNavigate(t *testing.T) {
	m := newTestModel(t)

	press(m, "/")
	typeText(m, "jd")

	wantCursor(t, m, "--- Environment")
	if len(m.rows) != m.tab().scene.Len() {
		t.Error("typing d while searching should not destroy anything")
	}
	if m.search.Query() != "jd" {
		t.Errorf("Query() = %q, want jd", m.search.Query())
	}
}

func TestSceneTabs(t *testing.T) {
	m := newTestModel(t, scene.Sample(1), scene.Sample(2))

	press(m, "tab")
	if m.active != 1 {
		t.Errorf("active tab = %d, want 1", m.active)
	}
	active, err := m.dispatcher.Registry().Active()
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if active.Tree().TreeID() != 2 {
		t.Errorf("active tree = %d, want 2", active.Tree().TreeID())
	}

	press(m, "down")
	press(m, "tab")
	wantCursor(t, m, "--- Environment")

	press(m, "x")
	if len(m.tabs) != 1 {
		t.Errorf("got %d tabs, want 1", len(m.tabs))
	}
	if got := m.dispatcher.Registry().IDs(); !reflect.DeepEqual(got, []hierarchy.TreeID{2}) {
		t.Errorf("IDs() = %v, want [2]", got)
	}

	cmd := press(m, "x")
	if cmd == nil {
		t.Fatal("closing the last tab should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestWindowSize(t *testing.T) {
	m := newTestModel(t)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	if m.viewport.Width != 100 {
		t.Errorf("viewport width = %d, want 100", m.viewport.Width)
	}
	if m.viewport.Height <= 0 || m.viewport.Height >= 30 {
		t.Errorf("viewport height = %d, want room for header and footer", m.viewport.Height)
	}
}

func TestScrollFollowsCursor(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})

	m.cursorTo(t, "Debug Overlay")

	if !strings.Contains(m.viewport.View(), "Debug Overlay") {
		t.Error("the cursor row should be scrolled into view")
	}
	if m.viewport.YOffset <= 0 {
		t.Errorf("YOffset = %d, want a scrolled viewport", m.viewport.YOffset)
	}
}

func TestSettingsMessages(t *testing.T) {
	m := newTestModel(t)
	before := m.dispatcher.Decorators()

	s := config.DefaultSettings()
	s.Theme = "neon"
	m.Update(settingsMsg{settings: s})

	if m.dispatcher.Settings() != s {
		t.Error("the reloaded settings should reach the dispatcher")
	}
	wantStatus(t, m, "Settings reloaded from disk")
	if m.statusErr {
		t.Error("statusErr should be false")
	}

	after := m.dispatcher.Decorators()
	if len(after) != len(before) {
		t.Fatalf("got %d decorators, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i].Name() != after[i].Name() {
			t.Errorf("decorator %d = %s, want %s", i, after[i].Name(), before[i].Name())
		}
		if before[i] == after[i] {
			t.Errorf("%s should be rebuilt on reload", before[i].Name())
		}
	}

	m.Update(settingsErrMsg{err: errors.New("bad yaml")})
	if !m.statusErr {
		t.Error("statusErr should be true")
	}
	if !strings.Contains(m.View(), "bad yaml") {
		t.Error("View() should show the error")
	}
}

func TestThemeOverride(t *testing.T) {
	m, err := newModel(nil, config.DefaultSettings(), Options{Theme: "neon"}, &repaintSignal{}, []*scene.Scene{scene.Sample(1)})
	if err != nil {
		t.Fatalf("newModel() error = %v", err)
	}

	m.Update(settingsMsg{settings: config.DefaultSettings()})

	if got := m.dispatcher.Settings().Theme; got != "neon" {
		t.Errorf("Theme = %q, want neon", got)
	}
}

func TestReloadWithoutFile(t *testing.T) {
	m := newTestModel(t)

	press(m, "r")

	wantStatus(t, m, "No settings file")
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)

	press(m, "?")
	if !m.help.ShowAll {
		t.Error("? should show the full help")
	}
	if !strings.Contains(m.View(), "expand all") {
		t.Error("full help should list expand all")
	}

	press(m, "?")
	if m.help.ShowAll {
		t.Error("? again should hide the full help")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestRepaintSignalCoalesces(t *testing.T) {
	sig := &repaintSignal{}
	msgs := make(chan tea.Msg, 4)
	sig.bind(func(msg tea.Msg) { msgs <- msg })

	sig.RequestRepaint()
	sig.RequestRepaint()
	if !sig.Pending() {
		t.Error("a repaint should be pending")
	}

	select {
	case msg := <-msgs:
		if _, ok := msg.(repaintMsg); !ok {
			t.Errorf("got %T, want repaintMsg", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no repaint message sent")
	}
	select {
	case <-msgs:
		t.Fatal("requests made while pending should be folded")
	case <-time.After(50 * time.Millisecond):
	}

	sig.done()
	sig.RequestRepaint()
	select {
	case <-msgs:
	case <-time.After(time.Second):
		t.Fatal("no repaint message after done")
	}
}

func TestRepaintSignalWhilePainting(t *testing.T) {
	sig := &repaintSignal{}
	msgs := make(chan tea.Msg, 4)
	sig.bind(func(msg tea.Msg) { msgs <- msg })

	sig.beginPaint()
	sig.RequestRepaint()
	if !sig.endPaint() {
		t.Error("endPaint() should report the request")
	}
	if sig.Pending() {
		t.Error("requests raised while painting should not queue a message")
	}

	sig.beginPaint()
	if sig.endPaint() {
		t.Error("endPaint() should start each pass clean")
	}
}

func TestRepaintSignalUnbound(t *testing.T) {
	sig := &repaintSignal{}
	sig.RequestRepaint()
	if sig.Pending() {
		t.Error("an unbound signal should not stay pending")
	}
}

func TestRepaintMessageClearsPending(t *testing.T) {
	m := newTestModel(t)
	m.signal.pending.Store(true)

	m.Update(repaintMsg{})

	if m.signal.Pending() {
		t.Error("repaintMsg should clear the pending flag")
	}
}
