package output

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-scene-hierarchy/internal/canvas"
	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
	"github.com/ikari-pl/go-scene-hierarchy/internal/decorators"
	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
	"github.com/ikari-pl/go-scene-hierarchy/internal/scene"
)

func newDispatcher(t *testing.T) *hierarchy.Dispatcher {
	t.Helper()
	d := hierarchy.NewDispatcher(hierarchy.NewRegistry(nil), hierarchy.WithSettings(config.DefaultSettings()))
	if err := decorators.Install(d); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	return d
}

func rowByName(t *testing.T, f *Frame, name string) Row {
	t.Helper()
	for _, r := range f.Rows {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no row named %q", name)
	return Row{}
}

func TestRenderSample(t *testing.T) {
	d := newDispatcher(t)
	s := scene.Sample(1)

	frame, err := Render(context.Background(), d, s, RenderOptions{Width: 60})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if frame.Scene != "Sample" {
		t.Errorf("Scene = %q, want Sample", frame.Scene)
	}
	if len(frame.Rows) != s.Len() {
		t.Errorf("got %d rows, want %d", len(frame.Rows), s.Len())
	}
	if frame.Pass != 1 {
		t.Errorf("Pass = %d, want 1", frame.Pass)
	}

	terrain := rowByName(t, frame, "Terrain")
	if !terrain.HasChildren || !terrain.Foldout {
		t.Errorf("Terrain should be an open parent: %+v", terrain)
	}
	if !strings.Contains(terrain.Text, "▾ Terrain") {
		t.Errorf("Terrain text = %q, want an open arrow", terrain.Text)
	}

	sword := rowByName(t, frame, "Sword")
	if sword.Depth != 2 || !sword.LastSibling || sword.Foldout {
		t.Errorf("Sword = %+v, want a depth 2 last sibling leaf", sword)
	}

	header := rowByName(t, frame, "--- Environment")
	if !strings.Contains(header.Text, "ENVIRONMENT") {
		t.Errorf("header text = %q", header.Text)
	}
	if !slices.Contains(header.Decorators, decorators.NameHeader) {
		t.Errorf("header decorators = %v, want %s", header.Decorators, decorators.NameHeader)
	}

	for _, r := range frame.Rows {
		if !r.Painted {
			t.Errorf("%s was not painted", r.Name)
		}
		if w := lipgloss.Width(r.Text); w != 60 {
			t.Errorf("%s width = %d, want 60", r.Name, w)
		}
	}
}

func TestRenderCollapsed(t *testing.T) {
	d := newDispatcher(t)
	s := scene.Sample(1)
	terrainID, _ := s.FindByName("Terrain")

	frame, err := Render(context.Background(), d, s, RenderOptions{
		Width:    60,
		Expanded: func(id hierarchy.ID) bool { return id != terrainID },
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	terrain := rowByName(t, frame, "Terrain")
	if terrain.Foldout {
		t.Error("collapsed Terrain should not be folded out")
	}
	if !strings.Contains(terrain.Text, "▸ Terrain") {
		t.Errorf("Terrain text = %q, want a closed arrow", terrain.Text)
	}
	for _, r := range frame.Rows {
		if r.Name == "Oak" {
			t.Error("children of a collapsed row should not be rendered")
		}
	}
}

func TestRenderSelectionAndQuery(t *testing.T) {
	d := newDispatcher(t)
	s := scene.Sample(1)
	sword, _ := s.FindByName("Sword")

	frame, err := Render(context.Background(), d, s, RenderOptions{Width: 80, Selected: sword, Query: "sword"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if row := rowByName(t, frame, "Sword"); !strings.Contains(row.Text, "Player › Weapon Socket") {
		t.Errorf("Sword text = %q, want breadcrumbs", row.Text)
	}
}

func TestRenderSwitchesScenes(t *testing.T) {
	d := newDispatcher(t)
	a, b := scene.Sample(1), scene.Sample(2)

	for _, s := range []*scene.Scene{a, b} {
		if _, err := Render(context.Background(), d, s, RenderOptions{Width: 60}); err != nil {
			t.Fatalf("Render(%d) error = %v", s.TreeID(), err)
		}
	}

	if got, want := d.Registry().IDs(), []hierarchy.TreeID{1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	active, err := d.Registry().Active()
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if active.Tree().TreeID() != 2 {
		t.Errorf("active tree = %d, want 2", active.Tree().TreeID())
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frame, err := Render(ctx, newDispatcher(t), scene.Sample(1), RenderOptions{Width: 60})
	if frame != nil {
		t.Error("Render() should return no frame when cancelled")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

// brokenDecorator fails on every row.
type brokenDecorator struct{}

func (brokenDecorator) Name() string { return "broken" }

func (brokenDecorator) Layer() hierarchy.Layer { return hierarchy.LayerOverlay }

func (brokenDecorator) IsEnabled(*config.Settings, hierarchy.Node) bool { return true }

func (brokenDecorator) Draw(*canvas.Canvas, hierarchy.Node, hierarchy.View) error {
	return errors.New("broken")
}

func TestRenderKeepsRowsOnDecoratorErrors(t *testing.T) {
	d := newDispatcher(t)
	if err := d.Use(brokenDecorator{}); err != nil {
		t.Fatalf("Use() error = %v", err)
	}
	s := scene.Sample(1)

	frame, err := Render(context.Background(), d, s, RenderOptions{Width: 60})

	if err == nil {
		t.Error("Render() should report decorator errors")
	}
	if frame == nil {
		t.Fatal("Render() should still return the frame")
	}
	if len(frame.Rows) != s.Len() {
		t.Errorf("got %d rows, want %d", len(frame.Rows), s.Len())
	}
	if row := rowByName(t, frame, "Terrain"); !strings.Contains(row.Text, "Terrain") {
		t.Errorf("Terrain text = %q", row.Text)
	}
}
