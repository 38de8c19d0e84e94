// Package decorators holds the row decorators of the hierarchy panel.
package decorators

import (
	"fmt"

	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
)

// Decorator names, as used by the settings file.
const (
	NameBand        = "band"
	NameConnectors  = "connectors"
	NameLabel       = "label"
	NameHeader      = "header"
	NameIcons       = "icons"
	NameBadges      = "badges"
	NamePrefab      = "prefab"
	NameToggle      = "toggle"
	NameBreadcrumbs = "breadcrumbs"
	NameSearch      = "search"
	NameSelection   = "selection"
)

// Object is the node shape the object-aware decorators draw. Nodes that do
// not implement it only get the structural decorators.
type Object interface {
	hierarchy.Node

	Name() string
	Tag() string
	Layer() string
	ActiveSelf() bool
	ActiveInHierarchy() bool
	Components() []string
	PrefabOverrides() int
}

func asObject(n hierarchy.Node) (Object, bool) {
	o, ok := n.(Object)
	return o, ok
}

// displayName returns the object name or a placeholder for plain nodes.
func displayName(n hierarchy.Node) string {
	if o, ok := asObject(n); ok {
		return o.Name()
	}
	return fmt.Sprintf("#%d", n.ID())
}

// base carries the identity every decorator shares.
type base struct {
	name  string
	layer hierarchy.Layer
}

// Name returns the decorator name.
func (b base) Name() string {
	return b.name
}

// Layer returns the paint layer.
func (b base) Layer() hierarchy.Layer {
	return b.layer
}

func (b base) on(s *config.Settings) bool {
	return s.Enabled(b.name)
}

func settingsOf(view hierarchy.View) *config.Settings {
	if view.Settings == nil {
		return config.DefaultSettings()
	}
	return view.Settings
}

func stylesOf(view hierarchy.View) Styles {
	return StylesFor(view.Settings)
}
