package decorators

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ikari-pl/go-scene-hierarchy/internal/canvas"
	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
	"github.com/ikari-pl/go-scene-hierarchy/internal/theme"
)

// Prefab marks objects that carry prefab overrides.
type Prefab struct{ base }

// NewPrefab creates the prefab override decorator.
func NewPrefab() hierarchy.Decorator {
	return &Prefab{base{NamePrefab, hierarchy.LayerOverlay}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Prefab) IsEnabled(s *config.Settings, node hierarchy.Node) bool {
	o, ok := asObject(node)
	return d.on(s) && ok && o.PrefabOverrides() > 0
}

// Draw implements hierarchy.Decorator.
func (d *Prefab) Draw(c *canvas.Canvas, node hierarchy.Node, view hierarchy.View) error {
	o, ok := asObject(node)
	if !ok {
		return nil
	}
	c.Suffix(" "+theme.Glyphs.Prefab+strconv.Itoa(o.PrefabOverrides()), stylesOf(view).Prefab)
	return nil
}

// Toggle shows the object's own active state at the far left.
type Toggle struct{ base }

// NewToggle creates the active-state decorator.
func NewToggle() hierarchy.Decorator {
	return &Toggle{base{NameToggle, hierarchy.LayerOverlay}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Toggle) IsEnabled(s *config.Settings, node hierarchy.Node) bool {
	_, ok := asObject(node)
	return d.on(s) && ok
}

// Draw implements hierarchy.Decorator.
func (d *Toggle) Draw(c *canvas.Canvas, node hierarchy.Node, view hierarchy.View) error {
	o, ok := asObject(node)
	if !ok {
		return nil
	}
	s := settingsOf(view)
	st := stylesOf(view)
	if o.ActiveSelf() {
		c.Mark(s.Toggle.On+" ", st.ToggleOn)
	} else {
		c.Mark(s.Toggle.Off+" ", st.ToggleOff)
	}
	return nil
}

// Breadcrumbs appends the ancestor path to the selected row.
type Breadcrumbs struct{ base }

// NewBreadcrumbs creates the breadcrumb decorator.
func NewBreadcrumbs() hierarchy.Decorator {
	return &Breadcrumbs{base{NameBreadcrumbs, hierarchy.LayerOverlay}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Breadcrumbs) IsEnabled(s *config.Settings, node hierarchy.Node) bool {
	_, hasParent := node.Parent()
	return d.on(s) && hasParent && s != nil && s.Breadcrumbs.MaxItems != 0
}

// Draw implements hierarchy.Decorator.
func (d *Breadcrumbs) Draw(c *canvas.Canvas, node hierarchy.Node, view hierarchy.View) error {
	if !c.Rect().Selected || view.Current == nil || view.Current.ID() != node.ID() {
		return nil
	}
	s := settingsOf(view)

	path := BreadcrumbPath(view.Tree, view.Current.Ancestors(), s.Breadcrumbs)
	if path == "" {
		return nil
	}
	c.Suffix("  "+path, stylesOf(view).Breadcrumb)
	return nil
}

// BreadcrumbPath renders ancestors, root first, as a separator-joined path.
// Long names are shortened and only the last MaxItems ancestors are kept.
func BreadcrumbPath(r hierarchy.Resolver, ancestors []hierarchy.ID, bs config.BreadcrumbSettings) string {
	if bs.MaxItems > 0 && len(ancestors) > bs.MaxItems {
		// Drop the oldest.
		ancestors = ancestors[len(ancestors)-bs.MaxItems:]
	}

	var parts []string
	for _, id := range ancestors {
		n, ok := r.Resolve(id)
		if !ok {
			continue
		}
		name := displayName(n)
		if bs.MaxNameLength > 0 && runewidth.StringWidth(name) > bs.MaxNameLength {
			name = runewidth.Truncate(name, bs.MaxNameLength, "...")
		}
		parts = append(parts, name)
	}

	sep := bs.Separator
	if sep == "" {
		sep = "/"
	}
	return strings.Join(parts, " "+sep+" ")
}

// Search highlights labels that contain the canvas query.
type Search struct{ base }

// NewSearch creates the search highlight decorator.
func NewSearch() hierarchy.Decorator {
	return &Search{base{NameSearch, hierarchy.LayerOverlay}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Search) IsEnabled(s *config.Settings, node hierarchy.Node) bool {
	_, ok := asObject(node)
	return d.on(s) && ok
}

// Draw implements hierarchy.Decorator.
func (d *Search) Draw(c *canvas.Canvas, node hierarchy.Node, view hierarchy.View) error {
	if !Matches(displayName(node), c.Query()) {
		return nil
	}
	st := stylesOf(view)
	c.RestyleLabel(c.LabelStyle().
		Foreground(st.Theme.Match).
		Underline(true))
	return nil
}

// Matches reports whether name contains query, ignoring case. An empty
// query matches nothing.
func Matches(name, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

// Selection highlights the host-selected row.
type Selection struct{ base }

// NewSelection creates the selection highlight decorator.
func NewSelection() hierarchy.Decorator {
	return &Selection{base{NameSelection, hierarchy.LayerOverlay}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Selection) IsEnabled(s *config.Settings, _ hierarchy.Node) bool {
	return d.on(s)
}

// Draw implements hierarchy.Decorator.
func (d *Selection) Draw(c *canvas.Canvas, _ hierarchy.Node, view hierarchy.View) error {
	if !c.Rect().Selected {
		return nil
	}
	st := stylesOf(view)
	c.Fill(st.Selection)
	c.RestyleLabel(c.LabelStyle().Bold(true).Foreground(st.Theme.Text))
	return nil
}
