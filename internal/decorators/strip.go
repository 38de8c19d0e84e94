package decorators

import (
	"github.com/ikari-pl/go-scene-hierarchy/internal/canvas"
	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
	"github.com/ikari-pl/go-scene-hierarchy/internal/theme"
)

// Icons packs component glyphs into the right strip.
type Icons struct{ base }

// NewIcons creates the component icon decorator.
func NewIcons() hierarchy.Decorator {
	return &Icons{base{NameIcons, hierarchy.LayerLabel}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Icons) IsEnabled(s *config.Settings, node hierarchy.Node) bool {
	if !d.on(s) || s == nil || s.Icons.Max == 0 {
		return false
	}
	o, ok := asObject(node)
	return ok && len(o.Components()) > 0
}

// Draw implements hierarchy.Decorator.
func (d *Icons) Draw(c *canvas.Canvas, node hierarchy.Node, view hierarchy.View) error {
	o, ok := asObject(node)
	if !ok {
		return nil
	}
	s := settingsOf(view)
	st := stylesOf(view)

	shown := 0
	for _, comp := range o.Components() {
		if shown == s.Icons.Max {
			break
		}
		if s.IconHidden(comp) {
			continue
		}
		if !c.PushRight(theme.ComponentIcon(comp, s.Icons.Glyphs), st.Icon) {
			break
		}
		shown++
	}
	return nil
}

// Badges shows non-default tags and layers left of the icon strip.
type Badges struct{ base }

// NewBadges creates the tag and layer badge decorator.
func NewBadges() hierarchy.Decorator {
	return &Badges{base{NameBadges, hierarchy.LayerLabel}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Badges) IsEnabled(s *config.Settings, node hierarchy.Node) bool {
	if !d.on(s) || s == nil {
		return false
	}
	o, ok := asObject(node)
	if !ok {
		return false
	}
	return showTag(s, o) || showLayer(s, o)
}

// Draw implements hierarchy.Decorator.
func (d *Badges) Draw(c *canvas.Canvas, node hierarchy.Node, view hierarchy.View) error {
	o, ok := asObject(node)
	if !ok {
		return nil
	}
	s := settingsOf(view)
	st := stylesOf(view)

	if showLayer(s, o) && !c.PushRight(o.Layer(), st.Layer) {
		return nil
	}
	if showTag(s, o) {
		c.PushRight(o.Tag(), st.Tag)
	}
	return nil
}

func showTag(s *config.Settings, o Object) bool {
	return s.Badges.ShowTag && o.Tag() != "" && o.Tag() != s.Badges.DefaultTag
}

func showLayer(s *config.Settings, o Object) bool {
	return s.Badges.ShowLayer && o.Layer() != "" && o.Layer() != s.Badges.DefaultLayer
}
