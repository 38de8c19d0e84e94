package decorators

import (
	"fmt"
	"strings"

	"github.com/ikari-pl/go-scene-hierarchy/internal/canvas"
	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
	"github.com/ikari-pl/go-scene-hierarchy/internal/theme"
)

// Band paints alternating row backgrounds.
type Band struct{ base }

// NewBand creates the banding decorator.
func NewBand() hierarchy.Decorator {
	return &Band{base{NameBand, hierarchy.LayerBackground}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Band) IsEnabled(s *config.Settings, _ hierarchy.Node) bool {
	return d.on(s)
}

// Draw implements hierarchy.Decorator.
func (d *Band) Draw(c *canvas.Canvas, _ hierarchy.Node, view hierarchy.View) error {
	st := stylesOf(view)
	if c.Rect().Row%2 == 0 {
		c.Fill(st.BandEven)
	} else {
		c.Fill(st.BandOdd)
	}
	return nil
}

// Connectors draws the indentation guides and the foldout arrow.
type Connectors struct{ base }

// NewConnectors creates the guide decorator.
func NewConnectors() hierarchy.Decorator {
	return &Connectors{base{NameConnectors, hierarchy.LayerLabel}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Connectors) IsEnabled(s *config.Settings, _ hierarchy.Node) bool {
	return d.on(s)
}

// Draw implements hierarchy.Decorator.
func (d *Connectors) Draw(c *canvas.Canvas, node hierarchy.Node, view hierarchy.View) error {
	rec := view.Current
	if rec == nil || rec.ID() != node.ID() {
		return fmt.Errorf("connectors: cache is not on node %d", node.ID())
	}
	st := stylesOf(view)

	ancestors := rec.Ancestors()
	if len(ancestors) > 0 {
		// Roots own no guide column.
		for _, id := range ancestors[1:] {
			if hierarchy.NewRecord(id, view.Tree).IsLastSibling(view.Tree) {
				c.Gutter(theme.Glyphs.Blank, st.Guide)
			} else {
				c.Gutter(theme.Glyphs.Pipe, st.Guide)
			}
		}
		if rec.IsLastSibling(view.Tree) {
			c.Gutter(theme.Glyphs.LastChild, st.Guide)
		} else {
			c.Gutter(theme.Glyphs.Branch, st.Guide)
		}
	}

	switch {
	case !rec.HasChildren():
		c.Gutter(theme.Glyphs.Leaf, st.Arrow)
	case rec.Foldout():
		c.Gutter(theme.Glyphs.Expanded, st.Arrow)
	default:
		c.Gutter(theme.Glyphs.Collapsed, st.Arrow)
	}
	return nil
}

// Label draws the node name.
type Label struct{ base }

// NewLabel creates the name decorator.
func NewLabel() hierarchy.Decorator {
	return &Label{base{NameLabel, hierarchy.LayerLabel}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Label) IsEnabled(s *config.Settings, _ hierarchy.Node) bool {
	return d.on(s)
}

// Draw implements hierarchy.Decorator.
func (d *Label) Draw(c *canvas.Canvas, node hierarchy.Node, view hierarchy.View) error {
	st := stylesOf(view)
	style := st.Label
	if o, ok := asObject(node); ok && !o.ActiveInHierarchy() {
		style = st.LabelInactive
	}
	c.SetLabel(displayName(node), style)
	return nil
}

// Header turns objects whose name starts with the configured prefix into a
// full-width section bar.
type Header struct{ base }

// NewHeader creates the header decorator.
func NewHeader() hierarchy.Decorator {
	return &Header{base{NameHeader, hierarchy.LayerLabel}}
}

// IsEnabled implements hierarchy.Decorator.
func (d *Header) IsEnabled(s *config.Settings, node hierarchy.Node) bool {
	if !d.on(s) || s == nil || s.Header.Prefix == "" {
		return false
	}
	o, ok := asObject(node)
	return ok && strings.HasPrefix(o.Name(), s.Header.Prefix)
}

// Draw implements hierarchy.Decorator.
func (d *Header) Draw(c *canvas.Canvas, node hierarchy.Node, view hierarchy.View) error {
	s := settingsOf(view)
	st := stylesOf(view)

	title := strings.TrimSpace(strings.TrimPrefix(displayName(node), s.Header.Prefix))
	if s.Header.Uppercase {
		title = strings.ToUpper(title)
	}

	c.Fill(st.HeaderFill)
	c.SetLabel(title, st.Header)
	return nil
}
