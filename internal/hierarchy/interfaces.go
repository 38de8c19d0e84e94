// Package hierarchy tracks the row-by-row walk of a tree panel and runs the
// ordered row decorators for every row the host draws.
//
// The host never hands over the whole tree. It calls Dispatcher.DispatchRow
// once per visible row, in pre-order, and the TraversalCache infers the
// rest (pass boundaries, expanded parents) from the order of those calls.
package hierarchy

import (
	"errors"

	"github.com/ikari-pl/go-scene-hierarchy/internal/canvas"
	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
)

// ID is the stable host identity of a tree node.
type ID int64

// TreeID identifies one tree instance, e.g. one open scene.
type TreeID int64

// Common errors.
var (
	ErrNoActiveTree       = errors.New("no active tree registered")
	ErrAlreadyRegistered  = errors.New("tree already registered")
	ErrNotRegistered      = errors.New("tree not registered")
	ErrDuplicateDecorator = errors.New("decorator already registered")
	ErrUnknownDecorator   = errors.New("unknown decorator")
	ErrNilTree            = errors.New("tree cannot be nil")
)

// Node is the host's live view of one tree node.
type Node interface {
	// ID returns the node identity.
	ID() ID

	// Parent returns the parent identity, or false for a root node.
	Parent() (ID, bool)

	// Children returns the ordered child identities.
	Children() []ID
}

// Resolver turns an identity into a live node.
type Resolver interface {
	// Resolve returns the live node, or false when it no longer exists.
	Resolve(id ID) (Node, bool)
}

// RootLister provides the ordered top-level nodes of a tree.
type RootLister interface {
	// Roots returns the root identities in display order.
	Roots() []ID
}

// Tree is a tree instance the registry can track.
type Tree interface {
	Resolver
	RootLister

	// TreeID returns the identity of the tree instance.
	TreeID() TreeID
}

// Repainter receives redraw requests. Implementations must not draw
// synchronously; they schedule a new pass.
type Repainter interface {
	RequestRepaint()
}

// RepaintFunc adapts a plain function to Repainter.
type RepaintFunc func()

// RequestRepaint calls f.
func (f RepaintFunc) RequestRepaint() {
	f()
}

// Layer groups decorators by paint order.
type Layer int

const (
	// LayerBackground paints bands and full-row fills.
	LayerBackground Layer = iota
	// LayerLabel paints names, guides and the icon strip.
	LayerLabel
	// LayerOverlay paints on top of everything else.
	LayerOverlay
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerLabel:
		return "label"
	case LayerOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// View is the read-only cache state handed to decorators for one row.
type View struct {
	Tree     Tree
	First    *Record
	Current  *Record
	Previous *Record
	Pass     int

	// Settings is the snapshot IsEnabled was asked about.
	Settings *config.Settings
}

// Decorator is one pluggable unit of per-row drawing.
type Decorator interface {
	// Name returns the unique decorator name used by settings.
	Name() string

	// Layer returns the paint layer.
	Layer() Layer

	// IsEnabled reports whether Draw should run for node.
	IsEnabled(settings *config.Settings, node Node) bool

	// Draw paints node onto the row canvas.
	Draw(c *canvas.Canvas, node Node, view View) error
}
