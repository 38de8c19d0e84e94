package output

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ikari-pl/go-scene-hierarchy/internal/canvas"
	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
)

// Scene is a tree that can list its visible rows in pre-order.
type Scene interface {
	hierarchy.Tree

	// Name returns the display name of the tree.
	Name() string

	// Walk visits visible rows in pre-order. A nil expanded func expands
	// everything.
	Walk(expanded func(hierarchy.ID) bool, visit func(id hierarchy.ID, depth int) bool)
}

// Frame is one scene painted through the dispatcher.
type Frame struct {
	Scene string `json:"scene"`
	Width int    `json:"width"`
	Pass  int    `json:"pass"`
	Rows  []Row  `json:"rows"`
}

// Row holds the painted text of one row and what the cache knew about it.
type Row struct {
	ID           hierarchy.ID `json:"id"`
	Name         string       `json:"name"`
	Depth        int          `json:"depth"`
	SiblingIndex int          `json:"sibling_index"`
	LastSibling  bool         `json:"last_sibling"`
	HasChildren  bool         `json:"has_children"`
	Foldout      bool         `json:"foldout"`
	Painted      bool         `json:"painted"`
	Decorators   []string     `json:"decorators,omitempty"`
	Text         string       `json:"text"`
	Styled       string       `json:"-"`
}

// RenderOptions controls how a frame is painted.
type RenderOptions struct {
	Width    int
	Expanded func(hierarchy.ID) bool // nil expands everything
	Selected hierarchy.ID            // zero selects nothing
	Query    string
}

// Render makes s the active tree and paints its visible rows. The rows are
// dispatched twice: foldout state is inferred from adjacency, so the first
// pass can only settle it for rows below the ones it changes.
func Render(ctx context.Context, d *hierarchy.Dispatcher, s Scene, opts RenderOptions) (*Frame, error) {
	if err := d.Registry().SetActive(s); err != nil {
		return nil, fmt.Errorf("failed to activate scene %s: %w", s.Name(), err)
	}

	var ids []hierarchy.ID
	s.Walk(opts.Expanded, func(id hierarchy.ID, _ int) bool {
		ids = append(ids, id)
		return true
	})

	c := canvas.New()
	c.SetQuery(opts.Query)

	frame := &Frame{Scene: s.Name(), Width: opts.Width}
	var result *multierror.Error
	for pass := 0; pass < 2; pass++ {
		frame.Rows = frame.Rows[:0]
		result = nil
		for i, id := range ids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rect := canvas.Rect{Row: i, Width: opts.Width, Selected: id != 0 && id == opts.Selected}
			if err := d.DispatchRow(id, rect, c); err != nil {
				result = multierror.Append(result, err)
			}
			frame.Rows = append(frame.Rows, Row{
				ID:      id,
				Painted: c.Painted(),
				Styled:  c.Render(),
				Text:    c.PlainText(),
			})
		}
	}

	cache, err := d.Registry().Active()
	if err != nil {
		return nil, err
	}
	frame.Pass = cache.Passes()
	for i := range frame.Rows {
		describe(&frame.Rows[i], cache, d)
	}

	return frame, result.ErrorOrNil()
}

func describe(row *Row, cache *hierarchy.TraversalCache, d *hierarchy.Dispatcher) {
	tree := cache.Tree()
	rec, ok := cache.TryGet(row.ID)
	if !ok {
		rec = hierarchy.NewRecord(row.ID, tree)
	}

	row.Depth = rec.Depth()
	row.SiblingIndex = rec.SiblingIndex(tree)
	row.LastSibling = rec.IsLastSibling(tree)
	row.HasChildren = rec.HasChildren()
	row.Foldout = rec.Foldout()

	node, ok := rec.Node()
	if !ok {
		return
	}
	if named, ok := node.(interface{ Name() string }); ok {
		row.Name = named.Name()
	}
	row.Decorators = d.EnabledFor(node)
}
