// Package tui provides the terminal host for the hierarchy panel: it walks
// the visible rows of the active scene every frame and paints each one
// through the row dispatcher.
package tui

import (
	"context"

	"github.com/ikari-pl/go-scene-hierarchy/internal/scene"
)

// TUI provides the main terminal user interface.
type TUI interface {
	// Run opens the scenes as tabs and blocks until the user exits.
	Run(ctx context.Context, scenes []*scene.Scene) error
}
