// Package output renders hierarchy frames for non-interactive use.
package output

import (
	"context"
	"io"
)

// Formatter provides methods for writing a rendered frame in one output format.
type Formatter interface {
	// Format writes the frame to the writer.
	Format(ctx context.Context, frame *Frame, w io.Writer) error

	// Name returns the name of the formatter.
	Name() string

	// Description returns a description of the output format.
	Description() string
}

// Manager manages multiple output formatters.
type Manager interface {
	// RegisterFormatter registers a new formatter.
	RegisterFormatter(formatter Formatter)

	// GetFormatter returns a formatter by name.
	GetFormatter(name string) (Formatter, error)

	// ListFormatters returns all available formatter names.
	ListFormatters() []string

	// Format writes the frame using the specified formatter.
	Format(ctx context.Context, formatName string, frame *Frame, w io.Writer) error
}
