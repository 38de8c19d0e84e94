package output

import (
	"context"
	"io"

	"github.com/goccy/go-json"
)

// jsonFormatter implements the Formatter interface for JSON output.
type jsonFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() Formatter {
	return &jsonFormatter{}
}

// Format writes the per-row facts of the frame as JSON.
func (f *jsonFormatter) Format(ctx context.Context, frame *Frame, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(frame)
}

// Name returns the name of the formatter.
func (f *jsonFormatter) Name() string {
	return "json"
}

// Description returns a description of the output format.
func (f *jsonFormatter) Description() string {
	return "JSON format for programmatic consumption"
}
