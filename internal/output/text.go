package output

import (
	"context"
	"fmt"
	"io"
)

// textFormatter writes one rendered line per row.
type textFormatter struct {
	plain bool
}

// NewTextFormatter creates a text formatter. Plain output drops all styling.
func NewTextFormatter(plain bool) Formatter {
	return &textFormatter{plain: plain}
}

// Format writes the rows of the frame.
func (f *textFormatter) Format(ctx context.Context, frame *Frame, w io.Writer) error {
	for _, row := range frame.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := row.Styled
		if f.plain {
			line = row.Text
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.ID, err)
		}
	}
	return nil
}

// Name returns the name of the formatter.
func (f *textFormatter) Name() string {
	return "text"
}

// Description returns a description of the output format.
func (f *textFormatter) Description() string {
	return "Rendered hierarchy rows for the terminal"
}
