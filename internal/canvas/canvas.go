// Package canvas is the drawing surface for a single hierarchy row.
//
// A row is composed of slots that decorators fill in paint order:
//
//	[marks][gutter][label][suffix]        [right strip]
//
// The background spans the whole row. Segments that carry no background of
// their own inherit it, so a band or a selection highlight stays continuous
// across styled text.
package canvas

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to truncated labels.
const Ellipsis = "…"

// Rect locates a row in the panel.
type Rect struct {
	Row      int  // Zero-based row index within the pass
	Width    int  // Available cells
	Selected bool // Host selection
}

// Segment is a piece of styled text.
type Segment struct {
	Text  string
	Style lipgloss.Style
}

func (s Segment) width() int {
	return lipgloss.Width(s.Style.Render(s.Text))
}

// Canvas collects what decorators paint for one row.
type Canvas struct {
	rect    Rect
	painted bool
	query   string

	background lipgloss.TerminalColor
	marks      []Segment
	gutter     []Segment
	label      Segment
	suffix     []Segment
	right      []Segment
	offset     int
}

// New creates an empty canvas.
func New() *Canvas {
	return &Canvas{}
}

// Reset clears the row state and targets rect. The search query is host
// state and survives resets.
func (c *Canvas) Reset(rect Rect) {
	c.rect = rect
	c.painted = false
	c.background = nil
	c.marks = c.marks[:0]
	c.gutter = c.gutter[:0]
	c.label = Segment{}
	c.suffix = c.suffix[:0]
	c.right = c.right[:0]
	c.offset = 0
}

// Rect returns the row location.
func (c *Canvas) Rect() Rect {
	return c.rect
}

// SetQuery sets the active search query.
func (c *Canvas) SetQuery(q string) {
	c.query = q
}

// Query returns the active search query.
func (c *Canvas) Query() string {
	return c.query
}

// MarkPainted records that the row was drawn.
func (c *Canvas) MarkPainted() {
	c.painted = true
}

// Painted reports whether the row was drawn since the last Reset.
func (c *Canvas) Painted() bool {
	return c.painted
}

// Fill sets the row background. Later fills win.
func (c *Canvas) Fill(color lipgloss.TerminalColor) {
	c.background = color
}

// Background returns the current row background, nil when unset.
func (c *Canvas) Background() lipgloss.TerminalColor {
	return c.background
}

// Mark adds an overlay glyph at the far left.
func (c *Canvas) Mark(text string, style lipgloss.Style) {
	c.marks = append(c.marks, Segment{Text: text, Style: style})
}

// Gutter appends a guide segment before the label.
func (c *Canvas) Gutter(text string, style lipgloss.Style) {
	c.gutter = append(c.gutter, Segment{Text: text, Style: style})
}

// SetLabel replaces the label.
func (c *Canvas) SetLabel(text string, style lipgloss.Style) {
	c.label = Segment{Text: text, Style: style}
}

// Label returns the label text.
func (c *Canvas) Label() string {
	return c.label.Text
}

// LabelStyle returns the label style.
func (c *Canvas) LabelStyle() lipgloss.Style {
	return c.label.Style
}

// RestyleLabel replaces the label style and keeps the text.
func (c *Canvas) RestyleLabel(style lipgloss.Style) {
	c.label.Style = style
}

// Suffix appends a segment right after the label.
func (c *Canvas) Suffix(text string, style lipgloss.Style) {
	c.suffix = append(c.suffix, Segment{Text: text, Style: style})
}

// PushRight packs a segment into the right strip, right to left. It
// returns false and paints nothing when the segment would overlap the
// left side of the row.
func (c *Canvas) PushRight(text string, style lipgloss.Style) bool {
	seg := Segment{Text: text, Style: style}
	w := seg.width()
	if c.rect.Width > 0 && c.offset+w > c.Remaining() {
		return false
	}
	c.right = append(c.right, seg)
	c.offset += w
	return true
}

// Offset returns how many cells the right strip already uses.
func (c *Canvas) Offset() int {
	return c.offset
}

// Remaining returns the cells left for the right strip: the row width
// minus the left side and one separating cell.
func (c *Canvas) Remaining() int {
	left := widthOf(c.marks) + widthOf(c.gutter) + widthOf(c.suffix)
	if c.label.Text != "" {
		left += c.label.width()
	}
	rest := c.rect.Width - left - 1
	if rest < 0 {
		return 0
	}
	return rest
}

// Render composes the row into a string exactly Rect.Width cells wide.
func (c *Canvas) Render() string {
	width := c.rect.Width
	if width <= 0 {
		return ""
	}

	prefix := append(append([]Segment{}, c.marks...), c.gutter...)
	prefixW := widthOf(prefix)
	suffixW := widthOf(c.suffix)
	rightW := c.offset

	label := c.label
	labelW := 0
	if label.Text != "" {
		labelW = label.width()
		frame := labelW - runewidth.StringWidth(label.Text)
		avail := width - prefixW - suffixW - rightW - 1 - frame
		if avail < runewidth.StringWidth(label.Text) {
			if avail < 1 {
				avail = 1
			}
			label.Text = runewidth.Truncate(label.Text, avail, Ellipsis)
			labelW = label.width()
		}
	}

	var b strings.Builder
	for _, seg := range prefix {
		b.WriteString(c.paint(seg))
	}
	if label.Text != "" {
		b.WriteString(c.paint(label))
	}
	for _, seg := range c.suffix {
		b.WriteString(c.paint(seg))
	}

	used := prefixW + labelW + suffixW
	gap := width - used - rightW
	right := c.right
	if gap < 1 {
		right = nil
		gap = width - used
	}
	if gap > 0 {
		b.WriteString(c.paint(Segment{Text: strings.Repeat(" ", gap), Style: lipgloss.NewStyle()}))
	}
	for i := len(right) - 1; i >= 0; i-- {
		b.WriteString(c.paint(right[i]))
	}

	return ansi.Truncate(b.String(), width, "")
}

// PlainText renders the row without styling.
func (c *Canvas) PlainText() string {
	return ansi.Strip(c.Render())
}

func (c *Canvas) paint(seg Segment) string {
	style := seg.Style
	if c.background != nil {
		if _, none := style.GetBackground().(lipgloss.NoColor); none {
			style = style.Background(c.background)
		}
	}
	return style.Render(seg.Text)
}

func widthOf(segs []Segment) int {
	w := 0
	for _, s := range segs {
		w += s.width()
	}
	return w
}
