package hierarchy

import (
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/ikari-pl/go-scene-hierarchy/internal/canvas"
	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
)

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for decorator failures.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRepainter sets the redraw-request signal.
func WithRepainter(r Repainter) DispatcherOption {
	return func(d *Dispatcher) {
		d.repaint = r
	}
}

// WithSettings sets the initial configuration snapshot.
func WithSettings(s *config.Settings) DispatcherOption {
	return func(d *Dispatcher) {
		d.settings.Store(s)
	}
}

// entry is a registered decorator with its registration sequence.
type entry struct {
	dec Decorator
	seq int
}

// Dispatcher paints one row at a time: it advances the active cache and
// runs every enabled decorator in paint order.
type Dispatcher struct {
	registry *Registry
	repaint  Repainter
	logger   *slog.Logger
	settings atomic.Pointer[config.Settings]

	entries []entry
	ordered []Decorator
	nextSeq int
}

// NewDispatcher creates a dispatcher reading the active cache of registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		logger:   slog.Default(),
	}
	d.settings.Store(config.DefaultSettings())
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the cache registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Settings returns the current configuration snapshot.
func (d *Dispatcher) Settings() *config.Settings {
	return d.settings.Load()
}

// SetSettings swaps the configuration snapshot. It takes effect on the next
// row and requests a repaint.
func (d *Dispatcher) SetSettings(s *config.Settings) {
	if s == nil {
		s = config.DefaultSettings()
	}
	d.settings.Store(s)
	d.requestRepaint()
}

// Use registers decorators. Names must be unique.
func (d *Dispatcher) Use(decs ...Decorator) error {
	for _, dec := range decs {
		if dec == nil {
			continue
		}
		if d.index(dec.Name()) >= 0 {
			return fmt.Errorf("use %s: %w", dec.Name(), ErrDuplicateDecorator)
		}
		d.entries = append(d.entries, entry{dec: dec, seq: d.nextSeq})
		d.nextSeq++
	}
	d.reorder()
	return nil
}

// Remove unregisters the named decorator.
func (d *Dispatcher) Remove(name string) bool {
	i := d.index(name)
	if i < 0 {
		return false
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	d.reorder()
	return true
}

// Reorder moves the named decorators to the front of their layers, in the
// given order. Decorators not named keep their relative order behind them.
func (d *Dispatcher) Reorder(names ...string) error {
	for _, name := range names {
		if d.index(name) < 0 {
			return fmt.Errorf("reorder %s: %w", name, ErrUnknownDecorator)
		}
	}

	rank := make(map[string]int, len(names))
	for i, name := range names {
		rank[name] = i - len(names)
	}
	for i := range d.entries {
		e := &d.entries[i]
		if r, ok := rank[e.dec.Name()]; ok {
			e.seq = r
		} else {
			e.seq = i
		}
	}
	d.reorder()

	// Renumber so later Use calls land behind everything.
	for i := range d.entries {
		d.entries[i].seq = i
	}
	d.nextSeq = len(d.entries)
	return nil
}

// Decorators returns the decorators in paint order.
func (d *Dispatcher) Decorators() []Decorator {
	out := make([]Decorator, len(d.ordered))
	copy(out, d.ordered)
	return out
}

func (d *Dispatcher) index(name string) int {
	for i, e := range d.entries {
		if e.dec.Name() == name {
			return i
		}
	}
	return -1
}

func (d *Dispatcher) reorder() {
	sort.SliceStable(d.entries, func(i, j int) bool {
		a, b := d.entries[i], d.entries[j]
		if a.dec.Layer() != b.dec.Layer() {
			return a.dec.Layer() < b.dec.Layer()
		}
		return a.seq < b.seq
	})
	d.ordered = d.ordered[:0]
	for _, e := range d.entries {
		d.ordered = append(d.ordered, e.dec)
	}
}

// DispatchRow paints the row for id into c. A node that no longer exists
// leaves the canvas unpainted and is not an error. Decorator failures are
// logged, the remaining decorators still run, and the failures come back
// as one aggregated error.
func (d *Dispatcher) DispatchRow(id ID, rect canvas.Rect, c *canvas.Canvas) error {
	cache, err := d.registry.Active()
	if err != nil {
		return fmt.Errorf("dispatch row %d: %w", id, err)
	}

	c.Reset(rect)

	node, ok := cache.Tree().Resolve(id)
	if !ok {
		return nil
	}

	adv := cache.AdvanceTo(id)
	if adv.Refolded {
		// The row above was already painted with the old arrow.
		d.requestRepaint()
	}

	settings := d.Settings()
	view := cache.View()
	view.Settings = settings
	c.MarkPainted()

	var result *multierror.Error
	for _, dec := range d.ordered {
		enabled, err := d.enabled(dec, settings, node)
		if err == nil && enabled {
			err = d.draw(dec, c, node, view)
		}
		if err != nil {
			d.logger.Warn("Decorator failed", "decorator", dec.Name(), "node", id, "error", err)
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// EnabledFor returns the names of the decorators that would draw node
// under the current settings, in paint order.
func (d *Dispatcher) EnabledFor(node Node) []string {
	settings := d.Settings()
	var names []string
	for _, dec := range d.ordered {
		if on, err := d.enabled(dec, settings, node); err == nil && on {
			names = append(names, dec.Name())
		}
	}
	return names
}

func (d *Dispatcher) enabled(dec Decorator, s *config.Settings, node Node) (on bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			on, err = false, fmt.Errorf("decorator %s panicked in IsEnabled: %v", dec.Name(), r)
		}
	}()
	return dec.IsEnabled(s, node), nil
}

func (d *Dispatcher) draw(dec Decorator, c *canvas.Canvas, node Node, view View) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decorator %s panicked: %v", dec.Name(), r)
		}
	}()
	if err := dec.Draw(c, node, view); err != nil {
		return fmt.Errorf("decorator %s: %w", dec.Name(), err)
	}
	return nil
}

func (d *Dispatcher) requestRepaint() {
	if d.repaint != nil {
		d.repaint.RequestRepaint()
	}
}
