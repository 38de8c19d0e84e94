package hierarchy

import (
	"fmt"
	"iter"
	"sort"
	"sync"
)

// Factory builds a fresh decorator of one kind.
type Factory struct {
	Name  string
	Layer Layer
	New   func() Decorator
	seq   int
}

// Catalog lists every decorator kind the program knows about. The sorted
// listing is computed once and reused until the catalog changes.
type Catalog struct {
	mu        sync.Mutex
	factories map[string]Factory
	nextSeq   int
	sorted    []Factory
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		factories: make(map[string]Factory),
	}
}

// Register adds a decorator kind. Registering a name again replaces it.
func (c *Catalog) Register(name string, layer Layer, fn func() Decorator) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := c.nextSeq
	if old, ok := c.factories[name]; ok {
		seq = old.seq
	} else {
		c.nextSeq++
	}
	c.factories[name] = Factory{Name: name, Layer: layer, New: fn, seq: seq}
	c.sorted = nil
}

// Invalidate drops the cached listing.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sorted = nil
}

// All returns the factories in paint order. The sequence can be ranged over
// any number of times; each range sees the listing current at its start.
func (c *Catalog) All() iter.Seq[Factory] {
	return func(yield func(Factory) bool) {
		for _, f := range c.snapshot() {
			if !yield(f) {
				return
			}
		}
	}
}

func (c *Catalog) snapshot() []Factory {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sorted == nil {
		sorted := make([]Factory, 0, len(c.factories))
		for _, f := range c.factories {
			sorted = append(sorted, f)
		}
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Layer != sorted[j].Layer {
				return sorted[i].Layer < sorted[j].Layer
			}
			return sorted[i].seq < sorted[j].seq
		})
		c.sorted = sorted
	}
	return c.sorted
}

// Lookup returns the factory registered under name.
func (c *Catalog) Lookup(name string) (Factory, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.factories[name]
	return f, ok
}

// Names returns the registered names in paint order.
func (c *Catalog) Names() []string {
	var names []string
	for f := range c.All() {
		names = append(names, f.Name)
	}
	return names
}

// Build instantiates the named decorators, or every kind when names is
// empty.
func (c *Catalog) Build(names ...string) ([]Decorator, error) {
	if len(names) == 0 {
		var decs []Decorator
		for f := range c.All() {
			decs = append(decs, f.New())
		}
		return decs, nil
	}

	decs := make([]Decorator, 0, len(names))
	for _, name := range names {
		f, ok := c.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("build %s: %w", name, ErrUnknownDecorator)
		}
		decs = append(decs, f.New())
	}
	return decs, nil
}
