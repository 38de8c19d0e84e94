package hierarchy

// RestartMode selects how the cache recognises the start of a new pass.
type RestartMode int

const (
	// RestartOnFirst restarts when the walk returns to root index 0.
	// The host must visit every visible row on every redraw.
	RestartOnFirst RestartMode = iota

	// RestartOnRootRewind is for hosts that only visit the rows inside a
	// scrolled viewport. First latches to the first row of each pass, and
	// a root with a lower root index than the last visited root also
	// starts a new pass.
	RestartOnRootRewind
)

// String returns the mode name used on the command line.
func (m RestartMode) String() string {
	switch m {
	case RestartOnFirst:
		return "first"
	case RestartOnRootRewind:
		return "rewind"
	default:
		return "unknown"
	}
}

// ParseRestartMode maps a command line name to a mode.
func ParseRestartMode(name string) (RestartMode, bool) {
	switch name {
	case "", "first":
		return RestartOnFirst, true
	case "rewind":
		return RestartOnRootRewind, true
	default:
		return RestartOnFirst, false
	}
}

// CacheOption configures a TraversalCache.
type CacheOption func(*TraversalCache)

// WithRestartMode sets the pass restart rule.
func WithRestartMode(mode RestartMode) CacheOption {
	return func(c *TraversalCache) {
		c.mode = mode
	}
}

// Advance describes the effect of one AdvanceTo call.
type Advance struct {
	// Record is the record advanced to.
	Record *Record

	// Restarted is set when this call began a new pass.
	Restarted bool

	// Refolded is set when the call changed Previous.Foldout.
	Refolded bool
}

// TraversalCache follows the host's pre-order walk of one tree.
// It is not safe for concurrent use.
type TraversalCache struct {
	tree Tree
	mode RestartMode

	lookup map[ID]*Record
	seen   map[ID]struct{}

	first    *Record
	current  *Record
	previous *Record

	lastRoot int
	passes   int
}

// NewTraversalCache creates an empty cache over tree.
func NewTraversalCache(tree Tree, opts ...CacheOption) *TraversalCache {
	c := &TraversalCache{
		tree:     tree,
		lookup:   make(map[ID]*Record),
		seen:     make(map[ID]struct{}),
		lastRoot: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tree returns the tree the cache follows.
func (c *TraversalCache) Tree() Tree {
	return c.tree
}

// Mode returns the pass restart rule.
func (c *TraversalCache) Mode() RestartMode {
	return c.mode
}

// AdvanceTo moves the walk to id, creating its record on first sight.
func (c *TraversalCache) AdvanceTo(id ID) Advance {
	target, ok := c.lookup[id]
	if !ok {
		target = NewRecord(id, c.tree)
	}

	adv := Advance{Record: target}
	rootIndex := c.rootIndex(target)

	if c.restarts(target, rootIndex) {
		c.wrap()
		adv.Restarted = true
	}
	// Inserted after the wrap so a row that opens a pass survives eviction.
	c.lookup[id] = target

	// Redrawing the current row again is not a step.
	if target != c.current {
		c.previous = c.current
		c.current = target
	}

	if prev := c.previous; prev != nil && prev != target && prev.IsValid() && prev.HasChildren() {
		open := c.isChildOf(target, prev)
		if prev.foldout != open {
			prev.foldout = open
			adv.Refolded = true
		}
	}

	if c.first == nil {
		switch c.mode {
		case RestartOnRootRewind:
			c.first = target
		default:
			if rootIndex == 0 {
				c.first = target
			}
		}
	}
	if rootIndex >= 0 {
		c.lastRoot = rootIndex
	}

	c.seen[id] = struct{}{}
	return adv
}

// restarts reports whether advancing to target begins a new pass. The call
// that latches First never counts: First is still unset at this point.
func (c *TraversalCache) restarts(target *Record, rootIndex int) bool {
	if c.first == nil {
		return false
	}
	if target == c.first {
		return true
	}
	switch c.mode {
	case RestartOnRootRewind:
		return rootIndex >= 0 && c.lastRoot >= 0 && rootIndex < c.lastRoot
	default:
		return rootIndex == 0 && c.firstStale()
	}
}

// firstStale reports whether First can no longer be revisited as the top
// row: it was destroyed or moved away from root index 0.
func (c *TraversalCache) firstStale() bool {
	return !c.first.IsValid() || c.rootIndex(c.first) != 0
}

// wrap evicts every record that was not visited during the pass that just
// ended.
func (c *TraversalCache) wrap() {
	for id := range c.lookup {
		if _, ok := c.seen[id]; !ok {
			delete(c.lookup, id)
		}
	}
	clear(c.seen)
	c.passes++
	c.lastRoot = -1
	if c.mode == RestartOnRootRewind || c.firstStale() {
		c.first = nil
	}
}

// rootIndex returns the position of r in the root list, or -1 when r is
// not a live root.
func (c *TraversalCache) rootIndex(r *Record) int {
	if !r.IsRoot() {
		return -1
	}
	return r.SiblingIndex(c.tree)
}

func (c *TraversalCache) isChildOf(child, parent *Record) bool {
	pid, ok := child.Parent()
	return ok && pid == parent.id
}

// TryGet returns the record for id without advancing.
func (c *TraversalCache) TryGet(id ID) (*Record, bool) {
	r, ok := c.lookup[id]
	return r, ok
}

// Clear drops all state.
func (c *TraversalCache) Clear() {
	clear(c.lookup)
	clear(c.seen)
	c.first = nil
	c.current = nil
	c.previous = nil
	c.lastRoot = -1
	c.passes = 0
}

// First returns the record that marks the start of a pass.
func (c *TraversalCache) First() *Record {
	return c.first
}

// Current returns the record most recently advanced to.
func (c *TraversalCache) Current() *Record {
	return c.current
}

// Previous returns the record advanced to before Current.
func (c *TraversalCache) Previous() *Record {
	return c.previous
}

// Len returns the number of cached records.
func (c *TraversalCache) Len() int {
	return len(c.lookup)
}

// SeenThisPass returns the number of distinct rows visited in this pass.
func (c *TraversalCache) SeenThisPass() int {
	return len(c.seen)
}

// Passes returns how many pass restarts have been observed.
func (c *TraversalCache) Passes() int {
	return c.passes
}

// View returns a snapshot for decorators.
func (c *TraversalCache) View() View {
	return View{
		Tree:     c.tree,
		First:    c.first,
		Current:  c.current,
		Previous: c.previous,
		Pass:     c.passes,
	}
}
