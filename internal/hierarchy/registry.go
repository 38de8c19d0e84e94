package hierarchy

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry maps tree instances to their traversal caches and tracks which
// one receives rows.
type Registry struct {
	logger *slog.Logger
	opts   []CacheOption

	mu         sync.Mutex
	caches     map[TreeID]*TraversalCache
	active     *TraversalCache
	registered bool
}

// NewRegistry creates an empty registry. The options are applied to every
// cache it creates.
func NewRegistry(logger *slog.Logger, opts ...CacheOption) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger,
		opts:   opts,
		caches: make(map[TreeID]*TraversalCache),
	}
}

// Register creates a cache for tree. The very first registration becomes
// active.
func (r *Registry) Register(tree Tree) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.register(tree)
	return err
}

func (r *Registry) register(tree Tree) (*TraversalCache, error) {
	if tree == nil {
		return nil, ErrNilTree
	}

	id := tree.TreeID()
	if existing, ok := r.caches[id]; ok {
		r.logger.Debug("Tree already registered", "tree", id)
		return existing, fmt.Errorf("register tree %d: %w", id, ErrAlreadyRegistered)
	}

	cache := NewTraversalCache(tree, r.opts...)
	r.caches[id] = cache
	if !r.registered {
		r.active = cache
		r.registered = true
	}

	r.logger.Debug("Registered tree", "tree", id, "caches", len(r.caches))
	return cache, nil
}

// Unregister drops the cache for id. Unregistering the active tree leaves
// no tree active.
func (r *Registry) Unregister(id TreeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cache, ok := r.caches[id]
	if !ok {
		return fmt.Errorf("unregister tree %d: %w", id, ErrNotRegistered)
	}

	delete(r.caches, id)
	if r.active == cache {
		r.active = nil
	}
	cache.Clear()

	r.logger.Debug("Unregistered tree", "tree", id, "caches", len(r.caches))
	return nil
}

// SetActive makes tree the active tree, registering it first when needed.
func (r *Registry) SetActive(tree Tree) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tree == nil {
		return ErrNilTree
	}

	cache, ok := r.caches[tree.TreeID()]
	if !ok {
		var err error
		if cache, err = r.register(tree); err != nil {
			return err
		}
	}
	if r.active == cache {
		return nil
	}

	r.active = cache
	r.logger.Debug("Switched active tree", "tree", tree.TreeID())
	return nil
}

// Active returns the active cache.
func (r *Registry) Active() (*TraversalCache, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return nil, ErrNoActiveTree
	}
	return r.active, nil
}

// MustActive returns the active cache and panics when none is set.
func (r *Registry) MustActive() *TraversalCache {
	cache, err := r.Active()
	if err != nil {
		panic(err)
	}
	return cache
}

// Get returns the cache of a registered tree.
func (r *Registry) Get(id TreeID) (*TraversalCache, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cache, ok := r.caches[id]
	return cache, ok
}

// IDs returns the registered tree identities in ascending order.
func (r *Registry) IDs() []TreeID {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]TreeID, 0, len(r.caches))
	for id := range r.caches {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of registered trees.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.caches)
}
