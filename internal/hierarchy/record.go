package hierarchy

// maxDepth bounds parent walks so a corrupted host tree cannot hang a row.
const maxDepth = 1 << 12

// Record wraps one host node for the traversal cache. It never owns the
// node: every query goes through the resolver, so a record outlives the
// node it points at without keeping it alive.
type Record struct {
	id       ID
	resolver Resolver
	foldout  bool
}

// NewRecord creates a record for id. Foldout starts closed.
func NewRecord(id ID, resolver Resolver) *Record {
	return &Record{
		id:       id,
		resolver: resolver,
	}
}

// ID returns the node identity.
func (r *Record) ID() ID {
	return r.id
}

// Foldout reports whether the node's children were shown right after it in
// the last pass. Only the traversal cache sets it.
func (r *Record) Foldout() bool {
	return r.foldout
}

// Node resolves the live node.
func (r *Record) Node() (Node, bool) {
	if r == nil || r.resolver == nil {
		return nil, false
	}
	return r.resolver.Resolve(r.id)
}

// IsValid reports whether the node still exists.
func (r *Record) IsValid() bool {
	_, ok := r.Node()
	return ok
}

// Parent returns the parent identity. Roots and dead nodes report false.
func (r *Record) Parent() (ID, bool) {
	n, ok := r.Node()
	if !ok {
		return 0, false
	}
	return n.Parent()
}

// IsRoot reports whether the node is alive and has no parent.
func (r *Record) IsRoot() bool {
	n, ok := r.Node()
	if !ok {
		return false
	}
	_, hasParent := n.Parent()
	return !hasParent
}

// ChildCount returns the number of children, zero for dead nodes.
func (r *Record) ChildCount() int {
	n, ok := r.Node()
	if !ok {
		return 0
	}
	return len(n.Children())
}

// HasChildren reports whether the node has at least one child.
func (r *Record) HasChildren() bool {
	return r.ChildCount() > 0
}

// siblings returns the list the node is ranked in: the parent's children,
// or the root list for top-level nodes.
func (r *Record) siblings(roots RootLister) []ID {
	n, ok := r.Node()
	if !ok {
		return nil
	}
	if pid, hasParent := n.Parent(); hasParent {
		p, ok := r.resolver.Resolve(pid)
		if !ok {
			return nil
		}
		return p.Children()
	}
	if roots == nil {
		return nil
	}
	return roots.Roots()
}

// SiblingIndex returns the position among siblings, or -1 when the node is
// dead or missing from its sibling list.
func (r *Record) SiblingIndex(roots RootLister) int {
	for i, id := range r.siblings(roots) {
		if id == r.id {
			return i
		}
	}
	return -1
}

// SiblingCount returns the size of the node's sibling list.
func (r *Record) SiblingCount(roots RootLister) int {
	return len(r.siblings(roots))
}

// IsLastSibling reports whether the node is the last of its siblings.
func (r *Record) IsLastSibling(roots RootLister) bool {
	sibs := r.siblings(roots)
	if len(sibs) == 0 {
		return false
	}
	return sibs[len(sibs)-1] == r.id
}

// Depth returns the number of parent hops to a root. A parent that no
// longer resolves ends the walk.
func (r *Record) Depth() int {
	depth := 0
	pid, ok := r.Parent()
	for ok && depth < maxDepth {
		depth++
		p, alive := r.resolver.Resolve(pid)
		if !alive {
			break
		}
		pid, ok = p.Parent()
	}
	return depth
}

// Ancestors returns the ancestor identities from the root down to the
// direct parent.
func (r *Record) Ancestors() []ID {
	var chain []ID
	pid, ok := r.Parent()
	for ok && len(chain) < maxDepth {
		chain = append(chain, pid)
		p, alive := r.resolver.Resolve(pid)
		if !alive {
			break
		}
		pid, ok = p.Parent()
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
