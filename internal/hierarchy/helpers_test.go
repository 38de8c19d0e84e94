package hierarchy

import (
	"github.com/ikari-pl/go-scene-hierarchy/internal/canvas"
	"github.com/ikari-pl/go-scene-hierarchy/internal/config"
)

// fakeNode is a minimal host node.
type fakeNode struct {
	id        ID
	parent    ID
	hasParent bool
	children  []ID
}

func (n *fakeNode) ID() ID { return n.id }

func (n *fakeNode) Parent() (ID, bool) { return n.parent, n.hasParent }

func (n *fakeNode) Children() []ID { return n.children }

// fakeTree is an in-memory host tree. A zero parent adds a root.
type fakeTree struct {
	id    TreeID
	nodes map[ID]*fakeNode
	roots []ID
}

func newFakeTree(id TreeID) *fakeTree {
	return &fakeTree{id: id, nodes: make(map[ID]*fakeNode)}
}

func (t *fakeTree) TreeID() TreeID { return t.id }

func (t *fakeTree) Roots() []ID { return t.roots }

func (t *fakeTree) Resolve(id ID) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	return n, true
}

func (t *fakeTree) add(parent, id ID) *fakeTree {
	n := &fakeNode{id: id}
	if parent != 0 {
		n.parent, n.hasParent = parent, true
		p := t.nodes[parent]
		p.children = append(p.children, id)
	} else {
		t.roots = append(t.roots, id)
	}
	t.nodes[id] = n
	return t
}

// remove deletes id and its subtree.
func (t *fakeTree) remove(id ID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	if n.hasParent {
		p := t.nodes[n.parent]
		p.children = without(p.children, id)
	} else {
		t.roots = without(t.roots, id)
	}
	var drop func(id ID)
	drop = func(id ID) {
		for _, c := range t.nodes[id].children {
			drop(c)
		}
		delete(t.nodes, id)
	}
	drop(id)
}

// preorder lists the visible rows; a nil expanded shows everything.
func (t *fakeTree) preorder(expanded func(ID) bool) []ID {
	var out []ID
	var walk func(ids []ID)
	walk = func(ids []ID) {
		for _, id := range ids {
			out = append(out, id)
			n := t.nodes[id]
			if len(n.children) > 0 && (expanded == nil || expanded(id)) {
				walk(n.children)
			}
		}
	}
	walk(t.roots)
	return out
}

func without(ids []ID, id ID) []ID {
	out := make([]ID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// exampleTree builds Root{A{A1,A2},B}.
func exampleTree() *fakeTree {
	const (
		root, a, a1, a2, b = 1, 2, 3, 4, 5
	)
	return newFakeTree(1).
		add(0, root).
		add(root, a).
		add(a, a1).
		add(a, a2).
		add(root, b)
}

func advanceAll(c *TraversalCache, ids []ID) {
	for _, id := range ids {
		c.AdvanceTo(id)
	}
}

// recorder is a decorator that logs its calls.
type recorder struct {
	name    string
	layer   Layer
	enabled bool
	log     *[]string
	draw    func(c *canvas.Canvas, node Node, view View) error
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Layer() Layer { return r.layer }

func (r *recorder) IsEnabled(_ *config.Settings, _ Node) bool { return r.enabled }

func (r *recorder) Draw(c *canvas.Canvas, node Node, view View) error {
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
	if r.draw != nil {
		return r.draw(c, node, view)
	}
	return nil
}

func newRecorder(name string, layer Layer, log *[]string) *recorder {
	return &recorder{name: name, layer: layer, enabled: true, log: log}
}
