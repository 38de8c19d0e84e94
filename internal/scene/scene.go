// Package scene is the host object model shown in the hierarchy panel: a
// forest of named objects carrying tags, layers, components and an active
// flag.
package scene

import (
	"errors"
	"fmt"

	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
)

// NoParent is the parent argument for top-level objects.
const NoParent hierarchy.ID = 0

// Common errors.
var (
	ErrNotFound  = errors.New("object not found")
	ErrCycle     = errors.New("object cannot become its own descendant")
	ErrEmptyName = errors.New("object name cannot be empty")
)

// Spec describes an object to add.
type Spec struct {
	Name            string
	Tag             string
	Layer           string
	Active          bool
	Components      []string
	PrefabOverrides int
}

// Object is one scene object.
type Object struct {
	scene *Scene

	id        hierarchy.ID
	parent    hierarchy.ID
	hasParent bool
	children  []hierarchy.ID

	name            string
	tag             string
	layer           string
	active          bool
	components      []string
	prefabOverrides int
}

// ID returns the object identity.
func (o *Object) ID() hierarchy.ID { return o.id }

// Parent returns the parent identity, false for top-level objects.
func (o *Object) Parent() (hierarchy.ID, bool) { return o.parent, o.hasParent }

// Children returns a copy of the ordered child identities.
func (o *Object) Children() []hierarchy.ID {
	out := make([]hierarchy.ID, len(o.children))
	copy(out, o.children)
	return out
}

// Name returns the display name.
func (o *Object) Name() string { return o.name }

// Tag returns the object tag.
func (o *Object) Tag() string { return o.tag }

// Layer returns the object layer.
func (o *Object) Layer() string { return o.layer }

// ActiveSelf returns the object's own active flag.
func (o *Object) ActiveSelf() bool { return o.active }

// Components returns the attached component names.
func (o *Object) Components() []string {
	out := make([]string, len(o.components))
	copy(out, o.components)
	return out
}

// PrefabOverrides returns the number of overridden prefab properties.
func (o *Object) PrefabOverrides() int { return o.prefabOverrides }

// ActiveInHierarchy reports whether the object and all its ancestors are
// active.
func (o *Object) ActiveInHierarchy() bool {
	cur := o
	for cur != nil {
		if !cur.active {
			return false
		}
		if !cur.hasParent {
			return true
		}
		cur = cur.scene.objects[cur.parent]
	}
	return true
}

// Scene is a tree of objects. It is not safe for concurrent use.
type Scene struct {
	id      hierarchy.TreeID
	name    string
	path    string
	objects map[hierarchy.ID]*Object
	roots   []hierarchy.ID
	nextID  hierarchy.ID
}

// New creates an empty scene.
func New(id hierarchy.TreeID, name string) *Scene {
	return &Scene{
		id:      id,
		name:    name,
		objects: make(map[hierarchy.ID]*Object),
		nextID:  1,
	}
}

// TreeID returns the scene handle.
func (s *Scene) TreeID() hierarchy.TreeID { return s.id }

// Name returns the scene name.
func (s *Scene) Name() string { return s.name }

// Path returns the file the scene was loaded from or last saved to.
func (s *Scene) Path() string { return s.path }

// SetPath sets the file the scene is saved to.
func (s *Scene) SetPath(path string) { s.path = path }

// Len returns the number of live objects.
func (s *Scene) Len() int { return len(s.objects) }

// Resolve returns the live object for id.
func (s *Scene) Resolve(id hierarchy.ID) (hierarchy.Node, bool) {
	o, ok := s.objects[id]
	if !ok {
		return nil, false
	}
	return o, true
}

// Object returns the live object for id.
func (s *Scene) Object(id hierarchy.ID) (*Object, bool) {
	o, ok := s.objects[id]
	return o, ok
}

// Roots returns a copy of the top-level identities.
func (s *Scene) Roots() []hierarchy.ID {
	out := make([]hierarchy.ID, len(s.roots))
	copy(out, s.roots)
	return out
}

// Add creates an object under parent, appended after its siblings.
func (s *Scene) Add(parent hierarchy.ID, spec Spec) (hierarchy.ID, error) {
	if spec.Name == "" {
		return 0, ErrEmptyName
	}

	o := &Object{
		scene:           s,
		id:              s.nextID,
		name:            spec.Name,
		tag:             spec.Tag,
		layer:           spec.Layer,
		active:          spec.Active,
		components:      append([]string(nil), spec.Components...),
		prefabOverrides: spec.PrefabOverrides,
	}

	if parent == NoParent {
		s.roots = append(s.roots, o.id)
	} else {
		p, ok := s.objects[parent]
		if !ok {
			return 0, fmt.Errorf("add %q under %d: %w", spec.Name, parent, ErrNotFound)
		}
		o.parent, o.hasParent = parent, true
		p.children = append(p.children, o.id)
	}

	s.objects[o.id] = o
	s.nextID++
	return o.id, nil
}

// Destroy removes an object and all its descendants.
func (s *Scene) Destroy(id hierarchy.ID) error {
	o, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("destroy %d: %w", id, ErrNotFound)
	}
	s.detach(o)
	s.drop(o)
	return nil
}

func (s *Scene) drop(o *Object) {
	for _, cid := range o.children {
		if c, ok := s.objects[cid]; ok {
			s.drop(c)
		}
	}
	delete(s.objects, o.id)
}

func (s *Scene) detach(o *Object) {
	if o.hasParent {
		if p, ok := s.objects[o.parent]; ok {
			p.children = remove(p.children, o.id)
		}
	} else {
		s.roots = remove(s.roots, o.id)
	}
	o.parent, o.hasParent = 0, false
}

// Move reparents an object to position index among newParent's children.
// An index out of range appends.
func (s *Scene) Move(id, newParent hierarchy.ID, index int) error {
	o, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("move %d: %w", id, ErrNotFound)
	}

	if newParent != NoParent {
		p, ok := s.objects[newParent]
		if !ok {
			return fmt.Errorf("move %d under %d: %w", id, newParent, ErrNotFound)
		}
		for cur := p; cur != nil; {
			if cur.id == id {
				return fmt.Errorf("move %d under %d: %w", id, newParent, ErrCycle)
			}
			if !cur.hasParent {
				break
			}
			cur = s.objects[cur.parent]
		}
	}

	s.detach(o)
	if newParent == NoParent {
		s.roots = insert(s.roots, id, index)
		return nil
	}
	p := s.objects[newParent]
	p.children = insert(p.children, id, index)
	o.parent, o.hasParent = newParent, true
	return nil
}

// SetActive sets the object's own active flag.
func (s *Scene) SetActive(id hierarchy.ID, active bool) error {
	o, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("set active %d: %w", id, ErrNotFound)
	}
	o.active = active
	return nil
}

// Rename changes the display name.
func (s *Scene) Rename(id hierarchy.ID, name string) error {
	if name == "" {
		return ErrEmptyName
	}
	o, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("rename %d: %w", id, ErrNotFound)
	}
	o.name = name
	return nil
}

// FindByName returns the first object named name in pre-order.
func (s *Scene) FindByName(name string) (hierarchy.ID, bool) {
	var found hierarchy.ID
	s.Walk(nil, func(id hierarchy.ID, _ int) bool {
		if s.objects[id].name == name {
			found = id
			return false
		}
		return true
	})
	return found, found != 0
}

// Walk visits objects in pre-order. Children are entered only when
// expanded reports true for their parent; a nil expanded enters every
// object. Returning false from visit stops the walk.
func (s *Scene) Walk(expanded func(hierarchy.ID) bool, visit func(id hierarchy.ID, depth int) bool) {
	var walk func(ids []hierarchy.ID, depth int) bool
	walk = func(ids []hierarchy.ID, depth int) bool {
		for _, id := range ids {
			o, ok := s.objects[id]
			if !ok {
				continue
			}
			if !visit(id, depth) {
				return false
			}
			if len(o.children) > 0 && (expanded == nil || expanded(id)) {
				if !walk(o.children, depth+1) {
					return false
				}
			}
		}
		return true
	}
	walk(s.roots, 0)
}

// Visible returns the identities Walk would visit.
func (s *Scene) Visible(expanded func(hierarchy.ID) bool) []hierarchy.ID {
	var ids []hierarchy.ID
	s.Walk(expanded, func(id hierarchy.ID, _ int) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

func remove(ids []hierarchy.ID, id hierarchy.ID) []hierarchy.ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func insert(ids []hierarchy.ID, id hierarchy.ID, index int) []hierarchy.ID {
	if index < 0 || index >= len(ids) {
		return append(ids, id)
	}
	ids = append(ids, 0)
	copy(ids[index+1:], ids[index:])
	ids[index] = id
	return ids
}
