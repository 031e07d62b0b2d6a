// Package tree defines the configuration tree that flows through the
// composer, the scrubber, and the renderer. A node is either a map of
// named children, a scalar value, or an opaque build artifact.
package tree

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Node is the interface implemented by the three tree variants: *Map,
// *Scalar and *Artifact. The set of variants is closed; code traversing a
// tree switches on the concrete type.
type Node interface {
	node()
}

// Map is an interior node mapping string keys to child nodes. Keys are
// unique. Insertion order is preserved so that rendered output is stable,
// but it carries no semantic meaning.
type Map struct {
	keys     []string
	children map[string]Node
}

// NewMap creates an empty map node.
func NewMap() *Map {
	return &Map{children: make(map[string]Node)}
}

// Set adds or replaces the child stored under key.
func (m *Map) Set(key string, child Node) {
	if _, exists := m.children[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.children[key] = child
}

// Get returns the child stored under key, if any.
func (m *Map) Get(key string) (Node, bool) {
	child, ok := m.children[key]
	return child, ok
}

// Keys returns the map's keys in insertion order. The returned slice is a
// copy; mutating it does not affect the map.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of children.
func (m *Map) Len() int {
	return len(m.children)
}

// Scalar is a leaf node holding a primitive value: a string, bool, number,
// or a list of such values.
type Scalar struct {
	Value cty.Value
}

// NewScalar creates a scalar leaf from a cty value.
func NewScalar(v cty.Value) *Scalar {
	return &Scalar{Value: v}
}

// Artifact is a leaf node standing for a build output. It is a black box
// with identity: the core never inspects an artifact beyond the name needed
// to address it. Name is the artifact's self-reported dotted name and may be
// empty, in which case the artifact is named by its position in the tree.
type Artifact struct {
	Name string
}

func (*Map) node()      {}
func (*Scalar) node()   {}
func (*Artifact) node() {}

// Placeholder returns the scalar stand-in for an artifact with the given
// logical name, e.g. "${pkgs.man_db}". Placeholders are terminal values:
// scrubbing a tree that already contains placeholders leaves them untouched.
func Placeholder(name string) *Scalar {
	return NewScalar(cty.StringVal("${" + name + "}"))
}

// GetPath resolves a dotted path like "man.enable" against the tree and
// returns the scalar value found there. The second result is false if any
// path segment is missing or if the path lands on a map or artifact node.
func GetPath(m *Map, path string) (cty.Value, bool) {
	segments := strings.Split(path, ".")
	current := m
	for i, seg := range segments {
		child, ok := current.Get(seg)
		if !ok {
			return cty.NilVal, false
		}
		if i == len(segments)-1 {
			if scalar, ok := child.(*Scalar); ok {
				return scalar.Value, true
			}
			return cty.NilVal, false
		}
		next, ok := child.(*Map)
		if !ok {
			return cty.NilVal, false
		}
		current = next
	}
	return cty.NilVal, false
}

// SetPath stores a node at a dotted path, creating intermediate map nodes
// as needed. It returns a StructuralError if an intermediate segment is
// already occupied by a leaf.
func SetPath(m *Map, path string, node Node) error {
	segments := strings.Split(path, ".")
	current := m
	for _, seg := range segments[:len(segments)-1] {
		child, ok := current.Get(seg)
		if !ok {
			next := NewMap()
			current.Set(seg, next)
			current = next
			continue
		}
		next, ok := child.(*Map)
		if !ok {
			return &StructuralError{Path: path, Msg: "path segment '" + seg + "' is a leaf, not a map"}
		}
		current = next
	}
	last := segments[len(segments)-1]
	if existing, ok := current.Get(last); ok {
		if _, isMap := existing.(*Map); isMap {
			if _, nodeIsMap := node.(*Map); !nodeIsMap {
				return &StructuralError{Path: path, Msg: "path already holds nested settings"}
			}
		}
	}
	current.Set(last, node)
	return nil
}

// Equal reports structural and value equality of two trees. Map key order
// is ignored: two maps are equal when they hold equal children under the
// same set of keys.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, key := range av.keys {
			bc, ok := bv.Get(key)
			if !ok || !Equal(av.children[key], bc) {
				return false
			}
		}
		return true
	case *Scalar:
		bv, ok := b.(*Scalar)
		return ok && av.Value.RawEquals(bv.Value)
	case *Artifact:
		bv, ok := b.(*Artifact)
		return ok && av.Name == bv.Name
	}
	return false
}
