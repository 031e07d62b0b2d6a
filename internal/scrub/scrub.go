// Package scrub replaces build-artifact leaves in a configuration tree with
// symbolic placeholders. The result is safe to hand to a document renderer:
// it has the same shape as the input but forces no artifact evaluation and
// leaks no artifact contents.
package scrub

import (
	"github.com/docfold/docfold/internal/tree"
)

// Predicate decides whether a node is an artifact to be scrubbed.
type Predicate func(tree.Node) bool

// Namer produces the logical dotted name for an artifact node found at the
// given tree position. An empty result means the artifact has no usable
// identity and scrubbing fails.
type Namer func(path string, n tree.Node) string

// IsArtifact is the default predicate: it matches the *tree.Artifact variant.
func IsArtifact(n tree.Node) bool {
	_, ok := n.(*tree.Artifact)
	return ok
}

// LogicalName is the default namer. An artifact's self-reported name wins;
// otherwise the artifact is named by its dotted position in the tree.
func LogicalName(path string, n tree.Node) string {
	if artifact, ok := n.(*tree.Artifact); ok && artifact.Name != "" {
		return artifact.Name
	}
	return path
}

// Scrub walks the tree depth-first and returns a structurally identical
// tree in which every node matched by isArtifact is replaced by the
// placeholder named by nameOf. All other scalars pass through unchanged and
// map nodes are rebuilt with their key order preserved. The input is never
// mutated and no artifact is inspected beyond its identity.
//
// A cyclic reference yields a *tree.StructuralError, as does an artifact for
// which nameOf returns an empty name.
func Scrub(root tree.Node, isArtifact Predicate, nameOf Namer) (tree.Node, error) {
	return scrubNode(root, "", map[*tree.Map]bool{}, isArtifact, nameOf)
}

// scrubNode does the recursive work. onPath holds the map nodes on the
// current descent path for cycle detection.
func scrubNode(n tree.Node, path string, onPath map[*tree.Map]bool, isArtifact Predicate, nameOf Namer) (tree.Node, error) {
	if isArtifact(n) {
		name := nameOf(path, n)
		if name == "" {
			return nil, &tree.StructuralError{Path: path, Msg: "artifact cannot report an identity"}
		}
		return tree.Placeholder(name), nil
	}

	m, ok := n.(*tree.Map)
	if !ok {
		// Scalars (and artifact variants a custom predicate chose to leave
		// alone) pass through unchanged.
		return n, nil
	}

	if onPath[m] {
		return nil, &tree.StructuralError{Path: path, Msg: "cyclic reference detected"}
	}
	onPath[m] = true
	defer delete(onPath, m)

	out := tree.NewMap()
	for _, key := range m.Keys() {
		child, _ := m.Get(key)
		scrubbed, err := scrubNode(child, joinPath(path, key), onPath, isArtifact, nameOf)
		if err != nil {
			return nil, err
		}
		out.Set(key, scrubbed)
	}
	return out, nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
