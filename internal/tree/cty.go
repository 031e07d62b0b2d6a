// This file bridges the tree variants and cty's value space so that HCL
// expressions can read configuration values and produce payload trees.
// Artifacts cross the bridge as marked string values; the mark survives any
// expression that merely passes the value through, so an artifact's identity
// is never lost and its contents are never materialized.

package tree

import (
	"errors"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// artifactMark tags a cty string value as standing for a build artifact.
type artifactMark struct{}

// MarkArtifact returns the cty representation of an artifact with the given
// logical name: a string value carrying the artifact mark.
func MarkArtifact(name string) cty.Value {
	return cty.StringVal(name).Mark(artifactMark{})
}

// IsArtifactValue reports whether a cty value carries the artifact mark.
func IsArtifactValue(v cty.Value) bool {
	return v.HasMark(artifactMark{})
}

// ToCty converts a tree node into its cty equivalent. Maps become objects,
// scalars pass through, and artifacts become marked string values.
func ToCty(n Node) cty.Value {
	switch v := n.(type) {
	case *Map:
		if v.Len() == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, v.Len())
		for _, key := range v.keys {
			attrs[key] = ToCty(v.children[key])
		}
		return cty.ObjectVal(attrs)
	case *Scalar:
		return v.Value
	case *Artifact:
		return MarkArtifact(v.Name)
	}
	return cty.NilVal
}

// FromCty converts a cty value into a tree node. Marked artifact values
// become *Artifact leaves, objects and maps become *Map nodes, and anything
// else becomes a *Scalar. Object keys are emitted in lexical order since cty
// object types carry no ordering of their own.
func FromCty(v cty.Value) (Node, error) {
	if IsArtifactValue(v) {
		unmarked, _ := v.Unmark()
		if unmarked.IsNull() || !unmarked.Type().Equals(cty.String) {
			return nil, errors.New("artifact value must be a non-null string naming the artifact")
		}
		return &Artifact{Name: unmarked.AsString()}, nil
	}
	ty := v.Type()
	if v.IsKnown() && !v.IsNull() && (ty.IsObjectType() || ty.IsMapType()) {
		valueMap := v.AsValueMap()
		keys := make([]string, 0, len(valueMap))
		for key := range valueMap {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, key := range keys {
			child, err := FromCty(valueMap[key])
			if err != nil {
				return nil, err
			}
			m.Set(key, child)
		}
		return m, nil
	}
	return NewScalar(v), nil
}
