package compose

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/docfold/docfold/internal/tree"
)

// mergeMap returns a new map with src deep-merged over dst. Neither input
// is mutated. Keys present only in src are appended after dst's keys, so
// merge output order stays stable across passes.
func mergeMap(dst, src *tree.Map) *tree.Map {
	out := tree.NewMap()
	for _, key := range dst.Keys() {
		dstChild, _ := dst.Get(key)
		if srcChild, ok := src.Get(key); ok {
			out.Set(key, mergeNode(dstChild, srcChild))
		} else {
			out.Set(key, dstChild)
		}
	}
	for _, key := range src.Keys() {
		if _, ok := dst.Get(key); !ok {
			srcChild, _ := src.Get(key)
			out.Set(key, srcChild)
		}
	}
	return out
}

// mergeNode merges a single incoming node over an existing one. Two maps
// merge recursively, two list-valued scalars append, and in every other
// pairing the incoming node wins.
func mergeNode(dst, src tree.Node) tree.Node {
	dstMap, dstIsMap := dst.(*tree.Map)
	srcMap, srcIsMap := src.(*tree.Map)
	if dstIsMap && srcIsMap {
		return mergeMap(dstMap, srcMap)
	}

	dstScalar, dstIsScalar := dst.(*tree.Scalar)
	srcScalar, srcIsScalar := src.(*tree.Scalar)
	if dstIsScalar && srcIsScalar && isSequence(dstScalar.Value) && isSequence(srcScalar.Value) {
		return tree.NewScalar(appendSequences(dstScalar.Value, srcScalar.Value))
	}

	return src
}

// isSequence reports whether a value is a known, non-null list or tuple.
func isSequence(v cty.Value) bool {
	if !v.IsKnown() || v.IsNull() {
		return false
	}
	ty := v.Type()
	return ty.IsListType() || ty.IsTupleType()
}

// appendSequences concatenates two sequence values, earlier elements first.
// When both sides are lists of the same element type the result stays a
// list; otherwise it becomes a tuple.
func appendSequences(a, b cty.Value) cty.Value {
	elements := append(a.AsValueSlice(), b.AsValueSlice()...)
	if len(elements) == 0 {
		return a
	}
	aType, bType := a.Type(), b.Type()
	if aType.IsListType() && bType.IsListType() && aType.ElementType().Equals(bType.ElementType()) {
		return cty.ListVal(elements)
	}
	return cty.TupleVal(elements)
}
