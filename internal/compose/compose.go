// Package compose merges conditionally active configuration fragments over
// a base of schema defaults and validates the result against every active
// fragment's assertions. A pass either yields a complete resolved settings
// tree or fails with the full set of violated invariants; consumers never
// observe a half-merged state.
package compose

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/dfhcl"
	"github.com/docfold/docfold/internal/tree"
)

// Resolved is the settings tree produced by a successful composition pass.
// It is read-only; any change requires re-running Compose.
type Resolved struct {
	root *tree.Map
}

// Tree returns the underlying settings tree. Callers must not mutate it.
func (r *Resolved) Tree() *tree.Map {
	return r.root
}

// Bool reads a boolean setting at a dotted path. The second result is false
// if the path is absent or not a boolean.
func (r *Resolved) Bool(path string) (bool, bool) {
	v, ok := tree.GetPath(r.root, path)
	if !ok || !v.IsKnown() || v.IsNull() || !v.Type().Equals(cty.Bool) {
		return false, false
	}
	return v.True(), true
}

// StringList reads a list of strings at a dotted path. Elements that are
// not strings are converted when possible; the second result is false if
// the path is absent, not a sequence, or holds an inconvertible element.
func (r *Resolved) StringList(path string) ([]string, bool) {
	v, ok := tree.GetPath(r.root, path)
	if !ok || !v.IsKnown() || v.IsNull() {
		return nil, false
	}
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, false
	}
	elements := v.AsValueSlice()
	out := make([]string, 0, len(elements))
	for _, element := range elements {
		element, _ = element.Unmark()
		converted, err := convert.Convert(element, cty.String)
		if err != nil || converted.IsNull() {
			return nil, false
		}
		out = append(out, converted.AsString())
	}
	return out, true
}

// Compose resolves the final settings tree from the base defaults and the
// ordered fragment sequence. Each fragment's predicate is evaluated once
// against the base; active fragments are deep-merged in declaration order
// (later scalars override, lists append); then every active fragment's
// assertions are checked against the merged result, collecting all failures.
//
// A failed assertion set returns a *CompositionError and no Resolved. A
// predicate or assertion that does not evaluate to a boolean is a
// configuration-authoring defect and fails the pass immediately. Compose
// never mutates its inputs.
func Compose(base *tree.Map, fragments []*config.Fragment) (*Resolved, error) {
	baseCtx := tree.EvalContext(base)

	active := make([]*config.Fragment, 0, len(fragments))
	for _, fragment := range fragments {
		isActive, err := evalPredicate(fragment, baseCtx)
		if err != nil {
			return nil, err
		}
		if isActive {
			active = append(active, fragment)
		}
	}

	merged := base
	for _, fragment := range active {
		if fragment.Payload != nil {
			merged = mergeMap(merged, fragment.Payload)
		}
	}

	mergedCtx := tree.EvalContext(merged)
	var failures []AssertionFailure
	for _, fragment := range active {
		for _, assertion := range fragment.Assertions {
			holds, err := evalCondition(fragment, assertion, mergedCtx)
			if err != nil {
				return nil, err
			}
			if !holds {
				failures = append(failures, AssertionFailure{
					Fragment: fragment.Name,
					Message:  assertion.Message,
				})
			}
		}
	}
	if len(failures) > 0 {
		return nil, &CompositionError{Failures: failures}
	}

	return &Resolved{root: merged}, nil
}

// ReferencedVariables lists the dotted variable paths a fragment's predicate
// reads, in source order. It returns nil for an unconditional fragment.
func ReferencedVariables(fragment *config.Fragment) []string {
	if fragment.When == nil {
		return nil
	}
	traversals := fragment.When.Variables()
	refs := make([]string, 0, len(traversals))
	for _, traversal := range traversals {
		refs = append(refs, dfhcl.TraversalKey(traversal))
	}
	return refs
}

// evalPredicate decides whether a fragment is active. A nil predicate means
// always active.
func evalPredicate(fragment *config.Fragment, evalCtx *hcl.EvalContext) (bool, error) {
	if fragment.When == nil {
		return true, nil
	}
	result, err := evalBool(fragment.When, evalCtx)
	if err != nil {
		return false, fmt.Errorf("fragment '%s': invalid predicate: %w", fragment.Name, err)
	}
	return result, nil
}

// evalCondition evaluates one assertion condition against the merged result.
func evalCondition(fragment *config.Fragment, assertion *config.Assertion, evalCtx *hcl.EvalContext) (bool, error) {
	result, err := evalBool(assertion.Condition, evalCtx)
	if err != nil {
		return false, fmt.Errorf("fragment '%s': invalid assertion condition: %w", fragment.Name, err)
	}
	return result, nil
}

// evalBool evaluates an expression and converts the result to a boolean.
func evalBool(expr hcl.Expression, evalCtx *hcl.EvalContext) (bool, error) {
	value, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return false, diags
	}
	value, _ = value.Unmark()
	converted, err := convert.Convert(value, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("expression yields %s, not bool: %w", value.Type().FriendlyName(), err)
	}
	if converted.IsNull() || !converted.IsKnown() {
		return false, fmt.Errorf("expression yields no usable boolean value")
	}
	return converted.True(), nil
}
