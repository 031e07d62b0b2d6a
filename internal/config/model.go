package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/docfold/docfold/internal/tree"
)

// Model is the unified representation of everything loaded from the
// configuration sources: the declared option schema and the ordered set of
// conditional fragments.
type Model struct {
	Options   []*OptionSpec
	Fragments []*Fragment
}

// OptionSpec declares a single typed configuration knob. It is immutable
// after declaration; the registry builds the composition base from the
// defaults and documentation tooling reads the descriptions.
type OptionSpec struct {
	Path        string
	Type        cty.Type
	Default     cty.Value
	Description string
}

// Fragment is an independently authored, conditionally active partial
// configuration. The composer reads fragments but never mutates them.
type Fragment struct {
	Name string

	// When holds the activation predicate. A nil expression means the
	// fragment is unconditionally active. Predicates are evaluated exactly
	// once per composition pass, against the base settings.
	When hcl.Expression

	// Payload is the partial tree deep-merged onto the running result when
	// the fragment is active.
	Payload *tree.Map

	// Assertions are the invariants this fragment demands of the final
	// merged result. They only apply while the fragment is active.
	Assertions []*Assertion

	// DeclRange locates the fragment's declaration for diagnostics.
	DeclRange hcl.Range
}

// Assertion is a boolean invariant with a human-readable failure message.
type Assertion struct {
	Condition hcl.Expression
	Message   string
	DeclRange hcl.Range
}
