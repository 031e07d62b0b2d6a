// Package schema declares the HCL shapes of docfold's source files. These
// structs carry gohcl struct tags only; translation into the format-agnostic
// config model lives in the hcl_adapter package.
package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// OptionDecl represents an `option "<dotted.path>" {}` block declaring one
// typed configuration knob.
type OptionDecl struct {
	Path        string         `hcl:"path,label"`
	Type        hcl.Expression `hcl:"type"`
	Default     *cty.Value     `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
}

// SetBlock is the payload of a fragment: an open body decoded generically
// into a partial configuration tree.
type SetBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// AssertDecl represents an `assert {}` block: an invariant the final merged
// configuration must satisfy while the enclosing fragment is active.
type AssertDecl struct {
	Condition hcl.Expression `hcl:"condition"`
	Message   string         `hcl:"message"`
}

// FragmentDecl represents a `fragment "<name>" {}` block: a conditionally
// active partial configuration plus its invariants.
type FragmentDecl struct {
	Name    string         `hcl:"name,label"`
	When    hcl.Expression `hcl:"when,optional"`
	Set     *SetBlock      `hcl:"set,block"`
	Asserts []*AssertDecl  `hcl:"assert,block"`
}

// Root represents the top-level structure of any docfold source file. Files
// may freely mix option declarations and fragments.
type Root struct {
	Options   []*OptionDecl   `hcl:"option,block"`
	Fragments []*FragmentDecl `hcl:"fragment,block"`
	Remain    hcl.Body        `hcl:",remain"`
}
