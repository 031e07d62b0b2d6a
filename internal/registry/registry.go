// Package registry holds the declared option schema for one application
// instance: every typed knob with its default value and description. The
// registry is the source of the composition base and of the option
// reference handed to documentation renderers.
package registry

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/tree"
)

// Registry stores option specs keyed by dotted path, preserving declaration
// order. Specs are immutable once declared.
type Registry struct {
	specs  []*config.OptionSpec
	byPath map[string]*config.OptionSpec
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{byPath: make(map[string]*config.OptionSpec)}
}

// Declare registers an option spec. The default value is converted to the
// declared type; a non-conforming default or a duplicate path is a
// declaration error.
func (r *Registry) Declare(spec *config.OptionSpec) error {
	if spec.Path == "" {
		return fmt.Errorf("option declaration is missing a path")
	}
	if _, exists := r.byPath[spec.Path]; exists {
		return fmt.Errorf("option '%s' is declared more than once", spec.Path)
	}

	declared := *spec
	if declared.Type == cty.NilType {
		declared.Type = cty.DynamicPseudoType
	}
	if declared.Default == cty.NilVal {
		declared.Default = cty.NullVal(declared.Type)
	} else if !declared.Type.Equals(cty.DynamicPseudoType) {
		converted, err := convert.Convert(declared.Default, declared.Type)
		if err != nil {
			return fmt.Errorf("option '%s': default does not conform to declared type %s: %w",
				declared.Path, declared.Type.FriendlyName(), err)
		}
		declared.Default = converted
	}

	r.specs = append(r.specs, &declared)
	r.byPath[declared.Path] = &declared
	return nil
}

// PopulateFromModel declares every option spec carried by a loaded model.
func (r *Registry) PopulateFromModel(model *config.Model) error {
	for _, spec := range model.Options {
		if err := r.Declare(spec); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the spec declared at the given dotted path, if any.
func (r *Registry) Lookup(path string) (*config.OptionSpec, bool) {
	spec, ok := r.byPath[path]
	return spec, ok
}

// Specs returns all declared specs in declaration order.
func (r *Registry) Specs() []*config.OptionSpec {
	specs := make([]*config.OptionSpec, len(r.specs))
	copy(specs, r.specs)
	return specs
}

// DefaultTree builds the composition base: a tree holding every declared
// option's default value at its dotted path.
func (r *Registry) DefaultTree() (*tree.Map, error) {
	base := tree.NewMap()
	for _, spec := range r.specs {
		if err := tree.SetPath(base, spec.Path, tree.NewScalar(spec.Default)); err != nil {
			return nil, fmt.Errorf("option '%s': %w", spec.Path, err)
		}
	}
	return base, nil
}
