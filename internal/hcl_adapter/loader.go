// Package hcl_adapter implements the config.Loader interface for HCL
// source files. It discovers .hcl files, decodes option and fragment
// blocks, and translates them into the format-agnostic config model.
package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/ctxlog"
	"github.com/docfold/docfold/internal/fsutil"
	"github.com/docfold/docfold/internal/registry"
	"github.com/docfold/docfold/internal/schema"
	"github.com/docfold/docfold/internal/tree"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the HCL loading process: it parses every discovered
// file, translates option declarations, and decodes fragment payloads
// against an evaluation context built from the declared defaults.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var optionDecls []*schema.OptionDecl
	var fragmentDecls []*schema.FragmentDecl
	fragmentRanges := make(map[string]hcl.Range)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.Root
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		optionDecls = append(optionDecls, root.Options...)
		fragmentDecls = append(fragmentDecls, root.Fragments...)
	}

	// Phase one: translate and declare the option schema. The resulting
	// default tree supplies the variables available to fragment payload and
	// predicate expressions.
	reg := registry.New()
	for _, decl := range optionDecls {
		spec, err := l.translateOption(ctx, decl)
		if err != nil {
			return nil, err
		}
		if err := reg.Declare(spec); err != nil {
			return nil, err
		}
	}
	base, err := reg.DefaultTree()
	if err != nil {
		return nil, err
	}
	evalCtx := tree.EvalContext(base)
	logger.Debug("Option schema declared.", "options", len(reg.Specs()))

	// Phase two: translate fragments, decoding each payload body into a
	// partial tree.
	fragments := make([]*config.Fragment, 0, len(fragmentDecls))
	for _, decl := range fragmentDecls {
		fragment, err := l.translateFragment(ctx, decl, evalCtx)
		if err != nil {
			return nil, err
		}
		if prior, dup := fragmentRanges[fragment.Name]; dup {
			return nil, fmt.Errorf("fragment '%s' is declared more than once (previously at %s)",
				fragment.Name, prior.String())
		}
		fragmentRanges[fragment.Name] = fragment.DeclRange
		fragments = append(fragments, fragment)
	}
	logger.Debug("HCL loading complete.", "options", len(reg.Specs()), "fragments", len(fragments))

	return &config.Model{Options: reg.Specs(), Fragments: fragments}, nil
}

// translateOption converts an HCL option declaration into an OptionSpec.
func (l *Loader) translateOption(ctx context.Context, decl *schema.OptionDecl) (*config.OptionSpec, error) {
	declaredType, err := typeExprToCtyType(ctx, decl.Type)
	if err != nil {
		return nil, fmt.Errorf("option '%s': %w", decl.Path, err)
	}
	spec := &config.OptionSpec{
		Path:        decl.Path,
		Type:        declaredType,
		Default:     cty.NilVal,
		Description: decl.Description,
	}
	if decl.Default != nil {
		spec.Default = *decl.Default
	}
	return spec, nil
}

// translateFragment converts an HCL fragment declaration into the agnostic
// model, decoding its set body into a partial configuration tree.
func (l *Loader) translateFragment(ctx context.Context, decl *schema.FragmentDecl, evalCtx *hcl.EvalContext) (*config.Fragment, error) {
	fragment := &config.Fragment{Name: decl.Name}

	// gohcl materializes absent optional expressions as literal nulls; treat
	// those as "no predicate".
	if decl.When != nil && !exprIsAbsent(decl.When) {
		fragment.When = decl.When
		fragment.DeclRange = decl.When.Range()
	}

	if decl.Set != nil {
		payload, err := decodeBody(decl.Set.Body, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("fragment '%s': %w", decl.Name, err)
		}
		fragment.Payload = payload
	}

	for _, assert := range decl.Asserts {
		fragment.Assertions = append(fragment.Assertions, &config.Assertion{
			Condition: assert.Condition,
			Message:   assert.Message,
			DeclRange: assert.Condition.Range(),
		})
	}

	return fragment, nil
}

// exprIsAbsent reports whether an optional expression was omitted in
// source. gohcl represents omission as a static null literal.
func exprIsAbsent(expr hcl.Expression) bool {
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}

// findAllHCLFiles walks all given paths and returns a flat, deduplicated
// list of all .hcl files found. A configured path that does not exist is
// skipped rather than treated as an error.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, file := range files {
			if _, wasSeen := seen[file]; !wasSeen {
				allFiles = append(allFiles, file)
				seen[file] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
