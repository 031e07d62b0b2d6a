// Package assemble orchestrates one documentation-generation pass: it
// resolves the final settings from the schema defaults and fragments,
// scrubs build-artifact leaves out of the result, derives plain
// installation directives, and hands the scrubbed tree to a renderer.
package assemble

import (
	"context"
	"fmt"
	"io"

	"github.com/docfold/docfold/internal/compose"
	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/ctxlog"
	"github.com/docfold/docfold/internal/registry"
	"github.com/docfold/docfold/internal/scrub"
	"github.com/docfold/docfold/internal/tree"
)

// Renderer produces a human-readable manual from the scrubbed settings tree
// and the declared option schema. Implementations must treat placeholder
// strings as terminal values and never attempt to dereference them.
type Renderer interface {
	Render(ctx context.Context, scrubbed *tree.Map, specs []*config.OptionSpec, w io.Writer) error
}

// Directives are the plain installation decisions derived from fixed dotted
// paths of the resolved settings.
type Directives struct {
	BuildDocs         bool
	InstallManPages   bool
	InstallInfoPages  bool
	GenerateManCaches bool
	InstallDevDocs    bool
	ExtraPackages     []string
	SearchPaths       []string
}

// Result carries everything one pass produces.
type Result struct {
	Resolved   *compose.Resolved
	Scrubbed   *tree.Map
	Directives Directives
}

// Assembler wires the registry, the composer, and the scrubber together in
// front of a renderer.
type Assembler struct {
	registry *registry.Registry
	renderer Renderer
}

// New creates an Assembler. The renderer may be nil when only directives
// are wanted.
func New(reg *registry.Registry, renderer Renderer) *Assembler {
	return &Assembler{registry: reg, renderer: renderer}
}

// Assemble runs one pass. A composition failure (or a structurally invalid
// tree) aborts the pass before any rendering happens, so no manual is ever
// generated from a half-merged or artifact-bearing state.
func (a *Assembler) Assemble(ctx context.Context, fragments []*config.Fragment, w io.Writer) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	base, err := a.registry.DefaultTree()
	if err != nil {
		return nil, err
	}

	for _, fragment := range fragments {
		logger.Debug("Composing fragment.",
			"fragment", fragment.Name,
			"predicate_reads", compose.ReferencedVariables(fragment))
	}

	resolved, err := compose.Compose(base, fragments)
	if err != nil {
		return nil, err
	}
	logger.Debug("Fragments composed.", "fragments", len(fragments))

	scrubbed, err := scrub.Scrub(resolved.Tree(), scrub.IsArtifact, scrub.LogicalName)
	if err != nil {
		return nil, err
	}
	scrubbedMap, ok := scrubbed.(*tree.Map)
	if !ok {
		// The composition base is always a map, so this cannot happen unless
		// the registry produced a degenerate tree.
		return nil, fmt.Errorf("scrubbed settings tree is not a map (%T)", scrubbed)
	}
	logger.Debug("Settings tree scrubbed.")

	result := &Result{
		Resolved:   resolved,
		Scrubbed:   scrubbedMap,
		Directives: deriveDirectives(resolved),
	}

	if a.renderer != nil && w != nil && result.Directives.BuildDocs {
		if err := a.renderer.Render(ctx, scrubbedMap, a.registry.Specs(), w); err != nil {
			return nil, fmt.Errorf("rendering failed: %w", err)
		}
		logger.Debug("Manual rendered.")
	}

	return result, nil
}

// deriveDirectives reads the fixed dotted paths the installation layer
// cares about. Absent paths leave the zero value in place.
func deriveDirectives(resolved *compose.Resolved) Directives {
	var d Directives
	docs, _ := resolved.Bool("doc.enable")
	d.BuildDocs = docs
	if man, ok := resolved.Bool("man.enable"); ok {
		d.InstallManPages = docs && man
	}
	if caches, ok := resolved.Bool("man.generate_caches"); ok {
		d.GenerateManCaches = d.InstallManPages && caches
	}
	if info, ok := resolved.Bool("info.enable"); ok {
		d.InstallInfoPages = docs && info
	}
	if dev, ok := resolved.Bool("dev.enable"); ok {
		d.InstallDevDocs = docs && dev
	}
	if packages, ok := resolved.StringList("extra_packages"); ok {
		d.ExtraPackages = packages
	}
	if paths, ok := resolved.StringList("search_paths"); ok {
		d.SearchPaths = paths
	}
	return d
}
