package assemble

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/docfold/docfold/internal/compose"
	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/registry"
	"github.com/docfold/docfold/internal/tree"
)

// failingCondition builds an assertion condition that always evaluates to
// false.
func failingCondition(t *testing.T) hcl.Expression {
	t.Helper()
	expression, diags := hclsyntax.ParseExpression([]byte("false"), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expression
}

// recordingRenderer captures what the assembler hands to the renderer and
// fails the pass if any artifact survived scrubbing.
type recordingRenderer struct {
	called   bool
	scrubbed *tree.Map
	specs    []*config.OptionSpec
}

func (r *recordingRenderer) Render(ctx context.Context, scrubbed *tree.Map, specs []*config.OptionSpec, w io.Writer) error {
	r.called = true
	r.scrubbed = scrubbed
	r.specs = specs
	return nil
}

func docRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	specs := []*config.OptionSpec{
		{Path: "doc.enable", Type: cty.Bool, Default: cty.True},
		{Path: "man.enable", Type: cty.Bool, Default: cty.True},
		{Path: "man.generate_caches", Type: cty.Bool, Default: cty.False},
		{Path: "info.enable", Type: cty.Bool, Default: cty.True},
		{Path: "dev.enable", Type: cty.Bool, Default: cty.False},
		{Path: "extra_packages", Type: cty.List(cty.String), Default: cty.ListValEmpty(cty.String)},
		{Path: "search_paths", Type: cty.List(cty.String), Default: cty.ListValEmpty(cty.String)},
	}
	for _, spec := range specs {
		require.NoError(t, reg.Declare(spec))
	}
	return reg
}

func TestAssemble_DerivesDirectives(t *testing.T) {
	reg := docRegistry(t)
	renderer := &recordingRenderer{}
	assembler := New(reg, renderer)

	payload := tree.NewMap()
	require.NoError(t, tree.SetPath(payload, "man.generate_caches", tree.NewScalar(cty.True)))
	require.NoError(t, tree.SetPath(payload, "extra_packages",
		tree.NewScalar(cty.ListVal([]cty.Value{cty.StringVal("man-db")}))))

	fragments := []*config.Fragment{{Name: "man-pages", Payload: payload}}

	var out bytes.Buffer
	result, err := assembler.Assemble(context.Background(), fragments, &out)
	require.NoError(t, err)

	want := Directives{
		BuildDocs:         true,
		InstallManPages:   true,
		GenerateManCaches: true,
		InstallInfoPages:  true,
		InstallDevDocs:    false,
		ExtraPackages:     []string{"man-db"},
		SearchPaths:       []string{},
	}
	require.Empty(t, cmp.Diff(want, result.Directives))
	require.True(t, renderer.called)
	require.Len(t, renderer.specs, 7)
}

func TestAssemble_DisabledDocsSkipRendering(t *testing.T) {
	reg := docRegistry(t)
	renderer := &recordingRenderer{}
	assembler := New(reg, renderer)

	payload := tree.NewMap()
	require.NoError(t, tree.SetPath(payload, "doc.enable", tree.NewScalar(cty.False)))
	fragments := []*config.Fragment{{Name: "kill-docs", Payload: payload}}

	var out bytes.Buffer
	result, err := assembler.Assemble(context.Background(), fragments, &out)
	require.NoError(t, err)

	require.False(t, result.Directives.BuildDocs)
	require.False(t, result.Directives.InstallManPages)
	require.False(t, renderer.called)
}

func TestAssemble_RendererSeesOnlyPlaceholders(t *testing.T) {
	reg := docRegistry(t)
	renderer := &recordingRenderer{}
	assembler := New(reg, renderer)

	payload := tree.NewMap()
	pkgs := tree.NewMap()
	pkgs.Set("man_db", &tree.Artifact{Name: "pkgs.man_db"})
	payload.Set("pkgs", pkgs)
	fragments := []*config.Fragment{{Name: "packages", Payload: payload}}

	var out bytes.Buffer
	_, err := assembler.Assemble(context.Background(), fragments, &out)
	require.NoError(t, err)
	require.True(t, renderer.called)

	v, ok := tree.GetPath(renderer.scrubbed, "pkgs.man_db")
	require.True(t, ok)
	require.Equal(t, "${pkgs.man_db}", v.AsString())
}

func TestAssemble_CompositionFailurePreventsRendering(t *testing.T) {
	reg := docRegistry(t)
	renderer := &recordingRenderer{}
	assembler := New(reg, renderer)

	fragments := []*config.Fragment{{
		Name: "strict",
		Assertions: []*config.Assertion{
			{Condition: failingCondition(t), Message: "always violated"},
		},
	}}

	var out bytes.Buffer
	_, err := assembler.Assemble(context.Background(), fragments, &out)

	var compErr *compose.CompositionError
	require.ErrorAs(t, err, &compErr)
	require.False(t, renderer.called)
	require.Zero(t, out.Len())
}

func TestAssemble_NilRendererOnlyDerivesDirectives(t *testing.T) {
	reg := docRegistry(t)
	assembler := New(reg, nil)

	result, err := assembler.Assemble(context.Background(), nil, nil)
	require.NoError(t, err)
	require.True(t, result.Directives.BuildDocs)
	require.NotNil(t, result.Scrubbed)
}
