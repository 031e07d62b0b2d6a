package tree

import (
	"errors"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// artifactFunc is the HCL function `artifact(name)`, used in fragment
// payloads to place a build artifact leaf without ever constructing the
// artifact itself. It returns the marked cty representation of the artifact.
var artifactFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		name := args[0].AsString()
		if name == "" {
			return cty.NilVal, errors.New("artifact name must not be empty")
		}
		return MarkArtifact(name), nil
	},
})

// EvalContext builds the HCL evaluation context for expressions that read
// the given settings tree. Each top-level key becomes a variable, so a
// predicate can be written as `man.enable && !dev.enable`. The `artifact`
// function is always available.
func EvalContext(m *Map) *hcl.EvalContext {
	variables := make(map[string]cty.Value, m.Len())
	for _, key := range m.Keys() {
		child, _ := m.Get(key)
		variables[key] = ToCty(child)
	}
	return &hcl.EvalContext{
		Variables: variables,
		Functions: map[string]function.Function{
			"artifact": artifactFunc,
		},
	}
}
