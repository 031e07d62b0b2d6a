package hcl_adapter_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/docfold/docfold/internal/testutil"
	"github.com/docfold/docfold/internal/tree"
)

func TestLoader_TranslatesOptionDeclarations(t *testing.T) {
	model, err := testutil.LoadModel(t, map[string]string{
		"options.hcl": `
			option "man.enable" {
				type        = bool
				default     = true
				description = "Install man pages."
			}

			option "extra_packages" {
				type    = list(string)
				default = []
			}
		`,
	})
	require.NoError(t, err)
	require.Len(t, model.Options, 2)

	manEnable := model.Options[0]
	require.Equal(t, "man.enable", manEnable.Path)
	require.True(t, manEnable.Type.Equals(cty.Bool))
	require.True(t, manEnable.Default.True())
	require.Equal(t, "Install man pages.", manEnable.Description)

	extra := model.Options[1]
	require.True(t, extra.Type.IsListType())
}

func TestLoader_DecodesFragmentPayload(t *testing.T) {
	model, err := testutil.LoadModel(t, map[string]string{
		"main.hcl": `
			option "man.enable" {
				type    = bool
				default = true
			}

			fragment "man-pages" {
				when = man.enable

				set {
					man {
						generate_caches = true
					}
					extra_packages = ["man-db"]
				}

				assert {
					condition = man.enable
					message   = "man pages must stay enabled"
				}
			}
		`,
	})
	require.NoError(t, err)
	require.Len(t, model.Fragments, 1)

	fragment := model.Fragments[0]
	require.Equal(t, "man-pages", fragment.Name)
	require.NotNil(t, fragment.When)
	require.Len(t, fragment.Assertions, 1)
	require.Equal(t, "man pages must stay enabled", fragment.Assertions[0].Message)

	v, ok := tree.GetPath(fragment.Payload, "man.generate_caches")
	require.True(t, ok)
	require.True(t, v.True())

	v, ok = tree.GetPath(fragment.Payload, "extra_packages")
	require.True(t, ok)
	require.Equal(t, "man-db", v.AsValueSlice()[0].AsString())
}

func TestLoader_PayloadArtifactFunction(t *testing.T) {
	model, err := testutil.LoadModel(t, map[string]string{
		"main.hcl": `
			fragment "packages" {
				set {
					pkgs {
						man_db = artifact("pkgs.man_db")
					}
				}
			}
		`,
	})
	require.NoError(t, err)
	require.Len(t, model.Fragments, 1)

	pkgs, ok := model.Fragments[0].Payload.Get("pkgs")
	require.True(t, ok)
	child, ok := pkgs.(*tree.Map).Get("man_db")
	require.True(t, ok)

	artifact, ok := child.(*tree.Artifact)
	require.True(t, ok)
	require.Equal(t, "pkgs.man_db", artifact.Name)
}

func TestLoader_PayloadReadsBaseDefaults(t *testing.T) {
	model, err := testutil.LoadModel(t, map[string]string{
		"main.hcl": `
			option "man.pager" {
				type    = string
				default = "less"
			}

			fragment "mirror" {
				set {
					chosen_pager = man.pager
				}
			}
		`,
	})
	require.NoError(t, err)

	v, ok := tree.GetPath(model.Fragments[0].Payload, "chosen_pager")
	require.True(t, ok)
	require.Equal(t, "less", v.AsString())
}

func TestLoader_FragmentWithoutWhenIsUnconditional(t *testing.T) {
	model, err := testutil.LoadModel(t, map[string]string{
		"main.hcl": `
			fragment "always" {
				set {
					enabled = true
				}
			}
		`,
	})
	require.NoError(t, err)
	require.Nil(t, model.Fragments[0].When)
}

func TestLoader_CollectsAcrossFiles(t *testing.T) {
	model, err := testutil.LoadModel(t, map[string]string{
		"schema/options.hcl": `
			option "doc.enable" {
				type    = bool
				default = true
			}
		`,
		"fragments/man.hcl": `
			fragment "man-pages" {
				when = doc.enable
			}
		`,
	})
	require.NoError(t, err)
	require.Len(t, model.Options, 1)
	require.Len(t, model.Fragments, 1)
}

func TestLoader_RejectsDuplicateFragmentNames(t *testing.T) {
	_, err := testutil.LoadModel(t, map[string]string{
		"main.hcl": `
			fragment "twice" {}
			fragment "twice" {}
		`,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "declared more than once")
}

func TestLoader_RejectsBadTypeKeyword(t *testing.T) {
	_, err := testutil.LoadModel(t, map[string]string{
		"main.hcl": `
			option "broken" {
				type = banana
			}
		`,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported type keyword")
}

func TestLoader_RejectsNonConformingDefault(t *testing.T) {
	_, err := testutil.LoadModel(t, map[string]string{
		"main.hcl": `
			option "man.enable" {
				type    = bool
				default = ["not", "a", "bool"]
			}
		`,
	})
	require.Error(t, err)
}

func TestLoader_RejectsDuplicatePayloadKeys(t *testing.T) {
	_, err := testutil.LoadModel(t, map[string]string{
		"main.hcl": `
			fragment "clash" {
				set {
					man = true
					man {
						enable = true
					}
				}
			}
		`,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate key")
}

func TestLoader_RejectsMalformedHCL(t *testing.T) {
	_, err := testutil.LoadModel(t, map[string]string{
		"main.hcl": `option "unterminated {`,
	})
	require.Error(t, err)
}
