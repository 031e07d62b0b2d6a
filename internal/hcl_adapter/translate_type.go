// This file contains the logic for parsing HCL type expressions (e.g.
// `string`, `list(string)`) into their corresponding cty.Type objects.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/docfold/docfold/internal/ctxlog"
)

// typeExprToCtyType converts an HCL type expression into its cty.Type
// equivalent. Supported forms are the primitive keywords `string`, `number`,
// `bool` and `any`, plus the single-argument constructors `list(...)`,
// `set(...)` and `map(...)`.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Type expression is nil, defaulting to any.")
		return cty.DynamicPseudoType, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		return keywordToCtyType(v.Traversal.RootName())

	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a type constructor.", "call", v.Name)
		if len(v.Args) != 1 {
			return cty.NilType, fmt.Errorf("the %s() type constructor requires exactly one argument, got %d", v.Name, len(v.Args))
		}
		element, err := typeExprToCtyType(ctx, v.Args[0])
		if err != nil {
			return cty.NilType, err
		}
		switch v.Name {
		case "list":
			return cty.List(element), nil
		case "set":
			return cty.Set(element), nil
		case "map":
			return cty.Map(element), nil
		default:
			return cty.NilType, fmt.Errorf("unsupported type constructor '%s'; supported constructors are list, set and map", v.Name)
		}

	default:
		return cty.NilType, fmt.Errorf("invalid type specification: the 'type' attribute must be a type keyword like 'string' or a constructor like 'list(string)', not %T", expr)
	}
}

// keywordToCtyType maps a primitive type keyword to its cty type.
func keywordToCtyType(keyword string) (cty.Type, error) {
	switch keyword {
	case "string":
		return cty.String, nil
	case "number":
		return cty.Number, nil
	case "bool":
		return cty.Bool, nil
	case "any":
		return cty.DynamicPseudoType, nil
	default:
		return cty.NilType, fmt.Errorf("unsupported type keyword '%s'; supported keywords are string, number, bool and any", keyword)
	}
}
