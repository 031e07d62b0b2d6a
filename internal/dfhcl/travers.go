// Package dfhcl holds small shared helpers for working with HCL constructs.
package dfhcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey generates a stable, canonical string representation for an
// hcl.Traversal, suitable for use as a map key or in log output.
func TraversalKey(t hcl.Traversal) string {
	// e.g., man.enable
	return string(hclwrite.TokensForTraversal(t).Bytes())
}
