// This file contains the generic decoding of a fragment's `set` body into a
// partial configuration tree. Attributes become leaves (artifact leaves when
// their expression yields an artifact-marked value) and nested blocks become
// nested map nodes, preserving source order.

package hcl_adapter

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/docfold/docfold/internal/tree"
)

// bodyEntry is one named child of a set body, tagged with its source
// position so attributes and blocks can be interleaved in source order.
type bodyEntry struct {
	name string
	pos  hcl.Pos
	node tree.Node
}

// decodeBody converts an HCL body into a map node. Expressions are
// evaluated against the provided context, so payload values may read base
// settings and call artifact().
func decodeBody(body hcl.Body, evalCtx *hcl.EvalContext) (*tree.Map, error) {
	syntaxBody, ok := body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("set body is not native HCL syntax (%T)", body)
	}

	entries := make([]bodyEntry, 0, len(syntaxBody.Attributes)+len(syntaxBody.Blocks))

	for name, attr := range syntaxBody.Attributes {
		value, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate '%s': %w", name, diags)
		}
		node, err := tree.FromCty(value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode '%s': %w", name, err)
		}
		entries = append(entries, bodyEntry{name: name, pos: attr.SrcRange.Start, node: node})
	}

	for _, block := range syntaxBody.Blocks {
		if len(block.Labels) > 0 {
			return nil, fmt.Errorf("block '%s' must not carry labels inside a set body", block.Type)
		}
		nested, err := decodeBody(block.Body, evalCtx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, bodyEntry{name: block.Type, pos: block.TypeRange.Start, node: nested})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pos.Line != entries[j].pos.Line {
			return entries[i].pos.Line < entries[j].pos.Line
		}
		return entries[i].pos.Column < entries[j].pos.Column
	})

	m := tree.NewMap()
	for _, entry := range entries {
		if _, exists := m.Get(entry.name); exists {
			return nil, fmt.Errorf("duplicate key '%s' in set body", entry.name)
		}
		m.Set(entry.name, entry.node)
	}
	return m, nil
}
