// Package render provides the built-in markdown renderer for the scrubbed
// settings tree and the declared option schema. Artifact placeholders are
// printed verbatim; the renderer never attempts to dereference them.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/tree"
)

// Markdown renders an options reference followed by the resolved settings.
type Markdown struct {
	// Title heads the generated document. Empty falls back to a generic
	// heading.
	Title string
}

// Render implements the assemble.Renderer contract.
func (m *Markdown) Render(ctx context.Context, scrubbed *tree.Map, specs []*config.OptionSpec, w io.Writer) error {
	var sb strings.Builder

	title := m.Title
	if title == "" {
		title = "Configuration Reference"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	if len(specs) > 0 {
		sb.WriteString("## Options\n\n")
		for _, spec := range specs {
			sb.WriteString(fmt.Sprintf("### `%s`\n\n", spec.Path))
			if spec.Description != "" {
				sb.WriteString(spec.Description + "\n\n")
			}
			sb.WriteString(fmt.Sprintf("**Type:** %s\n\n", spec.Type.FriendlyName()))
			sb.WriteString(fmt.Sprintf("**Default:** `%s`\n\n", formatValue(spec.Default)))
		}
	}

	sb.WriteString("## Resolved Settings\n\n")
	writeTree(&sb, scrubbed, 0)
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeTree renders a map node as a nested bullet list, in key order.
func writeTree(sb *strings.Builder, m *tree.Map, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, key := range m.Keys() {
		child, _ := m.Get(key)
		switch v := child.(type) {
		case *tree.Map:
			sb.WriteString(fmt.Sprintf("%s- **%s**\n", indent, key))
			writeTree(sb, v, depth+1)
		case *tree.Scalar:
			sb.WriteString(fmt.Sprintf("%s- **%s** = `%s`\n", indent, key, formatValue(v.Value)))
		case *tree.Artifact:
			// Scrubbing upstream guarantees this branch is unreachable; if an
			// artifact does slip through, show its placeholder form rather
			// than failing the whole document.
			sb.WriteString(fmt.Sprintf("%s- **%s** = `${%s}`\n", indent, key, v.Name))
		}
	}
}

// formatValue renders a scalar cty value in HCL-ish notation.
func formatValue(v cty.Value) string {
	if v == cty.NilVal {
		return "null"
	}
	v, _ = v.Unmark()
	if v.IsNull() {
		return "null"
	}
	if !v.IsKnown() {
		return "(unknown)"
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return fmt.Sprintf("%q", v.AsString())
	case ty.Equals(cty.Bool):
		if v.True() {
			return "true"
		}
		return "false"
	case ty.Equals(cty.Number):
		return v.AsBigFloat().Text('g', -1)
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		elements := v.AsValueSlice()
		parts := make([]string, len(elements))
		for i, element := range elements {
			parts[i] = formatValue(element)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.GoString()
	}
}
