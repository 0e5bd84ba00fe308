// Package treedot exports a parts category tree as a Graphviz diagram.
//
// [ToDOT] is pure and produces stable output for a given tree. [RenderSVG]
// lays the DOT out in-process with [github.com/goccy/go-graphviz]; PDF and
// PNG go through the SVG and the converters in the render package.
package treedot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/partscout/pkg/core/catalog"
	"github.com/matzehuels/partscout/pkg/render"
)

// Options configures DOT export.
type Options struct {
	// Title labels the graph, typically the modification summary.
	Title string

	// MaxDepth limits the exported levels; 0 exports the whole tree.
	MaxDepth int

	// ShowIDs appends quick-group IDs to labels.
	ShowIDs bool
}

// ToDOT converts a category tree to DOT. Searchable leaves are filled;
// dead ends are dashed and grey.
func ToDOT(t *catalog.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	var edges []string
	t.Walk(func(idx int, n catalog.Node) bool {
		if opts.MaxDepth > 0 && n.Depth >= opts.MaxDepth {
			return true
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(idx), strings.Join(fmtAttrs(n, opts), ", "))
		if opts.MaxDepth == 0 || n.Depth+1 < opts.MaxDepth {
			for _, child := range t.Children(idx) {
				edges = append(edges, fmt.Sprintf("  %s -> %s;\n", nodeID(idx), nodeID(child)))
			}
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(idx int) string { return fmt.Sprintf("n%d", idx) }

func fmtAttrs(n catalog.Node, opts Options) []string {
	label := n.Name
	if opts.ShowIDs && n.ID != "" {
		label += "\n#" + n.ID
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Leaf():
		attrs = append(attrs, "fillcolor=\"#d9f2d9\"")
	case n.DeadEnd():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=gray30")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Render renders dot in the named format: "dot", "svg", "pdf" or "png".
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case "", "dot":
		return []byte(dot), nil
	case "svg":
		return RenderSVG(ctx, dot)
	case "pdf", "png":
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		if format == "pdf" {
			return render.ToPDF(ctx, svg)
		}
		return render.ToPNG(ctx, svg, 2)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
