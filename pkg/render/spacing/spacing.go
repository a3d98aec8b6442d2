// Package spacing visualizes the formatter's tick-context chain as a
// Graphviz graph: one node per context carrying its x position, width,
// and freedom of movement, with the inter-context gaps on the edges.
// It exists to debug justification and tuning results.
package spacing

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/stavekit/stavekit/pkg/format"
	"github.com/stavekit/stavekit/pkg/score"
)

// Options configures the DOT conversion.
type Options struct {
	// Detailed adds freedom metrics and member counts to node labels.
	Detailed bool
}

// ToDOT converts formatted tick contexts and their gaps to Graphviz DOT.
// Render the result with [RenderSVG] or [RenderPNG], or feed it to any
// dot-compatible tool.
func ToDOT(contexts []*score.TickContext, gaps []format.Gap, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph spacing {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for i, ctx := range contexts {
		fmt.Fprintf(&buf, "  c%d [label=%q];\n", i, nodeLabel(i, ctx, opts.Detailed))
	}

	buf.WriteString("\n")
	for i := 1; i < len(contexts); i++ {
		label := ""
		if i-1 < len(gaps) {
			g := gaps[i-1]
			label = fmt.Sprintf("gap %.1f", g.X2-g.X1)
		}
		fmt.Fprintf(&buf, "  c%d -> c%d [label=%q];\n", i-1, i, label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(i int, ctx *score.TickContext, detailed bool) string {
	label := fmt.Sprintf("t=%d\nx=%.1f w=%.1f", ctx.TickID(), ctx.X(), ctx.Width())
	if !detailed {
		return label
	}
	fm := ctx.FormatterMetrics()
	return label + fmt.Sprintf("\nfree %.1f|%.1f\nmembers %d",
		fm.Freedom.Left, fm.Freedom.Right, len(ctx.Tickables()))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, f graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer func() { _ = g.Close() }()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, f, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
