package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridshift/pkg/solver"
)

// CascadeOptions configures cascade graph rendering.
type CascadeOptions struct {
	// Detailed adds from/to cells to node labels.
	Detailed bool
}

// CascadeDOT converts a solution into a Graphviz graph. The dragged item is
// the root; each moved item hangs off the item whose new footprint displaced
// it, so a cascade reads as a chain of pushes.
func CascadeDOT(sol *solver.Solution, opts CascadeOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph cascade {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")

	root := string(sol.Dragged)
	if root == "" {
		root = "dragged"
	}
	rootLabel := fmt.Sprintf("%s\n%s at %v", root, sol.Strategy, sol.Target)
	if sol.Strategy == solver.StrategyCascade {
		rootLabel = fmt.Sprintf("%s\n%s %s at %v", root, sol.Strategy, sol.Direction, sol.Target)
	}
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#e63946\", fontcolor=white];\n", root, rootLabel)

	for _, m := range sol.Moves {
		label := string(m.ID)
		if opts.Detailed {
			label = fmt.Sprintf("%s\n%v -> %v", m.ID, m.From, m.To)
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", string(m.ID), label)
	}
	buf.WriteString("\n")
	for _, m := range sol.Moves {
		from := root
		if m.Cause != "" {
			from = string(m.Cause)
		}
		dx, dy := m.To.Sub(m.From)
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", from, string(m.ID), fmt.Sprintf("%+d,%+d", dx, dy))
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT lays out a DOT graph as SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's root element so the drawing scales
// from a zero origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// CascadeText lists the pushes of a solution, one per line.
func CascadeText(sol *solver.Solution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", sol)
	for _, m := range sol.Moves {
		cause := string(sol.Dragged)
		if m.Cause != "" {
			cause = string(m.Cause)
		}
		if cause == "" {
			cause = "dragged item"
		}
		fmt.Fprintf(&b, "  %s %v -> %v (pushed by %s)\n", m.ID, m.From, m.To, cause)
	}
	return b.String()
}
