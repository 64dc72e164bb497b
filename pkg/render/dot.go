package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/populationgenomics/pedviz/pkg/pedigree"
)

// DOTOptions configures node-link diagram generation.
type DOTOptions struct {
	// Detailed includes sex and affected status in node labels.
	// When false, only the individual ID is shown.
	Detailed bool
}

// ToDOT converts a pedigree to Graphviz DOT format as a plain node-link
// diagram: one box per individual, one arrow per parent edge. Useful for
// debugging layouts and for consumers that want Graphviz to do its own
// layout instead of the tangled tree.
func ToDOT(p *pedigree.Pedigree, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pedigree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, e := range p.Entries() {
		fmt.Fprintf(&buf, "  %q [%s];\n", e.IndividualID, nodeAttrs(e, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range p.Entries() {
		for _, parent := range e.ParentIDs() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", parent, e.IndividualID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(e pedigree.Entry, detailed bool) string {
	label := e.IndividualID
	if detailed {
		label = fmt.Sprintf("%s\nsex: %s\naffected: %t",
			e.IndividualID, pedigree.SexFromCode(e.Sex), pedigree.StatusFromCode(e.Affected).Filled())
	}

	shape := "ellipse"
	if pedigree.SexFromCode(e.Sex) == pedigree.SexMale {
		shape = "box"
	}
	style := "filled"
	fill := "white"
	if pedigree.StatusFromCode(e.Affected) == pedigree.StatusAffected {
		fill = "grey75"
	}
	return fmt.Sprintf("label=%q, shape=%s, style=%q, fillcolor=%s", label, shape, style, fill)
}

// GraphvizSVG renders a DOT graph to SVG using Graphviz.
// The result is ready for display or further conversion with [ToPDF] or [ToPNG].
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
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

// GraphvizPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func GraphvizPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := GraphvizSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, scale)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's point-based svg element into a
// zero-origin viewBox so downstream converters agree on dimensions.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
