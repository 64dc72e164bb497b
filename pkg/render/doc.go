// Package render turns computed pedigree layouts into visual outputs.
//
// # Overview
//
// The package provides:
//
//   - SVG rendering of tangled-tree layouts ([RenderSVG])
//   - Generic format conversion (SVG to PDF/PNG via [ToPDF] and [ToPNG])
//   - Graphviz node-link diagrams ([ToDOT], [GraphvizSVG])
//   - Pluggable visual styles (in [styles] subpackage)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := render.RenderSVG(layout, render.WithLabels())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// [ToDOT] emits a plain directed-graph view of the parent edges for
// debugging and for consumers that want Graphviz to do the layout:
//
//	dot := render.ToDOT(ped)
//	svg, err := render.GraphvizSVG(ctx, dot)
//
// [styles]: github.com/populationgenomics/pedviz/pkg/render/styles
package render
