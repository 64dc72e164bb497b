package render

import (
	"bytes"
	"fmt"

	"github.com/populationgenomics/pedviz/pkg/pedigree"
	"github.com/populationgenomics/pedviz/pkg/render/styles"
	"github.com/populationgenomics/pedviz/pkg/tangle"
)

// DefaultGlyphSize is the default symbol half-width in SVG units.
const DefaultGlyphSize = 10.0

// unplacedGutter is the extra canvas width reserved when unplaced
// individuals are drawn alongside the tree.
const unplacedGutter = 110.0

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style        styles.Style
	glyphSize    float64
	labels       bool
	legend       bool
	showUnplaced bool
}

// WithStyle selects the visual style (default styles.Simple).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithLabels draws each individual's ID under their symbol.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithLegend draws the male/female/affected symbol legend.
func WithLegend() SVGOption { return func(r *svgRenderer) { r.legend = true } }

// WithGlyphSize sets the symbol half-width.
func WithGlyphSize(s float64) SVGOption {
	return func(r *svgRenderer) {
		if s > 0 {
			r.glyphSize = s
		}
	}
}

// WithUnplaced draws unplaced individuals in a gutter on the right edge
// instead of omitting them from the image.
func WithUnplaced() SVGOption { return func(r *svgRenderer) { r.showUnplaced = true } }

// RenderSVG renders a computed layout as a standalone SVG document.
func RenderSVG(res *tangle.Result, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}, glyphSize: DefaultGlyphSize}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := res.Width, res.Height
	if r.showUnplaced && len(res.Unplaced) > 0 {
		width += unplacedGutter
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	r.style.RenderDefs(&buf)

	// Connectors go under the symbols.
	for _, b := range res.Bundles {
		for _, l := range b.Links {
			r.style.RenderPath(&buf, styles.Path{
				Source: l.Source, Target: l.Target,
				XS: l.XS, YS: l.YS,
				X2: l.X2, Y2: l.Y2,
				XB: l.XB, YB: l.YB,
				X1: l.X1, Y1: l.Y1,
				XT: l.XT, YT: l.YT,
			})
		}
	}

	for _, g := range r.glyphs(res) {
		r.style.RenderGlyph(&buf, g)
		if r.labels {
			r.style.RenderLabel(&buf, g)
		}
	}

	if r.legend {
		r.style.RenderLegend(&buf, 14, 18)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) glyphs(res *tangle.Result) []styles.Glyph {
	glyphs := make([]styles.Glyph, 0, len(res.Nodes)+len(res.Unplaced))
	for _, n := range res.Nodes {
		glyphs = append(glyphs, styles.Glyph{
			ID:      n.ID,
			Label:   n.ID,
			X:       n.X,
			Y:       n.Y,
			Size:    r.glyphSize,
			Square:  n.Sex == pedigree.SexMale,
			Filled:  n.Affected == pedigree.StatusAffected,
			Founder: n.Level == 0,
		})
	}
	if r.showUnplaced {
		for i, u := range res.Unplaced {
			glyphs = append(glyphs, styles.Glyph{
				ID:       u.ID,
				Label:    u.ID,
				X:        res.Width + unplacedGutter/2,
				Y:        40 + float64(i)*40,
				Size:     r.glyphSize,
				Square:   u.Sex == pedigree.SexMale,
				Filled:   u.Affected == pedigree.StatusAffected,
				Unplaced: true,
			})
		}
	}
	return glyphs
}
