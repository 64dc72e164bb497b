package styles

import (
	"bytes"
	"fmt"
)

// Simple is the default clean-line style: black strokes on white symbols,
// affected individuals filled solid.
type Simple struct{}

const (
	simpleStroke      = "#1a1a1a"
	simpleFill        = "#ffffff"
	simpleAffected    = "#1a1a1a"
	simplePathStroke  = "#555555"
	simpleStrokeWidth = 1.5
)

func (Simple) RenderDefs(*bytes.Buffer) {}

func (Simple) RenderGlyph(buf *bytes.Buffer, g Glyph) {
	fill := simpleFill
	if g.Filled {
		fill = simpleAffected
	}
	opacity := ""
	if g.Unplaced {
		opacity = ` opacity="0.45"`
	}
	if g.Square {
		fmt.Fprintf(buf,
			`  <rect id="ind-%s" class="glyph" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			EscapeXML(g.ID), g.X-g.Size, g.Y-g.Size, g.Size*2, g.Size*2,
			fill, simpleStroke, simpleStrokeWidth, opacity)
		return
	}
	fmt.Fprintf(buf,
		`  <circle id="ind-%s" class="glyph" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		EscapeXML(g.ID), g.X, g.Y, g.Size, fill, simpleStroke, simpleStrokeWidth, opacity)
}

func (Simple) RenderPath(buf *bytes.Buffer, p Path) {
	fmt.Fprintf(buf,
		`  <path class="connector" d="M %.1f %.1f L %.1f %.1f L %.1f %.1f L %.1f %.1f L %.1f %.1f" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
		p.XS, p.YS, p.X2, p.Y2, p.XB, p.YB, p.X1, p.Y1, p.XT, p.YT, simplePathStroke)
}

func (Simple) RenderLabel(buf *bytes.Buffer, g Glyph) {
	fmt.Fprintf(buf,
		`  <text class="label" x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" font-family="Helvetica, Arial, sans-serif" fill="%s">%s</text>`+"\n",
		g.X, g.Y+g.Size+12, FontSize(g), simpleStroke, EscapeXML(TruncateLabel(g)))
}

func (s Simple) RenderLegend(buf *bytes.Buffer, x, y float64) {
	items := []struct {
		glyph Glyph
		text  string
	}{
		{Glyph{Square: true, Size: 6}, "male"},
		{Glyph{Size: 6}, "female"},
		{Glyph{Size: 6, Filled: true}, "affected"},
	}
	for i, item := range items {
		g := item.glyph
		g.ID = fmt.Sprintf("legend-%d", i)
		g.X = x
		g.Y = y + float64(i)*22
		s.RenderGlyph(buf, g)
		fmt.Fprintf(buf,
			`  <text x="%.1f" y="%.1f" font-size="11" font-family="Helvetica, Arial, sans-serif" fill="%s">%s</text>`+"\n",
			g.X+14, g.Y+4, simpleStroke, item.text)
	}
}
