package styles

import (
	"bytes"
	"fmt"
)

// Mono is a print-friendly greyscale style. Affected individuals are
// hatched rather than filled so the distinction survives photocopying.
type Mono struct{}

const (
	monoStroke = "#000000"
	monoFill   = "#ffffff"
)

func (Mono) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <pattern id="hatch" width="5" height="5" patternTransform="rotate(45)" patternUnits="userSpaceOnUse">
      <line x1="0" y1="0" x2="0" y2="5" stroke="#000000" stroke-width="1.5"/>
    </pattern>
  </defs>
`)
}

func (Mono) RenderGlyph(buf *bytes.Buffer, g Glyph) {
	fill := monoFill
	if g.Filled {
		fill = "url(#hatch)"
	}
	dash := ""
	if g.Unplaced {
		dash = ` stroke-dasharray="3,2"`
	}
	if g.Square {
		fmt.Fprintf(buf,
			`  <rect id="ind-%s" class="glyph" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1"%s/>`+"\n",
			EscapeXML(g.ID), g.X-g.Size, g.Y-g.Size, g.Size*2, g.Size*2, fill, monoStroke, dash)
		return
	}
	fmt.Fprintf(buf,
		`  <circle id="ind-%s" class="glyph" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="1"%s/>`+"\n",
		EscapeXML(g.ID), g.X, g.Y, g.Size, fill, monoStroke, dash)
}

func (Mono) RenderPath(buf *bytes.Buffer, p Path) {
	fmt.Fprintf(buf,
		`  <path class="connector" d="M %.1f %.1f L %.1f %.1f L %.1f %.1f L %.1f %.1f L %.1f %.1f" fill="none" stroke="%s" stroke-width="0.8"/>`+"\n",
		p.XS, p.YS, p.X2, p.Y2, p.XB, p.YB, p.X1, p.Y1, p.XT, p.YT, monoStroke)
}

func (Mono) RenderLabel(buf *bytes.Buffer, g Glyph) {
	fmt.Fprintf(buf,
		`  <text class="label" x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" font-family="Courier, monospace" fill="%s">%s</text>`+"\n",
		g.X, g.Y+g.Size+12, FontSize(g), monoStroke, EscapeXML(TruncateLabel(g)))
}

func (m Mono) RenderLegend(buf *bytes.Buffer, x, y float64) {
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
		m.RenderGlyph(buf, g)
		fmt.Fprintf(buf,
			`  <text x="%.1f" y="%.1f" font-size="11" font-family="Courier, monospace" fill="%s">%s</text>`+"\n",
			g.X+14, g.Y+4, monoStroke, item.text)
	}
}

// ByName resolves a style by its CLI name. Unknown names return false.
func ByName(name string) (Style, bool) {
	switch name {
	case "", "simple":
		return Simple{}, true
	case "mono":
		return Mono{}, true
	}
	return nil, false
}
