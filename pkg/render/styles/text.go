package styles

import (
	"bytes"
	"encoding/xml"
)

const (
	fontSizeMin   = 8.0
	fontSizeMax   = 14.0
	fontCharWidth = 0.55
)

// FontSize picks a label size that fits under the glyph without colliding
// with the neighbouring symbol.
func FontSize(g Glyph) float64 {
	n := max(1, len(g.Label))
	bySize := g.Size * 1.2
	byWidth := (g.Size * 3.2) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(bySize, byWidth)))
}

// TruncateLabel shortens labels that would overflow the glyph's slot.
func TruncateLabel(g Glyph) string {
	fontSize := FontSize(g)
	maxChars := int((g.Size * 3.2) / (fontSize * fontCharWidth))
	if maxChars < 3 {
		maxChars = 3
	}
	if len(g.Label) <= maxChars {
		return g.Label
	}
	return g.Label[:maxChars-2] + ".."
}

// EscapeXML escapes a string for embedding in SVG text content.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
