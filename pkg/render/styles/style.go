package styles

import "bytes"

// Style defines the visual appearance for pedigree rendering.
// Implementations control how individuals, connector paths, and legends
// are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, patterns, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderGlyph writes the SVG for a single individual's symbol.
	RenderGlyph(buf *bytes.Buffer, g Glyph)
	// RenderPath writes the SVG for one child-to-parent connector.
	RenderPath(buf *bytes.Buffer, p Path)
	// RenderLabel writes the SVG for an individual's ID label.
	RenderLabel(buf *bytes.Buffer, g Glyph)
	// RenderLegend writes the symbol legend at the given origin.
	RenderLegend(buf *bytes.Buffer, x, y float64)
}

// Glyph contains all data needed to render a single individual.
type Glyph struct {
	ID       string  // Individual identifier
	Label    string  // Display text (usually the ID)
	X, Y     float64 // Symbol center
	Size     float64 // Symbol half-width
	Square   bool    // Square for male, circle otherwise
	Filled   bool    // Filled when affected
	Founder  bool    // No parents within the family
	Unplaced bool    // Listed but not positioned (drawn in a side gutter)
}

// Path contains the resolved control points of one stepped connector,
// child anchor first, parent anchor last.
type Path struct {
	Source, Target string
	XS, YS         float64 // child anchor
	X2, Y2         float64 // top of the child's riser
	XB, YB         float64 // junction with the bundle trunk
	X1, Y1         float64 // bottom of the parent fan-out
	XT, YT         float64 // parent anchor
}
