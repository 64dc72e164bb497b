package render

import (
	"strings"
	"testing"

	"github.com/populationgenomics/pedviz/pkg/pedigree"
	"github.com/populationgenomics/pedviz/pkg/render/styles"
	"github.com/populationgenomics/pedviz/pkg/tangle"
)

func trioLayout(t *testing.T) *tangle.Result {
	t.Helper()
	res, err := tangle.Layout([]pedigree.Entry{
		{FamilyID: "FAM01", IndividualID: "A", Sex: 1},
		{FamilyID: "FAM01", IndividualID: "B", Sex: 2},
		{FamilyID: "FAM01", IndividualID: "C", PaternalID: "A", MaternalID: "B", Sex: 2, Affected: 1},
	})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return res
}

func TestRenderSVGShapes(t *testing.T) {
	svg := string(RenderSVG(trioLayout(t)))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("missing svg root element: %.80s", svg)
	}
	if !strings.Contains(svg, `<rect id="ind-A"`) {
		t.Error("male A should be drawn as a rect")
	}
	if !strings.Contains(svg, `<circle id="ind-B"`) {
		t.Error("female B should be drawn as a circle")
	}
	if !strings.Contains(svg, `<circle id="ind-C"`) {
		t.Error("female C should be drawn as a circle")
	}

	// Affected C is filled, unaffected B is not.
	for _, line := range strings.Split(svg, "\n") {
		if strings.Contains(line, `id="ind-C"`) && !strings.Contains(line, `fill="#1a1a1a"`) {
			t.Errorf("affected C not filled: %s", line)
		}
		if strings.Contains(line, `id="ind-B"`) && !strings.Contains(line, `fill="#ffffff"`) {
			t.Errorf("unaffected B should have white fill: %s", line)
		}
	}

	// One stepped connector per (child, parent) pair.
	if n := strings.Count(svg, `class="connector"`); n != 2 {
		t.Errorf("got %d connectors, want 2", n)
	}
}

func TestRenderSVGLabelsAndLegend(t *testing.T) {
	res := trioLayout(t)

	plain := string(RenderSVG(res))
	if strings.Contains(plain, `class="label"`) {
		t.Error("labels drawn without WithLabels")
	}

	decorated := string(RenderSVG(res, WithLabels(), WithLegend()))
	for _, id := range []string{">A<", ">B<", ">C<"} {
		if !strings.Contains(decorated, id) {
			t.Errorf("missing label %s", id)
		}
	}
	for _, want := range []string{">male<", ">female<", ">affected<"} {
		if !strings.Contains(decorated, want) {
			t.Errorf("missing legend entry %s", want)
		}
	}
}

func TestRenderSVGUnplacedGutter(t *testing.T) {
	entries := []pedigree.Entry{
		{FamilyID: "FAM01", IndividualID: "A", Sex: 1},
		{FamilyID: "FAM01", IndividualID: "B", Sex: 2},
		{FamilyID: "FAM01", IndividualID: "C", PaternalID: "A", MaternalID: "B", Sex: 1},
		{FamilyID: "FAM01", IndividualID: "X", PaternalID: "U1", MaternalID: "U2", Sex: 1, Affected: 1},
	}
	res, err := tangle.Layout(entries)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	hidden := string(RenderSVG(res))
	if strings.Contains(hidden, `id="ind-X"`) {
		t.Error("unplaced X drawn without WithUnplaced")
	}

	shown := string(RenderSVG(res, WithUnplaced()))
	if !strings.Contains(shown, `id="ind-X"`) {
		t.Error("WithUnplaced should draw X in the gutter")
	}
	if !strings.Contains(shown, `opacity="0.45"`) {
		t.Error("gutter glyphs should be dimmed")
	}

	// X is an affected male, so the gutter glyph keeps the filled square
	// instead of degrading to a generic circle.
	if !strings.Contains(shown, `<rect id="ind-X" class="glyph"`) {
		t.Error("gutter glyph for male X should be a square")
	}
	if !strings.Contains(shown, `fill="#1a1a1a"`) {
		t.Error("gutter glyph for affected X should be filled")
	}
}

func TestRenderSVGMonoStyle(t *testing.T) {
	svg := string(RenderSVG(trioLayout(t), WithStyle(styles.Mono{})))

	if !strings.Contains(svg, `<pattern id="hatch"`) {
		t.Error("mono style should emit the hatch pattern defs")
	}
	if !strings.Contains(svg, `fill="url(#hatch)"`) {
		t.Error("affected individual should be hatched in mono style")
	}
}

func TestStyleByName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"", true},
		{"simple", true},
		{"mono", true},
		{"neon", false},
	}
	for _, tt := range tests {
		if _, ok := styles.ByName(tt.name); ok != tt.ok {
			t.Errorf("ByName(%q) ok = %t, want %t", tt.name, ok, tt.ok)
		}
	}
}
