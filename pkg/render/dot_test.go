package render

import (
	"context"
	"strings"
	"testing"

	"github.com/populationgenomics/pedviz/pkg/pedigree"
)

func TestToDOT(t *testing.T) {
	p, err := pedigree.New([]pedigree.Entry{
		{FamilyID: "FAM01", IndividualID: "A", Sex: 1},
		{FamilyID: "FAM01", IndividualID: "B", Sex: 2},
		{FamilyID: "FAM01", IndividualID: "C", PaternalID: "A", MaternalID: "B", Sex: 2, Affected: 1},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dot := ToDOT(p, DOTOptions{})

	if !strings.HasPrefix(dot, "digraph pedigree {") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("malformed digraph:\n%s", dot)
	}
	for _, want := range []string{
		`"A" [label="A", shape=box`,
		`"B" [label="B", shape=ellipse`,
		`"A" -> "C";`,
		`"B" -> "C";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
	if !strings.Contains(dot, `fillcolor=grey75`) {
		t.Error("affected C should be shaded")
	}
}

func TestToDOTDetailed(t *testing.T) {
	p, err := pedigree.New([]pedigree.Entry{
		{FamilyID: "FAM01", IndividualID: "A", Sex: 1, Affected: 1},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dot := ToDOT(p, DOTOptions{Detailed: true})
	if !strings.Contains(dot, "sex: male") || !strings.Contains(dot, "affected: true") {
		t.Errorf("detailed label missing attributes:\n%s", dot)
	}
}

func TestGraphvizSVG(t *testing.T) {
	p, err := pedigree.New([]pedigree.Entry{
		{FamilyID: "FAM01", IndividualID: "A", Sex: 1},
		{FamilyID: "FAM01", IndividualID: "B", Sex: 2},
		{FamilyID: "FAM01", IndividualID: "C", PaternalID: "A", MaternalID: "B", Sex: 2},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	svg, err := GraphvizSVG(context.Background(), ToDOT(p, DOTOptions{}))
	if err != nil {
		t.Fatalf("GraphvizSVG: %v", err)
	}

	out := string(svg)
	if !strings.Contains(out, "<svg") {
		t.Fatalf("not an SVG document:\n%s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 `) {
		t.Error("viewBox not normalized to zero origin")
	}
	for _, id := range []string{"A", "B", "C"} {
		if !strings.Contains(out, ">"+id+"<") {
			t.Errorf("missing node label %s", id)
		}
	}
}

func TestGraphvizSVGBadDOT(t *testing.T) {
	if _, err := GraphvizSVG(context.Background(), "digraph {"); err == nil {
		t.Fatal("truncated DOT should not render")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}
}
