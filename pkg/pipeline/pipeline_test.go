package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/populationgenomics/pedviz/pkg/cache"
	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/tangle"
)

const twoFamilyPED = `# test cohort
FAM01 A 0 0 1 1
FAM01 B 0 0 2 1
FAM01 C A B 1 2
FAM02 X 0 0 1 1
FAM02 Y 0 0 2 1
FAM02 Z X Y 2 2
`

func writePED(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cohort.ped")
	if err := os.WriteFile(path, []byte(twoFamilyPED), 0o644); err != nil {
		t.Fatalf("write ped: %v", err)
	}
	return path
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{
			name:    "missing input",
			opts:    Options{},
			wantErr: "input path or inline data",
		},
		{
			name:    "bad input format",
			opts:    Options{Input: "x.ped", Format: "vcf"},
			wantErr: "invalid input format",
		},
		{
			name:    "bad output format",
			opts:    Options{Input: "x.ped", Formats: []string{"bmp"}},
			wantErr: "invalid format",
		},
		{
			name:    "bad style",
			opts:    Options{Input: "x.ped", Style: "neon"},
			wantErr: "invalid style",
		},
		{
			name: "valid defaults",
			opts: Options{Input: "x.ped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.opts.Format != InputPED {
					t.Errorf("format = %q, want ped", tt.opts.Format)
				}
				if len(tt.opts.Formats) != 1 || tt.opts.Formats[0] != FormatSVG {
					t.Errorf("formats = %v, want [svg]", tt.opts.Formats)
				}
				if tt.opts.Style != DefaultStyle {
					t.Errorf("style = %q, want %q", tt.opts.Style, DefaultStyle)
				}
				if tt.opts.NodeSpacing != tangle.DefaultNodeSpacing {
					t.Errorf("node spacing = %v, want default", tt.opts.NodeSpacing)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestInferFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"cohort.ped", InputPED},
		{"cohort.fam", InputPED},
		{"cohort.JSON", InputJSON},
		{"cohort.json", InputJSON},
		{"", InputPED},
	}
	for _, tt := range tests {
		if got := inferFormat(tt.path); got != tt.want {
			t.Errorf("inferFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	res, err := r.Execute(ctx, Options{
		Input:   writePED(t),
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
		Labels:  true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.RunID == "" {
		t.Error("missing run ID")
	}
	if res.Pedigree.FamilyID != "FAM01" {
		t.Errorf("selected family %q, want first family FAM01", res.Pedigree.FamilyID)
	}
	if res.PedigreeHash == "" {
		t.Error("missing pedigree hash")
	}
	if res.Stats.Individuals != 3 || res.Stats.Levels != 2 {
		t.Errorf("stats = %+v, want 3 individuals on 2 levels", res.Stats)
	}

	for _, format := range []string{FormatSVG, FormatJSON, FormatDOT} {
		if len(res.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact is not an SVG document")
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact is not a digraph")
	}

	if res.CacheInfo.ParseHit || res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("cold run reported cache hits: %+v", res.CacheInfo)
	}
}

func TestRunnerExecuteCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{Input: writePED(t), Formats: []string{FormatSVG, FormatJSON}}

	cold, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("cold Execute: %v", err)
	}
	if cold.CacheInfo.ParseHit || cold.CacheInfo.LayoutHit || cold.CacheInfo.RenderHit {
		t.Errorf("cold run reported cache hits: %+v", cold.CacheInfo)
	}

	warm, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("warm Execute: %v", err)
	}
	if !warm.CacheInfo.ParseHit || !warm.CacheInfo.LayoutHit || !warm.CacheInfo.RenderHit {
		t.Errorf("warm run missed cache: %+v", warm.CacheInfo)
	}
	if string(warm.Artifacts[FormatSVG]) != string(cold.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs from freshly rendered SVG")
	}

	// Refresh bypasses the parse cache
	refreshOpts := opts
	refreshOpts.Refresh = true
	fresh, err := r.Execute(ctx, refreshOpts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if fresh.CacheInfo.ParseHit {
		t.Error("refresh run should not hit the parse cache")
	}
}

func TestRunnerCacheKeyCoversUnplacedGutter(t *testing.T) {
	// U points at parents outside the family, so the layout reports it as
	// unplaced and the gutter render differs from the plain one. The two
	// variants must not share an artifact cache entry.
	ped := twoFamilyPED + "FAM01 U V W 1 1\n"
	path := filepath.Join(t.TempDir(), "cohort.ped")
	if err := os.WriteFile(path, []byte(ped), 0o644); err != nil {
		t.Fatalf("write ped: %v", err)
	}

	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	plain, err := r.Execute(ctx, Options{Input: path, Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("plain Execute: %v", err)
	}
	gutter, err := r.Execute(ctx, Options{Input: path, Formats: []string{FormatSVG}, ShowUnplaced: true})
	if err != nil {
		t.Fatalf("gutter Execute: %v", err)
	}

	if gutter.CacheInfo.RenderHit {
		t.Error("gutter render was served from the plain render's cache entry")
	}
	if string(plain.Artifacts[FormatSVG]) == string(gutter.Artifacts[FormatSVG]) {
		t.Error("gutter SVG is identical to the plain SVG")
	}
	if !strings.Contains(string(gutter.Artifacts[FormatSVG]), `id="ind-U"`) {
		t.Error("gutter SVG does not draw the unplaced individual")
	}
	if strings.Contains(string(plain.Artifacts[FormatSVG]), `id="ind-U"`) {
		t.Error("plain SVG draws the unplaced individual")
	}
}

func TestRunnerFamilySelection(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	path := writePED(t)

	p, err := r.Parse(ctx, Options{Input: path, FamilyID: "FAM02"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.FamilyID != "FAM02" || p.Len() != 3 {
		t.Errorf("got family %q with %d members, want FAM02 with 3", p.FamilyID, p.Len())
	}

	_, err = r.Parse(ctx, Options{Input: path, FamilyID: "FAM99"})
	if !errors.Is(err, errors.ErrCodeFamilyNotFound) {
		t.Errorf("got %v, want FAMILY_NOT_FOUND", err)
	}
}

func TestRunnerMissingInput(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	_, err := r.Parse(ctx, Options{Input: filepath.Join(t.TempDir(), "nope.ped")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunnerUnstableLayout(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(ctx, Options{Input: writePED(t), MaxIterations: 1})
	if !errors.Is(err, errors.ErrCodeLayoutUnstable) {
		t.Errorf("got %v, want LAYOUT_UNSTABLE", err)
	}
}
