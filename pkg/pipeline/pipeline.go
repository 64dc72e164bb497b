// Package pipeline provides the core pedigree pipeline for pedviz.
//
// This package implements the complete parse → layout → render pipeline that
// can be used by the CLI and the preview server. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read pedigree entries from PED or JSON input and select a family
//  2. Layout: Compute the tangled-tree layout for the family
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "families.ped",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	ped, err := runner.Parse(ctx, opts)
//
//	// Layout with an existing pedigree
//	layout, err := runner.ComputeLayout(ctx, ped, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, layout, ped, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/populationgenomics/pedviz/pkg/cache"
	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/pedigree"
	"github.com/populationgenomics/pedviz/pkg/render/styles"
	"github.com/populationgenomics/pedviz/pkg/tangle"
)

// Default layout and render parameters, shared by CLI and preview server.
const (
	// DefaultScale is the raster scale factor for PNG output.
	DefaultScale = 2.0

	// DefaultStyle is the default visual style.
	DefaultStyle = "simple"
)

// Input format constants.
const (
	InputPED  = "ped"
	InputJSON = "json"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidInputFormats is the set of supported input formats.
var ValidInputFormats = map[string]bool{
	InputPED:  true,
	InputJSON: true,
}

// Options contains all configuration for the pedigree pipeline.
// This struct supports JSON serialization for preview server requests.
type Options struct {
	// Parse options
	Input    string `json:"input,omitempty"`     // path to a .ped/.fam/.json file
	Data     []byte `json:"data,omitempty"`      // inline source, used instead of Input when set
	Format   string `json:"format,omitempty"`    // ped | json (inferred from Input when empty)
	FamilyID string `json:"family_id,omitempty"` // family to lay out; empty selects the first
	Refresh  bool   `json:"refresh,omitempty"`   // bypass the parse cache

	// Layout options
	NodeSpacing   float64 `json:"node_spacing,omitempty"`
	LevelSpacing  float64 `json:"level_spacing,omitempty"`
	MarginX       float64 `json:"margin_x,omitempty"`
	MarginY       float64 `json:"margin_y,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Style        string   `json:"style,omitempty"`
	Labels       bool     `json:"labels,omitempty"`
	Legend       bool     `json:"legend,omitempty"`
	ShowUnplaced bool     `json:"show_unplaced,omitempty"`
	Scale        float64  `json:"scale,omitempty"` // PNG raster scale

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// Pedigree is the parsed, selected family.
	Pedigree *pedigree.Pedigree

	// PedigreeHash is the content hash of the selected family's entries.
	PedigreeHash string

	// Layout is the computed tangled-tree layout.
	Layout *tangle.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Individuals int
	Bundles     int
	Levels      int
	Unplaced    int
	ParseTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed family came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all output formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style name is valid.
func ValidateStyle(style string) error {
	if _, ok := styles.ByName(style); !ok {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, mono)", style)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Input == "" && len(o.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input path or inline data is required")
	}
	if o.Format == "" {
		o.Format = inferFormat(o.Input)
	}
	if !ValidInputFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q (must be ped or json)", o.Format)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.NodeSpacing == 0 {
		o.NodeSpacing = tangle.DefaultNodeSpacing
	}
	if o.LevelSpacing == 0 {
		o.LevelSpacing = tangle.DefaultLevelSpacing
	}
	if o.MarginX == 0 {
		o.MarginX = tangle.DefaultMargin
	}
	if o.MarginY == 0 {
		o.MarginY = tangle.DefaultMargin
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// LayoutOptions converts the options to tangle layout options.
func (o *Options) LayoutOptions() []tangle.Option {
	opts := []tangle.Option{
		tangle.WithNodeSpacing(o.NodeSpacing),
		tangle.WithLevelSpacing(o.LevelSpacing),
		tangle.WithMargins(o.MarginX, o.MarginY),
	}
	if o.MaxIterations > 0 {
		opts = append(opts, tangle.WithMaxIterations(o.MaxIterations))
	}
	return opts
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		NodeSpacing:  o.NodeSpacing,
		LevelSpacing: o.LevelSpacing,
		MarginX:      o.MarginX,
		MarginY:      o.MarginY,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		Style:        o.Style,
		Labels:       o.Labels,
		Legend:       o.Legend,
		ShowUnplaced: o.ShowUnplaced,
		Scale:        o.Scale,
	}
}

// inferFormat maps a file extension to an input format. PED is the
// fallback: .ped, .fam and .tsv all use the PLINK column layout.
func inferFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return InputJSON
	}
	return InputPED
}
