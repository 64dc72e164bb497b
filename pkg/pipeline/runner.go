package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/populationgenomics/pedviz/pkg/cache"
	"github.com/populationgenomics/pedviz/pkg/observability"
	"github.com/populationgenomics/pedviz/pkg/pedigree"
	"github.com/populationgenomics/pedviz/pkg/tangle"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	p, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Pedigree = p
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Individuals = p.Len()
	result.CacheInfo.ParseHit = parseHit

	// Content hash for cache keys and preview server responses
	if data, err := pedigree.MarshalEntries(p.Entries()); err == nil {
		result.PedigreeHash = cache.Hash(data)
	}

	r.Logger.Info("parsed pedigree",
		"family", p.FamilyID,
		"individuals", p.Len(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Bundles = len(layout.Bundles)
	result.Stats.Levels = len(layout.Levels)
	result.Stats.Unplaced = len(layout.Unplaced)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"levels", len(layout.Levels),
		"bundles", len(layout.Bundles),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, p, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses the selected family with caching and returns
// cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*pedigree.Pedigree, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	source, err := LoadSource(opts)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.PedigreeKey(cache.Hash(source), opts.FamilyID)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if entries, err := pedigree.ReadJSON(bytes.NewReader(data)); err == nil {
				if p, err := pedigree.New(entries); err == nil {
					observability.Cache().OnCacheHit(ctx, "pedigree")
					return p, true, nil
				}
			}
		}
		observability.Cache().OnCacheMiss(ctx, "pedigree")
	}

	// Reuse the already-read source so the file is not read twice.
	parseOpts := opts
	parseOpts.Data = source
	p, err := Parse(ctx, parseOpts)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		if data, err := pedigree.MarshalEntries(p.Entries()); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPedigree)
			observability.Cache().OnCacheSet(ctx, "pedigree", len(data))
		}
	}

	return p, false, nil
}

// Parse is a convenience wrapper that discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*pedigree.Pedigree, error) {
	p, _, err := r.ParseWithCacheInfo(ctx, opts)
	return p, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, p *pedigree.Pedigree, opts Options) (*tangle.Result, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	entriesData, err := pedigree.MarshalEntries(p.Entries())
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(entriesData), opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := tangle.UnmarshalResult(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// Deserialization failure falls through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	layout, err := ComputeLayout(ctx, p, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := tangle.MarshalResult(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return layout, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, p *pedigree.Pedigree, opts Options) (*tangle.Result, error) {
	layout, _, err := r.ComputeLayoutWithCacheInfo(ctx, p, opts)
	return layout, err
}

// RenderWithCacheInfo renders artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout *tangle.Result, p *pedigree.Pedigree, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := tangle.MarshalResult(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to serve every format from cache
	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := RenderFromLayout(ctx, layout, p, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout *tangle.Result, p *pedigree.Pedigree, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, p, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
