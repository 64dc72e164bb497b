// Package cache provides pluggable byte caches and key derivation for the
// pedigree pipeline.
//
// Three backends are included: [FileCache] for CLI usage, [RedisCache] for
// the preview server, and [NullCache] to disable caching. Keys are derived
// by a [Keyer] so that every pipeline stage (parse, layout, render) caches
// under a stable content-addressed key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with optional per-entry TTL.
// A miss is reported via the bool, not an error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts captures the layout parameters that affect cache identity.
type LayoutKeyOpts struct {
	NodeSpacing  float64
	LevelSpacing float64
	MarginX      float64
	MarginY      float64
}

// ArtifactKeyOpts captures the render parameters that affect cache identity.
type ArtifactKeyOpts struct {
	Format       string // svg | png | pdf | dot
	Style        string
	Labels       bool
	Legend       bool
	ShowUnplaced bool
	Scale        float64
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// PedigreeKey identifies parsed pedigree data by the source content
	// hash and the family selected from it.
	PedigreeKey(sourceHash, familyID string) string
	// LayoutKey identifies a computed layout.
	LayoutKey(pedigreeHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard content-addressed key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) PedigreeKey(sourceHash, familyID string) string {
	return hashKey("pedigree", sourceHash, familyID)
}

func (k *DefaultKeyer) LayoutKey(pedigreeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", pedigreeHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
