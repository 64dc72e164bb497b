package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The preview server uses this to keep per-project caches separate when
// several cohorts share one Redis instance.
//
// Example usage:
//
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:acute-care:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PedigreeKey generates a prefixed key for parsed pedigree caching.
func (k *ScopedKeyer) PedigreeKey(sourceHash, familyID string) string {
	return k.prefix + k.inner.PedigreeKey(sourceHash, familyID)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(pedigreeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(pedigreeHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
