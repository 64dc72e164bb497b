package cache

import "time"

// Default TTLs per cached stage. Parsed pedigrees and layouts are pure
// functions of their inputs, so the TTLs mostly bound cache growth rather
// than staleness.
const (
	TTLPedigree = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
