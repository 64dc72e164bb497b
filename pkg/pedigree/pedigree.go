package pedigree

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrDuplicateID is returned by [New] when two entries share an
	// individual ID. Individual IDs must be unique within a family.
	ErrDuplicateID = errors.New("duplicate individual ID")

	// ErrEmptyID is returned by [New] when an entry has no individual ID.
	ErrEmptyID = errors.New("individual ID must not be empty")

	// ErrSelfParent is returned by [New] when an entry lists itself as its
	// own father or mother. This indicates corrupted input data.
	ErrSelfParent = errors.New("individual cannot be its own parent")
)

// Entry is one individual's pedigree record. Field semantics follow the
// PLINK PED convention: empty PaternalID/MaternalID means "no known parent",
// Sex and Affected are small integer codes (see [Sex] and [Status]).
type Entry struct {
	FamilyID     string `json:"family_id"`
	IndividualID string `json:"individual_id"`
	PaternalID   string `json:"paternal_id,omitempty"`
	MaternalID   string `json:"maternal_id,omitempty"`
	Sex          int    `json:"sex"`
	Affected     int    `json:"affected"`
}

// ParentIDs returns the non-empty parent references in father-first order.
func (e Entry) ParentIDs() []string {
	var ids []string
	if e.PaternalID != "" {
		ids = append(ids, e.PaternalID)
	}
	if e.MaternalID != "" {
		ids = append(ids, e.MaternalID)
	}
	return ids
}

// IsFounder reports whether the entry has no recorded parents.
func (e Entry) IsFounder() bool {
	return e.PaternalID == "" && e.MaternalID == ""
}

// Pedigree is a validated set of entries for one family, with derived
// child and couple indexes. Construct with [New]; the zero value is not
// usable. A Pedigree is immutable after construction and safe for
// concurrent reads.
type Pedigree struct {
	FamilyID string

	entries  []Entry
	byID     map[string]int      // individual ID -> index into entries
	children map[string][]string // parent ID -> sorted child IDs
	partners map[string][]string // individual ID -> sorted co-parent IDs
	dangling []string            // parent refs with no matching entry, sorted
}

// New builds a Pedigree from entries belonging to one family.
// The input slice is copied; the caller's data is never aliased.
//
// Returns ErrEmptyID, ErrDuplicateID, or ErrSelfParent for structurally
// invalid input. Parent references that point to no entry in the set are
// NOT an error: they are recorded and reported by [Pedigree.Dangling].
func New(entries []Entry) (*Pedigree, error) {
	p := &Pedigree{
		entries:  slices.Clone(entries),
		byID:     make(map[string]int, len(entries)),
		children: make(map[string][]string),
		partners: make(map[string][]string),
	}

	for i, e := range p.entries {
		if e.IndividualID == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyID)
		}
		if e.PaternalID == e.IndividualID || e.MaternalID == e.IndividualID {
			return nil, fmt.Errorf("entry %s: %w", e.IndividualID, ErrSelfParent)
		}
		if _, exists := p.byID[e.IndividualID]; exists {
			return nil, fmt.Errorf("entry %s: %w", e.IndividualID, ErrDuplicateID)
		}
		p.byID[e.IndividualID] = i
		if p.FamilyID == "" {
			p.FamilyID = e.FamilyID
		}
	}

	danglingSet := make(map[string]struct{})
	for _, e := range p.entries {
		for _, parent := range e.ParentIDs() {
			p.children[parent] = append(p.children[parent], e.IndividualID)
			if _, ok := p.byID[parent]; !ok {
				danglingSet[parent] = struct{}{}
			}
		}
		if e.PaternalID != "" && e.MaternalID != "" {
			p.addPartner(e.PaternalID, e.MaternalID)
			p.addPartner(e.MaternalID, e.PaternalID)
		}
	}

	for id := range p.children {
		slices.Sort(p.children[id])
		p.children[id] = slices.Compact(p.children[id])
	}
	for id := range p.partners {
		slices.Sort(p.partners[id])
		p.partners[id] = slices.Compact(p.partners[id])
	}
	p.dangling = slices.Sorted(maps.Keys(danglingSet))

	return p, nil
}

func (p *Pedigree) addPartner(id, partner string) {
	p.partners[id] = append(p.partners[id], partner)
}

// Len returns the number of individuals in the pedigree.
func (p *Pedigree) Len() int { return len(p.entries) }

// Entries returns a copy of all entries in input order.
func (p *Pedigree) Entries() []Entry { return slices.Clone(p.entries) }

// Entry returns the entry with the given individual ID and true,
// or a zero Entry and false if not found.
func (p *Pedigree) Entry(id string) (Entry, bool) {
	i, ok := p.byID[id]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Children returns the sorted IDs of entries that list id as a parent.
// Returns nil if the individual has no recorded children.
func (p *Pedigree) Children(id string) []string { return p.children[id] }

// Partners returns the sorted IDs of individuals that share a child with id
// (co-parents). Returns nil if the individual has no recorded partner.
func (p *Pedigree) Partners(id string) []string { return p.partners[id] }

// Founders returns the sorted IDs of individuals with no recorded parents.
func (p *Pedigree) Founders() []string {
	var ids []string
	for _, e := range p.entries {
		if e.IsFounder() {
			ids = append(ids, e.IndividualID)
		}
	}
	slices.Sort(ids)
	return ids
}

// Dangling returns the sorted parent IDs referenced by some entry but
// present nowhere in the pedigree. A non-empty result indicates upstream
// data inconsistency; the layout tolerates it.
func (p *Pedigree) Dangling() []string { return slices.Clone(p.dangling) }

// Families groups entries by family ID and builds one Pedigree per family,
// sorted by family ID. Families whose entries fail validation are skipped
// and reported in the error (joined), while valid families are still
// returned; callers can choose to treat partial failure as fatal.
func Families(entries []Entry) ([]*Pedigree, error) {
	byFamily := make(map[string][]Entry)
	for _, e := range entries {
		byFamily[e.FamilyID] = append(byFamily[e.FamilyID], e)
	}

	var peds []*Pedigree
	var errs []error
	for _, fam := range slices.Sorted(maps.Keys(byFamily)) {
		p, err := New(byFamily[fam])
		if err != nil {
			errs = append(errs, fmt.Errorf("family %s: %w", fam, err))
			continue
		}
		peds = append(peds, p)
	}
	return peds, errors.Join(errs...)
}
