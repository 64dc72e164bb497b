package pedigree

import (
	"errors"
	"slices"
	"testing"
)

// trio returns the canonical two-parent, one-child family.
func trio() []Entry {
	return []Entry{
		{FamilyID: "FAM01", IndividualID: "A", Sex: 1},
		{FamilyID: "FAM01", IndividualID: "B", Sex: 2},
		{FamilyID: "FAM01", IndividualID: "C", PaternalID: "A", MaternalID: "B", Sex: 1, Affected: 1},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{"Trio", trio(), nil},
		{"Empty", nil, nil},
		{
			name: "DuplicateID",
			entries: []Entry{
				{FamilyID: "F", IndividualID: "A"},
				{FamilyID: "F", IndividualID: "A"},
			},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "EmptyID",
			entries: []Entry{{FamilyID: "F"}},
			wantErr: ErrEmptyID,
		},
		{
			name:    "SelfParent",
			entries: []Entry{{FamilyID: "F", IndividualID: "A", PaternalID: "A"}},
			wantErr: ErrSelfParent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("New: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChildren(t *testing.T) {
	p, err := New(trio())
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Children("A"); !slices.Equal(got, []string{"C"}) {
		t.Errorf("Children(A) = %v, want [C]", got)
	}
	if got := p.Children("B"); !slices.Equal(got, []string{"C"}) {
		t.Errorf("Children(B) = %v, want [C]", got)
	}
	if got := p.Children("C"); got != nil {
		t.Errorf("Children(C) = %v, want nil", got)
	}
}

func TestChildrenSorted(t *testing.T) {
	p, err := New([]Entry{
		{FamilyID: "F", IndividualID: "P"},
		{FamilyID: "F", IndividualID: "z", PaternalID: "P"},
		{FamilyID: "F", IndividualID: "a", PaternalID: "P"},
		{FamilyID: "F", IndividualID: "m", PaternalID: "P"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Children("P"); !slices.Equal(got, []string{"a", "m", "z"}) {
		t.Errorf("Children(P) = %v, want sorted [a m z]", got)
	}
}

func TestPartners(t *testing.T) {
	p, err := New(trio())
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Partners("A"); !slices.Equal(got, []string{"B"}) {
		t.Errorf("Partners(A) = %v, want [B]", got)
	}
	if got := p.Partners("C"); got != nil {
		t.Errorf("Partners(C) = %v, want nil", got)
	}
}

func TestFounders(t *testing.T) {
	p, err := New(trio())
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Founders(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Founders = %v, want [A B]", got)
	}
}

func TestDangling(t *testing.T) {
	p, err := New([]Entry{
		{FamilyID: "F", IndividualID: "kid", PaternalID: "ghost", MaternalID: "mum"},
		{FamilyID: "F", IndividualID: "mum"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Dangling(); !slices.Equal(got, []string{"ghost"}) {
		t.Errorf("Dangling = %v, want [ghost]", got)
	}
}

func TestNewCopiesInput(t *testing.T) {
	entries := trio()
	p, err := New(entries)
	if err != nil {
		t.Fatal(err)
	}

	entries[0].IndividualID = "mutated"

	if _, ok := p.Entry("A"); !ok {
		t.Error("pedigree aliased the caller's slice")
	}
}

func TestFamilies(t *testing.T) {
	entries := []Entry{
		{FamilyID: "FAM02", IndividualID: "X"},
		{FamilyID: "FAM01", IndividualID: "A"},
		{FamilyID: "FAM01", IndividualID: "B", PaternalID: "A"},
	}

	peds, err := Families(entries)
	if err != nil {
		t.Fatalf("Families: %v", err)
	}

	if len(peds) != 2 {
		t.Fatalf("families = %d, want 2", len(peds))
	}
	if peds[0].FamilyID != "FAM01" || peds[1].FamilyID != "FAM02" {
		t.Errorf("family order = %s, %s; want FAM01, FAM02", peds[0].FamilyID, peds[1].FamilyID)
	}
	if peds[0].Len() != 2 {
		t.Errorf("FAM01 size = %d, want 2", peds[0].Len())
	}
}

func TestFamiliesPartialFailure(t *testing.T) {
	entries := []Entry{
		{FamilyID: "GOOD", IndividualID: "A"},
		{FamilyID: "BAD", IndividualID: "X"},
		{FamilyID: "BAD", IndividualID: "X"},
	}

	peds, err := Families(entries)
	if err == nil {
		t.Fatal("expected error for duplicate IDs in BAD")
	}
	if len(peds) != 1 || peds[0].FamilyID != "GOOD" {
		t.Errorf("valid families = %v, want just GOOD", peds)
	}
}
