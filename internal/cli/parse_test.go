package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/pedigree"
)

const testPED = `FAM01 A 0 0 1 1
FAM01 B 0 0 2 1
FAM01 C A B 1 2
`

func TestReadEntriesFilePED(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trio.ped")
	if err := os.WriteFile(path, []byte(testPED), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := readEntriesFile(path)
	if err != nil {
		t.Fatalf("readEntriesFile() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[2].PaternalID != "A" || entries[2].MaternalID != "B" {
		t.Errorf("entry C parents = %q/%q, want A/B", entries[2].PaternalID, entries[2].MaternalID)
	}
}

func TestReadEntriesFileJSON(t *testing.T) {
	entries := []pedigree.Entry{
		{FamilyID: "FAM01", IndividualID: "A", Sex: 1},
		{FamilyID: "FAM01", IndividualID: "B", Sex: 2},
	}
	path := filepath.Join(t.TempDir(), "fam.json")
	if err := pedigree.WriteJSONFile(entries, path); err != nil {
		t.Fatal(err)
	}

	got, err := readEntriesFile(path)
	if err != nil {
		t.Fatalf("readEntriesFile() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].IndividualID != "A" {
		t.Errorf("first entry = %q, want A", got[0].IndividualID)
	}
}

func TestWriteEntriesRoundTrip(t *testing.T) {
	entries := []pedigree.Entry{
		{FamilyID: "FAM01", IndividualID: "A", Sex: 1, Affected: 1},
	}
	path := filepath.Join(t.TempDir(), "out.json")

	if err := writeEntries(entries, path); err != nil {
		t.Fatalf("writeEntries() error: %v", err)
	}

	got, err := pedigree.ReadJSONFile(path)
	if err != nil {
		t.Fatalf("ReadJSONFile() error: %v", err)
	}
	if len(got) != 1 || got[0].IndividualID != "A" {
		t.Errorf("round trip got %+v", got)
	}
}

func TestOpenOutputRejectsBadPath(t *testing.T) {
	for _, path := range []string{"out\x00.json", strings.Repeat("a", 501)} {
		if _, err := openOutput(path); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("openOutput(%q) = %v, want INVALID_PATH", path, err)
		}
	}
}
