package pedigree

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/populationgenomics/pedviz/pkg/errors"
)

// missingField is the PED placeholder for an absent parent or code.
const missingField = "0"

// ReadPED parses whitespace-delimited PLINK-style pedigree records from r.
// Each line has six columns:
//
//	family_id individual_id paternal_id maternal_id sex phenotype
//
// A "0" in the parent columns means "no known parent". Sex is 1 (male),
// 2 (female), or 0 (unknown). The phenotype column follows the PLINK
// convention where 2 means affected; it is converted to the Entry
// convention (Affected = 1 when affected). Blank lines and lines starting
// with '#' are skipped. Extra columns beyond the sixth are ignored, which
// tolerates full .ped files carrying genotype data.
func ReadPED(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"line %d: expected 6 columns, got %d", lineNo, len(fields))
		}

		e := Entry{
			FamilyID:     fields[0],
			IndividualID: fields[1],
			PaternalID:   pedParent(fields[2]),
			MaternalID:   pedParent(fields[3]),
		}

		sex, err := pedCode(fields[4])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
				"line %d: sex column", lineNo)
		}
		e.Sex = sex

		pheno, err := pedCode(fields[5])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
				"line %d: phenotype column", lineNo)
		}
		if pheno == 2 {
			e.Affected = 1
		}

		if err := errors.ValidateIndividualID(e.IndividualID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", lineNo)
		}

		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read pedigree")
	}

	return entries, nil
}

// ReadPEDFile reads pedigree records from a .ped or .fam file.
func ReadPEDFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPED(f)
}

// WritePED writes entries as PLINK-style records to w, one per line.
// It is the inverse of [ReadPED]: parents are written as "0" when absent
// and the Entry affected flag is converted back to the PLINK phenotype
// convention (2 = affected, 1 = unaffected).
func WritePED(entries []Entry, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		pheno := 1
		if StatusFromCode(e.Affected) == StatusAffected {
			pheno = 2
		}
		_, err := fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			e.FamilyID, e.IndividualID,
			pedMissing(e.PaternalID), pedMissing(e.MaternalID),
			e.Sex, pheno)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func pedParent(field string) string {
	if field == missingField {
		return ""
	}
	return field
}

func pedMissing(id string) string {
	if id == "" {
		return missingField
	}
	return id
}

func pedCode(field string) (int, error) {
	// -9 is a common "missing phenotype" marker.
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("not an integer code: %q", field)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}
