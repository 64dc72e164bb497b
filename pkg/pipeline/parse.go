package pipeline

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/observability"
	"github.com/populationgenomics/pedviz/pkg/pedigree"
)

// LoadSource returns the raw pedigree bytes, from inline data or the
// input path.
func LoadSource(opts Options) ([]byte, error) {
	if len(opts.Data) > 0 {
		return opts.Data, nil
	}
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "pedigree file %s", opts.Input)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read pedigree file %s", opts.Input)
	}
	return data, nil
}

// Parse reads pedigree entries from the source and selects the requested
// family. With an empty FamilyID the first family (sorted by ID) is used.
func Parse(ctx context.Context, opts Options) (*pedigree.Pedigree, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse options")
	}

	source := opts.Input
	if source == "" {
		source = "<inline>"
	}
	observability.Pipeline().OnParseStart(ctx, opts.Format, source)
	start := time.Now()

	data, err := LoadSource(opts)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, opts.Format, source, 0, time.Since(start), err)
		return nil, err
	}

	p, familyCount, err := parseAndSelect(data, opts)
	observability.Pipeline().OnParseComplete(ctx, opts.Format, source, familyCount, time.Since(start), err)
	return p, err
}

func parseAndSelect(data []byte, opts Options) (*pedigree.Pedigree, int, error) {
	var entries []pedigree.Entry
	var err error
	switch opts.Format {
	case InputJSON:
		entries, err = pedigree.ReadJSON(bytes.NewReader(data))
	default:
		entries, err = pedigree.ReadPED(bytes.NewReader(data))
	}
	if err != nil {
		return nil, 0, err
	}
	if len(entries) == 0 {
		return nil, 0, errors.New(errors.ErrCodeNoData, "no pedigree entries in input")
	}

	families, err := pedigree.Families(entries)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInvalidPedigree, err, "group families")
	}

	if opts.FamilyID == "" {
		return families[0], len(families), nil
	}
	for _, f := range families {
		if f.FamilyID == opts.FamilyID {
			return f, len(families), nil
		}
	}
	return nil, len(families), errors.New(errors.ErrCodeFamilyNotFound, "family %q not in input", opts.FamilyID)
}
