package tangle

import (
	"encoding/json"
	"os"

	"github.com/populationgenomics/pedviz/pkg/errors"
)

// MarshalResult encodes a layout as indented JSON.
func MarshalResult(r *Result) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return data, nil
}

// UnmarshalResult decodes a layout previously produced by MarshalResult.
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return &r, nil
}

// WriteResultFile writes a layout to path as JSON.
func WriteResultFile(path string, r *Result) error {
	data, err := MarshalResult(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write layout file %s", path)
	}
	return nil
}

// ReadResultFile reads a layout JSON file written by WriteResultFile.
func ReadResultFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read layout file %s", path)
	}
	return UnmarshalResult(data)
}
