package pedigree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalEntries converts entries to pretty-printed JSON bytes.
func MarshalEntries(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadJSON decodes a JSON array of entry objects from r.
func ReadJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return entries, nil
}

// ReadJSONFile reads a JSON entry array from a file.
func ReadJSONFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSONFile writes entries as JSON to a file with 0644 permissions.
func WriteJSONFile(entries []Entry, path string) error {
	data, err := MarshalEntries(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
