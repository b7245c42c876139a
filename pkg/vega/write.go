package vega

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Marshal converts a spec to two-space indented JSON bytes.
// Output is deterministic for identical input: struct field order is fixed
// and map-backed rows marshal with sorted keys.
func Marshal(s *Spec) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a spec as JSON to an io.Writer.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(s *Spec, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a spec to a JSON file at path.
// The file is created with 0644 permissions.
func WriteFile(s *Spec, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(s, f)
}

// ReadSpec decodes a JSON spec from an io.Reader.
// Intended for round-trip tooling and tests; the compiler itself only writes.
func ReadSpec(r io.Reader) (*Spec, error) {
	var s Spec
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &s, nil
}
