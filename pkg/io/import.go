package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/compcheck/pkg/component"
	"github.com/matzehuels/compcheck/pkg/registry"
)

// ErrVersionMismatch is returned by [ReadJSON] for documents written in a
// different format version.
var ErrVersionMismatch = errors.New("registry format version mismatch")

// ReadJSON decodes a registry document from r. Every constrained component
// and every constraint target is added to the known set, even if the
// document's known list omits it.
func ReadJSON(r io.Reader) (*registry.Registry, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.Version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, data.Version, FormatVersion)
	}

	reg := registry.New()
	reg.Mention(data.Known...)
	for _, e := range data.Components {
		if e.Name == "" {
			return nil, fmt.Errorf("component without name")
		}
		m := component.NewMetadata()
		m.Merge(&component.Metadata{Dependencies: e.Dependencies, Conflicts: e.Conflicts})
		reg.Components[e.Name] = m
		reg.Mention(e.Name)
		reg.Mention(m.Dependencies.Sorted()...)
		reg.Mention(m.Conflicts.Sorted()...)
	}
	return reg, nil
}

// Unmarshal decodes a registry from data.
func Unmarshal(data []byte) (*registry.Registry, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a registry from the JSON file at path.
func ImportJSON(path string) (*registry.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
