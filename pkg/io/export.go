package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/matzehuels/compcheck/pkg/component"
	"github.com/matzehuels/compcheck/pkg/registry"
)

// FormatVersion is the current document version.
const FormatVersion = 1

type document struct {
	Version    int      `json:"version"`
	Components []entry  `json:"components"`
	Known      []string `json:"known"`
}

type entry struct {
	Name         string        `json:"name"`
	Dependencies component.Set `json:"dependencies"`
	Conflicts    component.Set `json:"conflicts"`
}

// WriteJSON encodes reg as indented JSON and writes it to w.
func WriteJSON(reg *registry.Registry, w io.Writer) error {
	out := document{
		Version:    FormatVersion,
		Components: make([]entry, 0, len(reg.Components)),
		Known:      reg.Known.Sorted(),
	}
	if out.Known == nil {
		out.Known = []string{}
	}
	for _, name := range slices.Sorted(maps.Keys(reg.Components)) {
		m := reg.Components[name]
		out.Components = append(out.Components, entry{
			Name:         name,
			Dependencies: m.Dependencies,
			Conflicts:    m.Conflicts,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the JSON encoding of reg.
func Marshal(reg *registry.Registry) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(reg, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes reg to a JSON file at path.
func ExportJSON(reg *registry.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(reg, f)
}
