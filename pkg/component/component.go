// Package component holds the value types shared by the registry, the
// constraint graph and the validators.
package component

import (
	"encoding/json"
	"maps"
	"slices"
)

// Set is a set of component names.
type Set map[string]struct{}

// NewSet returns a set containing names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s Set) Add(name string) { s[name] = struct{}{} }

func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// AddAll adds every member of other to s.
func (s Set) AddAll(other Set) {
	for n := range other {
		s[n] = struct{}{}
	}
}

// Intersect returns the members of s that are also in other.
func (s Set) Intersect(other Set) Set {
	out := Set{}
	for n := range s {
		if other.Has(n) {
			out.Add(n)
		}
	}
	return out
}

func (s Set) Clone() Set { return maps.Clone(s) }

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string { return slices.Sorted(maps.Keys(s)) }

// MarshalJSON encodes the set as a sorted array.
func (s Set) MarshalJSON() ([]byte, error) {
	names := s.Sorted()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewSet(names...)
	return nil
}

// Metadata is the declared constraint set of one component.
type Metadata struct {
	Dependencies Set `json:"dependencies"`
	Conflicts    Set `json:"conflicts"`
}

// NewMetadata returns metadata with empty, non-nil sets.
func NewMetadata() *Metadata {
	return &Metadata{Dependencies: Set{}, Conflicts: Set{}}
}

// Merge unions other into m.
func (m *Metadata) Merge(other *Metadata) {
	if other == nil {
		return
	}
	if m.Dependencies == nil {
		m.Dependencies = Set{}
	}
	if m.Conflicts == nil {
		m.Conflicts = Set{}
	}
	m.Dependencies.AddAll(other.Dependencies)
	m.Conflicts.AddAll(other.Conflicts)
}
