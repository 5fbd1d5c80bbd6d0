package syntax

import "sort"

// SnapshotID identifies one observed state of a program. IDs are assigned
// by an analysis session and are never reused within it.
type SnapshotID uint64

// Unit is a single compilation unit.
type Unit struct {
	Path string
	Root *Node

	// External marks declaration-only or third-party units. They take part in
	// symbol resolution but are not scanned for declarations.
	External bool

	// Symbols is the optional semantic resolver; nil means lexical only.
	Symbols SymbolResolver
}

// Program is a set of units under one snapshot identity.
type Program struct {
	Snapshot SnapshotID

	// Fingerprint is a content hash of all units. Equal fingerprints mean
	// equal source.
	Fingerprint string

	Units []*Unit
}

// Unit returns the unit for path, or nil.
func (p *Program) Unit(path string) *Unit {
	for _, u := range p.Units {
		if u.Path == path {
			return u
		}
	}
	return nil
}

// Sort orders units by path.
func (p *Program) Sort() {
	sort.Slice(p.Units, func(i, j int) bool { return p.Units[i].Path < p.Units[j].Path })
}
