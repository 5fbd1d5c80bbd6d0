// Package finding defines the diagnostics produced by the checker.
//
// Findings describe problems in the analyzed program. They are values, not
// errors: producing one never aborts analysis.
package finding

import (
	"sort"

	"github.com/matzehuels/compcheck/pkg/syntax"
)

// Kind classifies a finding.
type Kind string

const (
	// SelfReference: a component depends on or conflicts with itself.
	SelfReference Kind = "self-reference"
	// Contradiction: a component both depends on and conflicts with a target.
	Contradiction Kind = "contradiction"
	// DuplicateEntry: a name is repeated within one declared array.
	DuplicateEntry Kind = "duplicate-entry"
	// Cycle: a dependency cycle. Data[KeyCycle] holds the path.
	Cycle Kind = "cycle"
	// MissingDependency: a component is attached before one of its
	// dependencies.
	MissingDependency Kind = "missing-dependency"
	// ConflictingComponent: a component is attached while a conflicting one
	// is present.
	ConflictingComponent Kind = "conflicting-component"
	// UnsatisfiableQuery: a query can never match.
	UnsatisfiableQuery Kind = "unsatisfiable-query"
)

// Kinds lists every kind in a stable order.
var Kinds = []Kind{
	SelfReference,
	Contradiction,
	DuplicateEntry,
	Cycle,
	MissingDependency,
	ConflictingComponent,
	UnsatisfiableQuery,
}

// Data keys.
const (
	KeyComponent  = "component"
	KeyTarget     = "target"
	KeyRelation   = "relation" // "dependency" or "conflict"
	KeyArray      = "array"
	KeyCycle      = "cycle" // names joined by " -> "
	KeyDependency = "dependency"
	KeyConflict   = "conflict"
	KeyOther      = "other"
	KeyReason     = "reason"
	KeyQuery      = "query"
	KeyTemplate   = "template"
	KeyTag        = "tag"
)

// Relation values.
const (
	RelationDependency = "dependency"
	RelationConflict   = "conflict"
)

// Reasons for UnsatisfiableQuery.
const (
	ReasonRequiredAndExcluded = "required-and-excluded"
	ReasonTagContradiction    = "tag-required-and-excluded"
	ReasonConflictingRequired = "conflicting-required"
)

// Finding is one diagnostic, attached to the most specific node available.
type Finding struct {
	Kind     Kind
	Location *syntax.Node
	Data     map[string]string
}

// New builds a finding from alternating key/value pairs.
func New(kind Kind, loc *syntax.Node, kv ...string) Finding {
	f := Finding{Kind: kind, Location: loc, Data: make(map[string]string, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		f.Data[kv[i]] = kv[i+1]
	}
	return f
}

// Pos returns the finding's source position, or the zero position when it
// has no location.
func (f Finding) Pos() syntax.Position {
	if f.Location == nil {
		return syntax.Position{}
	}
	return f.Location.Pos
}

// Sort orders findings by path, line, column, then kind.
func Sort(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i].Pos(), fs[j].Pos()
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return fs[i].Kind < fs[j].Kind
	})
}

// Count tallies findings by kind.
func Count(fs []Finding) map[Kind]int {
	counts := make(map[Kind]int)
	for _, f := range fs {
		counts[f.Kind]++
	}
	return counts
}
