package component

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestSetOperations(t *testing.T) {
	a := NewSet("A", "B", "C")
	b := NewSet("B", "C", "D")

	if got := a.Intersect(b).Sorted(); !slices.Equal(got, []string{"B", "C"}) {
		t.Errorf("Intersect() = %v, want [B C]", got)
	}

	c := a.Clone()
	c.AddAll(b)
	if got := c.Sorted(); !slices.Equal(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("AddAll() = %v, want [A B C D]", got)
	}
	if a.Has("D") {
		t.Error("Clone() shares storage with the original")
	}
}

func TestSetJSON(t *testing.T) {
	data, err := json.Marshal(NewSet("Velocity", "Health"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `["Health","Velocity"]` {
		t.Errorf("Marshal() = %s, want sorted array", data)
	}

	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !s.Has("Health") || !s.Has("Velocity") || len(s) != 2 {
		t.Errorf("Unmarshal() = %v", s)
	}

	empty, _ := json.Marshal(Set{})
	if string(empty) != "[]" {
		t.Errorf("Marshal(empty) = %s, want []", empty)
	}
}

func TestMetadataMerge(t *testing.T) {
	m := &Metadata{}
	m.Merge(&Metadata{Dependencies: NewSet("Position")})
	m.Merge(&Metadata{Dependencies: NewSet("Mass"), Conflicts: NewSet("Ghost")})
	m.Merge(nil)

	if got := m.Dependencies.Sorted(); !slices.Equal(got, []string{"Mass", "Position"}) {
		t.Errorf("Dependencies = %v, want [Mass Position]", got)
	}
	if got := m.Conflicts.Sorted(); !slices.Equal(got, []string{"Ghost"}) {
		t.Errorf("Conflicts = %v, want [Ghost]", got)
	}
}
