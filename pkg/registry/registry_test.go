package registry

import (
	"slices"
	"testing"

	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/syntax"
)

func validator(subject string, deps, conflicts []string) *syntax.Node {
	return syntax.MethodCall(syntax.Ident("world"), "registerValidator", syntax.Ident(subject), syntax.Object(
		syntax.Prop("dependencies", idents(deps)),
		syntax.Prop("conflicts", idents(conflicts)),
	))
}

func idents(names []string) *syntax.Node {
	arr := syntax.Array()
	for _, n := range names {
		arr.Elems = append(arr.Elems, syntax.Ident(n))
	}
	return arr
}

func TestBuildAcrossUnits(t *testing.T) {
	prog := &syntax.Program{Units: []*syntax.Unit{
		{Path: "a.ts", Root: syntax.File("a.ts",
			validator("Velocity", []string{"Position"}, nil),
			validator("Ghost", nil, []string{"Health"}),
		)},
		{Path: "b.ts", Root: syntax.File("b.ts",
			validator("Velocity", []string{"Mass"}, []string{"Frozen"}),
			syntax.MethodCall(syntax.Ident("world"), "registerTemplate", syntax.Str("player"), syntax.Object(
				syntax.Prop("components", syntax.Array(syntax.Ident("Sprite"), syntax.Object(syntax.Prop("type", syntax.Ident("Input"))))),
			)),
			syntax.MethodCall(syntax.Ident("world"), "createQuery", syntax.Str("q"), syntax.Object(
				syntax.Prop("all", syntax.Array(syntax.Ident("Renderable"))),
				syntax.Prop("none", syntax.Array(syntax.Ident("Hidden"))),
				syntax.Prop("tags", syntax.Array(syntax.Str("notAComponent"))),
			)),
		)},
	}}

	reg := Build(prog, decl.DefaultMethods())

	vel := reg.Metadata("Velocity")
	if vel == nil {
		t.Fatal("Metadata(Velocity) = nil")
	}
	if got := vel.Dependencies.Sorted(); !slices.Equal(got, []string{"Mass", "Position"}) {
		t.Errorf("Velocity dependencies = %v, want merged [Mass Position]", got)
	}
	if got := vel.Conflicts.Sorted(); !slices.Equal(got, []string{"Frozen"}) {
		t.Errorf("Velocity conflicts = %v, want [Frozen]", got)
	}

	wantKnown := []string{"Frozen", "Ghost", "Health", "Hidden", "Input", "Mass", "Position", "Renderable", "Sprite", "Velocity"}
	if got := reg.Known.Sorted(); !slices.Equal(got, wantKnown) {
		t.Errorf("Known = %v, want %v", got, wantKnown)
	}
	for _, name := range []string{"Sprite", "Renderable", "Position"} {
		if reg.Metadata(name) != nil {
			t.Errorf("Metadata(%s) != nil, want mention-only", name)
		}
	}
	if reg.IsKnown("notAComponent") {
		t.Error("tags must not be registered as components")
	}

	stats := reg.Stats()
	if stats.Constrained != 2 || stats.Known != len(wantKnown) || stats.Edges != 4 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestBuildSkipsExternalUnits(t *testing.T) {
	prog := &syntax.Program{Units: []*syntax.Unit{
		{Path: "lib.d.ts", External: true, Root: syntax.File("lib.d.ts", validator("A", []string{"B"}, nil))},
		{Path: "empty.ts"},
	}}
	reg := Build(prog, decl.DefaultMethods())
	if len(reg.Components) != 0 || len(reg.Known) != 0 {
		t.Errorf("Build() = %+v, want empty registry", reg)
	}
}

func TestBuildSkipsUnresolvable(t *testing.T) {
	prog := &syntax.Program{Units: []*syntax.Unit{{Path: "a.ts", Root: syntax.File("a.ts",
		syntax.MethodCall(syntax.Ident("world"), "registerValidator", syntax.Call(syntax.Ident("pick")), syntax.Object(
			syntax.Prop("dependencies", syntax.Array(syntax.Ident("X"))),
		)),
		syntax.MethodCall(syntax.Ident("world"), "registerValidator", syntax.Ident("A"), syntax.Object(
			syntax.Prop("dependencies", syntax.Ident("computed")),
		)),
	)}}}
	reg := Build(prog, decl.DefaultMethods())

	if reg.IsKnown("X") {
		t.Error("entries of an unresolvable declaration were registered")
	}
	if m := reg.Metadata("A"); m == nil || len(m.Dependencies) != 0 {
		t.Errorf("Metadata(A) = %+v, want empty constraints", m)
	}
}

func TestNilRegistryReads(t *testing.T) {
	var reg *Registry
	if reg.Metadata("A") != nil || reg.IsKnown("A") {
		t.Error("nil registry should read as empty")
	}
}
