package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/compcheck/pkg/config"
	"github.com/matzehuels/compcheck/pkg/errors"
	"github.com/matzehuels/compcheck/pkg/finding"
	"github.com/matzehuels/compcheck/pkg/session"
	"github.com/matzehuels/compcheck/pkg/syntax/tsparse"
)

var project = map[string]string{
	"src/components.ts": `export class Position {}
export class Velocity {}
export class Static {}
`,
	"src/rules.ts": `import { Position, Velocity as Vel, Static } from "./components";

world.registerValidator(Vel, { dependencies: [Position], conflicts: [Static] });
`,
	"src/game.ts": `import * as c from "./components";
const e = world.createEntity();
e.attach(new c.Velocity());
e.attach(new c.Position());
`,
	"node_modules/ecs/index.ts": `world.registerValidator(Broken, { dependencies: [Broken] });`,
	"README.md":                 "# not source",
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for p, content := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func quiet() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newRunner() *Runner {
	return NewRunner(session.New(session.Options{Logger: quiet()}), quiet())
}

func TestExecute(t *testing.T) {
	root := writeTree(t, project)
	res, err := newRunner().Execute(context.Background(), Options{Root: root, Config: config.Default()})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if res.Stats.Files != 3 {
		t.Errorf("Stats.Files = %d, want 3 (node_modules excluded)", res.Stats.Files)
	}
	if res.Stats.Components != 1 {
		t.Errorf("Stats.Components = %d, want 1", res.Stats.Components)
	}

	if len(res.Findings) != 1 {
		t.Fatalf("Findings = %v, want 1", res.Findings)
	}
	f := res.Findings[0]
	if f.Kind != finding.MissingDependency {
		t.Errorf("Kind = %s, want %s", f.Kind, finding.MissingDependency)
	}
	if pos := f.Pos(); pos.Path != "src/game.ts" || pos.Line != 3 {
		t.Errorf("Pos() = %v, want src/game.ts:3", pos)
	}
	if f.Data[finding.KeyComponent] != "Velocity" || f.Data[finding.KeyDependency] != "Position" {
		t.Errorf("Data = %v", f.Data)
	}

	g := res.Graph()
	if !g.DependenciesOf("Velocity").Has("Position") || !g.Conflicting("Velocity", "Static") {
		t.Error("Graph() lost registry constraints")
	}
}

func TestExecuteSnapshotReuse(t *testing.T) {
	root := writeTree(t, project)
	r := newRunner()
	opts := Options{Root: root, Config: config.Default()}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Snapshot != second.Snapshot {
		t.Errorf("unchanged sources got snapshots %d and %d", first.Snapshot, second.Snapshot)
	}
	if first.Registry != second.Registry {
		t.Error("unchanged sources rebuilt the registry")
	}
	if first.RunID == second.RunID {
		t.Error("runs share a RunID")
	}

	if err := os.WriteFile(filepath.Join(root, "src", "game.ts"), []byte("e;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Snapshot == first.Snapshot {
		t.Error("changed sources kept the snapshot")
	}
	if len(third.Findings) != 0 {
		t.Errorf("Findings = %v, want none", third.Findings)
	}
}

func TestExecuteLexical(t *testing.T) {
	root := writeTree(t, project)
	cfg := config.Default()
	cfg.Semantic = false
	res, err := newRunner().Execute(context.Background(), Options{Root: root, Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	// Without the linker the alias Vel is its own component.
	if !res.Registry.IsKnown("Vel") {
		t.Error("lexical run should register the alias name")
	}
	if len(res.Findings) != 0 {
		t.Errorf("Findings = %v, want none", res.Findings)
	}
}

func TestExecuteSeeds(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.ts": "const e = world.createEntity();\ne.attach(Health);\n",
	})
	cfg := config.Default()
	cfg.Components = map[string]config.Seed{"Health": {Dependencies: []string{"Alive"}}}
	res, err := newRunner().Execute(context.Background(), Options{Root: root, Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	if n := res.Counts()[finding.MissingDependency]; n != 1 {
		t.Errorf("Counts()[missing-dependency] = %d, want 1", n)
	}
}

func TestExecuteSeedOnlyFindings(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.ts": "world.registerValidator(B, { dependencies: [A] });\n",
	})
	cfg := config.Default()
	cfg.Components = map[string]config.Seed{
		"A": {Dependencies: []string{"B"}},
		"X": {Dependencies: []string{"Y"}, Conflicts: []string{"Y"}},
	}
	res, err := newRunner().Execute(context.Background(), Options{Root: root, Config: cfg, ConfigPath: ".compcheck.toml"})
	if err != nil {
		t.Fatal(err)
	}

	counts := res.Counts()
	if counts[finding.Cycle] != 1 {
		t.Errorf("Counts()[cycle] = %d, want 1", counts[finding.Cycle])
	}
	if counts[finding.Contradiction] != 1 {
		t.Errorf("Counts()[contradiction] = %d, want 1", counts[finding.Contradiction])
	}
	for _, f := range res.Findings {
		if f.Pos().Path != ".compcheck.toml" {
			t.Errorf("%s at %v, want the config file", f.Kind, f.Pos())
		}
	}
}

func TestExecuteErrors(t *testing.T) {
	r := newRunner()
	if _, err := r.Execute(context.Background(), Options{Root: filepath.Join(t.TempDir(), "nope"), Config: config.Default()}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing root error = %v", err)
	}

	bad := config.Default()
	bad.Cache.Backend = "tape"
	if _, err := r.Execute(context.Background(), Options{Root: t.TempDir(), Config: bad}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad config error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := writeTree(t, project)
	if _, err := r.Execute(ctx, Options{Root: root, Config: config.Default()}); err == nil {
		t.Error("canceled run succeeded")
	}
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern, path string
		want          bool
	}{
		{"src/**/*.ts", "src/a.ts", true},
		{"src/**/*.ts", "src/x/y/a.ts", true},
		{"src/**/*.ts", "lib/a.ts", false},
		{"**/node_modules/**", "node_modules/x/a.ts", true},
		{"**/node_modules/**", "pkg/node_modules", true},
		{"**/node_modules/**", "pkg/modules/a.ts", false},
		{"*.ts", "a.ts", true},
		{"*.ts", "src/a.ts", false},
		{"**", "anything/at/all.ts", true},
		{"gen/*.ts", "gen/sub/a.ts", false},
	}
	for _, tt := range tests {
		if got := matchGlob(tt.pattern, tt.path); got != tt.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

func TestCollect(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/a.ts":       "a;",
		"src/b.tsx":      "b;",
		"src/gen/c.ts":   "c;",
		"lib/d.js":       "d;",
		"src/notes.txt":  "",
		".git/hooks.ts":  "x;",
		"src/e.d.ts":     "declare class E {}",
		"src/gen/f.json": "{}",
	})

	sources, err := Collect(root, NewMatcher([]string{"src/**"}, []string{"src/gen/**"}))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, s := range sources {
		got = append(got, s.Path)
	}
	want := []string{"src/a.ts", "src/b.tsx", "src/e.d.ts"}
	if len(got) != len(want) {
		t.Fatalf("Collect() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Collect()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	file := filepath.Join(root, "src", "a.ts")
	if _, err := Collect(file, NewMatcher(nil, nil)); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Collect(file) error = %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	a := []tsparse.Source{{Path: "a.ts", Content: []byte("x")}, {Path: "b.ts", Content: []byte("y")}}
	b := []tsparse.Source{a[1], a[0]}
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("Fingerprint() depends on order")
	}
	c := []tsparse.Source{{Path: "a.ts", Content: []byte("y")}, {Path: "b.ts", Content: []byte("x")}}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("Fingerprint() ignores which file holds which content")
	}
}
