package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/compcheck/pkg/report"
)

var sources = map[string]string{
	"src/components.ts": "export class Position {}\nexport class Velocity {}\n",
	"src/rules.ts": `import { Position, Velocity } from "./components";
world.registerValidator(Velocity, { dependencies: [Position] });
`,
	"src/game.ts": `import { Position, Velocity } from "./components";
const e = world.createEntity();
e.attach(Velocity);
e.attach(Position);
`,
}

func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for p, content := range sources {
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

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	err := root.ExecuteContext(context.Background())
	if ferr := c.Finish(); ferr != nil {
		t.Fatalf("Finish() error = %v", ferr)
	}
	return err
}

func TestCheckCommand(t *testing.T) {
	root := project(t)
	out := filepath.Join(t.TempDir(), "report.json")

	err := execute(t, "check", root, "--format", "json", "--output", out)
	if !errors.Is(err, ErrFindings) {
		t.Fatalf("check error = %v, want ErrFindings", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var r struct {
		Findings []struct {
			File string `json:"file"`
			Kind string `json:"kind"`
		} `json:"findings"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatal(err)
	}
	if len(r.Findings) != 1 || r.Findings[0].File != "src/game.ts" || r.Findings[0].Kind != "missing-dependency" {
		t.Errorf("findings = %+v", r.Findings)
	}

	if err := execute(t, "check", root, "--fail-on-findings=false", "--output", filepath.Join(t.TempDir(), "r.txt")); err != nil {
		t.Errorf("check --fail-on-findings=false error = %v", err)
	}
}

func TestCheckCommandErrors(t *testing.T) {
	if err := execute(t, "check", project(t), "--format", "xml"); err == nil || errors.Is(err, ErrFindings) {
		t.Errorf("bad format error = %v", err)
	}
	if err := execute(t, "check", filepath.Join(t.TempDir(), "missing")); err == nil || errors.Is(err, ErrFindings) {
		t.Errorf("missing root error = %v", err)
	}

	root := project(t)
	cfg := filepath.Join(root, ".compcheck.toml")
	if err := os.WriteFile(cfg, []byte("[cache]\nbackend = \"tape\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "check", root); err == nil || errors.Is(err, ErrFindings) {
		t.Errorf("bad config error = %v", err)
	}
}

func TestGraphCommand(t *testing.T) {
	root := project(t)
	out := filepath.Join(t.TempDir(), "graph.dot")
	if err := execute(t, "--no-cache", "graph", root, "--output", out); err != nil {
		t.Fatalf("graph error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Velocity" -> "Position";`) {
		t.Errorf("graph output:\n%s", data)
	}

	if err := execute(t, "graph", root, "--format", "svg"); err == nil {
		t.Error("svg without --output succeeded")
	}
}

func TestRegistryCommand(t *testing.T) {
	root := project(t)
	out := filepath.Join(t.TempDir(), "registry.json")
	if err := execute(t, "registry", root, "-o", out); err != nil {
		t.Fatalf("registry error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Velocity") {
		t.Errorf("registry output:\n%s", data)
	}
}

func TestMetricsFile(t *testing.T) {
	root := project(t)
	metrics := filepath.Join(t.TempDir(), "compcheck.prom")
	_ = execute(t, "--metrics-file", metrics, "check", root, "-o", filepath.Join(t.TempDir(), "r.txt"))

	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), "compcheck_runs_total") {
		t.Errorf("metrics:\n%s", data)
	}
}

func TestRootArg(t *testing.T) {
	if got := rootArg(nil); got != "." {
		t.Errorf("rootArg(nil) = %q", got)
	}
	if got := rootArg([]string{"src"}); got != "src" {
		t.Errorf("rootArg([src]) = %q", got)
	}
}

type failingClose struct{ strings.Builder }

func (*failingClose) Close() error { return errors.New("disk full") }

func TestWriteReportCloseError(t *testing.T) {
	orig := createFile
	t.Cleanup(func() { createFile = orig })
	w := &failingClose{}
	createFile = func(string) (io.WriteCloser, error) { return w, nil }

	err := writeReport(report.Report{}, checkOptions{format: formatText, output: "report.txt"})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("writeReport() error = %v, want the close error", err)
	}
	if !strings.Contains(w.String(), "0 findings") {
		t.Errorf("report text = %q, want the summary written before close", w.String())
	}
}
