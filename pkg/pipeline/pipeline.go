// Package pipeline runs a complete check over a source tree.
//
// A run has four stages:
//
//  1. Collect: walk the root and select supported source files through the
//     configured include and exclude globs
//  2. Parse: parse and link the files in parallel ([tsparse.Parser.Load])
//  3. Registry: identify the snapshot by content fingerprint and obtain its
//     registry from the [session.Session]
//  4. Check: run the per-unit checks and merge the findings in report order
//
// The [Runner] keeps no per-run state besides its session, so one runner
// serves any number of runs, including the repeated runs of watch mode. Runs
// over unchanged sources share a snapshot and skip the registry scan.
//
// # Usage
//
//	runner := pipeline.NewRunner(sess, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Root: ".", Config: cfg})
//	if err != nil {
//	    return err
//	}
//	for _, f := range result.Findings {
//	    ...
//	}
package pipeline

import (
	"time"

	"github.com/matzehuels/compcheck/pkg/config"
	"github.com/matzehuels/compcheck/pkg/constraint"
	"github.com/matzehuels/compcheck/pkg/finding"
	"github.com/matzehuels/compcheck/pkg/registry"
	"github.com/matzehuels/compcheck/pkg/syntax"
)

// Options configures one run.
type Options struct {
	// Root is the directory analyzed. Paths in results are relative to it.
	Root string

	Config config.Config

	// ConfigPath names the file Config was loaded from. Findings caused by
	// seed constraints alone are located there.
	ConfigPath string

	// Parallelism bounds concurrent parsing and checking; <= 0 means
	// runtime.NumCPU().
	Parallelism int
}

// Result is the outcome of a run.
type Result struct {
	// RunID uniquely identifies the run in logs and reports.
	RunID string

	Root        string
	Snapshot    syntax.SnapshotID
	Fingerprint string

	Program  *syntax.Program
	Registry *registry.Registry

	// Findings in file, line, column and kind order.
	Findings []finding.Finding

	// Failed maps unparseable files to their error.
	Failed map[string]error
	// Recovered lists files analyzed despite syntax errors.
	Recovered []string

	Stats Stats

	graph constraint.Options
}

// Stats contains run statistics.
type Stats struct {
	Files      int
	Units      int
	Checked    int
	Components int

	CollectTime  time.Duration
	ParseTime    time.Duration
	RegistryTime time.Duration
	CheckTime    time.Duration
	Total        time.Duration
}

// Graph returns the program-wide constraint graph: the registry merged with
// the configured seeds.
func (r *Result) Graph() *constraint.Graph {
	return constraint.New(r.Registry, nil, r.graph)
}

// Counts returns the number of findings per kind.
func (r *Result) Counts() map[finding.Kind]int {
	return finding.Count(r.Findings)
}
