package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/compcheck/pkg/cache"
	"github.com/matzehuels/compcheck/pkg/check"
	"github.com/matzehuels/compcheck/pkg/finding"
	"github.com/matzehuels/compcheck/pkg/observability"
	"github.com/matzehuels/compcheck/pkg/session"
	"github.com/matzehuels/compcheck/pkg/syntax"
	"github.com/matzehuels/compcheck/pkg/syntax/tsparse"
)

// Runner executes runs against one session.
type Runner struct {
	Session *session.Session
	Logger  *log.Logger
}

// NewRunner returns a runner. A nil session is replaced by an in-memory
// one; a nil logger by log.Default().
func NewRunner(s *session.Session, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if s == nil {
		s = session.New(session.Options{Logger: logger})
	}
	return &Runner{Session: s, Logger: logger}
}

// Execute runs collect, parse, registry and check over opts.Root.
func (r *Runner) Execute(ctx context.Context, opts Options) (res *Result, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Findings)
		}
		observability.Analysis().OnRunComplete(ctx, n, time.Since(start), err)
	}()

	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	res = &Result{
		RunID: uuid.NewString(),
		Root:  opts.Root,
		graph: cfg.ConstraintOptions(),
	}
	logger := r.Logger.With("run", res.RunID[:8])

	// Stage 1: Collect
	stageStart := time.Now()
	sources, err := Collect(opts.Root, NewMatcher(cfg.Include, cfg.Exclude))
	if err != nil {
		return nil, err
	}
	res.Stats.Files = len(sources)
	res.Stats.CollectTime = time.Since(stageStart)
	res.Fingerprint = Fingerprint(sources)
	logger.Debug("collected sources", "files", len(sources), "duration", res.Stats.CollectTime)

	// Stage 2: Parse
	stageStart = time.Now()
	observability.Analysis().OnParseStart(ctx, len(sources))
	parser := tsparse.NewParser(tsparse.WithMaxFileSize(cfg.MaxFileSize))
	loaded, err := parser.Load(ctx, sources, tsparse.LoadOptions{Parallelism: opts.Parallelism})
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	prog := loaded.Program
	if !cfg.Semantic {
		for _, u := range prog.Units {
			u.Symbols = nil
		}
	}
	res.Program = prog
	res.Failed = loaded.Failed
	res.Recovered = loaded.Recovered
	res.Stats.Units = len(prog.Units)
	res.Stats.ParseTime = time.Since(stageStart)
	observability.Analysis().OnParseComplete(ctx, len(prog.Units), len(loaded.Failed), res.Stats.ParseTime)
	for path, ferr := range loaded.Failed {
		logger.Warn("skipping file", "path", path, "error", ferr)
	}
	for _, path := range loaded.Recovered {
		logger.Debug("analyzed file with syntax errors", "path", path)
	}
	logger.Info("parsed sources",
		"units", len(prog.Units),
		"failed", len(loaded.Failed),
		"duration", res.Stats.ParseTime)

	// Stage 3: Registry
	stageStart = time.Now()
	prog.Fingerprint = res.Fingerprint
	prog.Snapshot = r.Session.Identify(prog.Fingerprint)
	reg, err := r.Session.Registry(ctx, prog)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	res.Snapshot = prog.Snapshot
	res.Registry = reg
	res.Stats.Components = reg.Stats().Constrained
	res.Stats.RegistryTime = time.Since(stageStart)
	logger.Debug("registry ready",
		"snapshot", prog.Snapshot,
		"components", res.Stats.Components,
		"duration", res.Stats.RegistryTime)

	// Stage 4: Check
	stageStart = time.Now()
	checker := check.New(reg, cfg.Methods, res.graph)
	checker.SeedPath = opts.ConfigPath
	findings, checked, err := r.check(ctx, checker, prog, opts.Parallelism)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	res.Findings = findings
	res.Stats.Checked = checked
	res.Stats.CheckTime = time.Since(stageStart)
	res.Stats.Total = time.Since(start)

	logger.Info("checked units",
		"units", checked,
		"findings", len(findings),
		"duration", res.Stats.CheckTime)
	return res, nil
}

// check runs c over every non-external unit in parallel, adds the findings
// of seed constraints and merges them.
func (r *Runner) check(ctx context.Context, c *check.Checker, prog *syntax.Program, parallelism int) ([]finding.Finding, int, error) {
	var units []*syntax.Unit
	for _, u := range prog.Units {
		if !u.External {
			units = append(units, u)
		}
	}

	perUnit := make([][]finding.Finding, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fs := c.Check(u)
			perUnit[i] = fs
			observability.Analysis().OnUnitChecked(gctx, u.Path, kindCounts(fs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	all := c.CheckSeeds()
	for _, fs := range perUnit {
		all = append(all, fs...)
	}
	finding.Sort(all)
	return all, len(units), nil
}

func kindCounts(fs []finding.Finding) map[string]int {
	out := make(map[string]int)
	for k, n := range finding.Count(fs) {
		out[string(k)] = n
	}
	return out
}

// Fingerprint hashes the paths and contents of sources. The order of
// sources does not matter.
func Fingerprint(sources []tsparse.Source) string {
	lines := make([]string, len(sources))
	for i, s := range sources {
		lines[i] = s.Path + "\x00" + cache.Hash(s.Content)
	}
	slices.Sort(lines)
	return cache.Hash([]byte(strings.Join(lines, "\n")))
}

// Close releases the session.
func (r *Runner) Close() error {
	return r.Session.Close()
}
