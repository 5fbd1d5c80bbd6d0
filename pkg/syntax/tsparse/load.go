package tsparse

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/compcheck/pkg/syntax"
)

// Source is the content of one file, keyed by its slash-separated path
// relative to the project root.
type Source struct {
	Path    string
	Content []byte
}

// Result is a linked program together with per-file problems.
type Result struct {
	Program *syntax.Program
	Linker  *Linker

	// Failed maps paths that could not be parsed to their error. They have
	// no unit in Program.
	Failed map[string]error

	// Recovered lists files parsed with syntax errors.
	Recovered []string
}

// LoadOptions configures [Load].
type LoadOptions struct {
	// Parallelism bounds concurrent parses; <= 0 means runtime.NumCPU().
	Parallelism int
}

// Load parses sources in parallel, links them and returns the program.
// Files that fail to parse are reported in Result.Failed; Load itself only
// fails when ctx is done.
func (p *Parser) Load(ctx context.Context, sources []Source, opts LoadOptions) (*Result, error) {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}

	files := make([]*File, len(sources))
	var mu sync.Mutex
	failed := make(map[string]error)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, src := range sources {
		g.Go(func() error {
			f, err := p.Parse(gctx, src.Path, src.Content)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				mu.Lock()
				failed[src.Path] = err
				mu.Unlock()
				return nil
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Program: &syntax.Program{}, Failed: failed}
	var modules []*Module
	for _, f := range files {
		if f == nil {
			continue
		}
		modules = append(modules, f.Module)
		if f.HasErrors {
			res.Recovered = append(res.Recovered, f.Path)
		}
	}
	res.Linker = NewLinker(modules)
	for _, f := range files {
		if f == nil {
			continue
		}
		res.Program.Units = append(res.Program.Units, &syntax.Unit{
			Path:     f.Path,
			Root:     f.Root,
			External: IsExternal(f.Path),
			Symbols:  res.Linker.Resolver(f.Path),
		})
	}
	res.Program.Sort()
	return res, nil
}
