// Package watch re-runs the checker whenever sources change.
//
// A [Watcher] performs an initial run, then watches every directory under
// the root with fsnotify. Changes to supported source files are batched over
// a debounce window and trigger one new run per batch. Each run identifies
// its own snapshot; once a run lands on a new snapshot, the previous one is
// invalidated so the session holds a single registry at a time.
//
// New directories are watched as they appear. Directories matching the
// configured exclude patterns, and .git, are never watched.
package watch

import (
	"context"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/compcheck/pkg/errors"
	"github.com/matzehuels/compcheck/pkg/pipeline"
	"github.com/matzehuels/compcheck/pkg/syntax"
	"github.com/matzehuels/compcheck/pkg/syntax/tsparse"
)

// DefaultDebounce is the quiet period that ends a batch of changes.
const DefaultDebounce = 200 * time.Millisecond

// Handler receives the outcome of every run. changed lists the relative
// paths that triggered the run; it is empty for the initial run.
type Handler func(res *pipeline.Result, changed []string, err error)

// Options configures a [Watcher].
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
}

// Watcher re-runs a pipeline on change.
type Watcher struct {
	runner  *pipeline.Runner
	run     pipeline.Options
	matcher *pipeline.Matcher
	opts    Options

	last syntax.SnapshotID
}

// New returns a watcher for run.Root.
func New(runner *pipeline.Runner, run pipeline.Options, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = runner.Logger
	}
	if run.Root == "" {
		run.Root = "."
	}
	return &Watcher{
		runner:  runner,
		run:     run,
		matcher: pipeline.NewMatcher(run.Config.Include, run.Config.Exclude),
		opts:    opts,
	}
}

// Run blocks until ctx is done, calling h after every run. It returns an
// error only when watching cannot start.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "start watcher")
	}
	defer fw.Close()

	if _, err := w.addRecursive(fw, w.run.Root); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", w.run.Root)
	}

	w.execute(ctx, h, nil)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			changed := w.handleEvent(fw, ev)
			if len(changed) == 0 {
				continue
			}
			for _, rel := range changed {
				pending[rel] = struct{}{}
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.opts.Debounce)
			}

		case <-timerC:
			timer, timerC = nil, nil
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			w.opts.Logger.Info("sources changed", "files", len(changed))
			w.execute(ctx, h, changed)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn("watch error", "error", err)
		}
	}
}

// handleEvent returns the selected source files ev touches. A new
// directory is watched, and the files already inside it count as changed,
// since they may have been written before the watch was in place.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) []string {
	rel, err := filepath.Rel(w.run.Root, ev.Name)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if w.skipDir(rel, filepath.Base(ev.Name)) {
				return nil
			}
			files, err := w.addRecursive(fw, ev.Name)
			if err != nil {
				w.opts.Logger.Debug("cannot watch directory", "path", rel, "error", err)
			}
			return files
		}
	}
	if ev.Op == fsnotify.Chmod || !w.selected(rel) {
		return nil
	}
	w.opts.Logger.Debug("change", "path", rel, "op", ev.Op.String())
	return []string{rel}
}

func (w *Watcher) selected(rel string) bool {
	return tsparse.Supported(rel) && w.matcher.Match(rel)
}

func (w *Watcher) skipDir(rel, name string) bool {
	return name == ".git" || (rel != "." && w.matcher.Excluded(rel))
}

// addRecursive watches dir and its subdirectories and returns the selected
// source files found on the way.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		rel, err := filepath.Rel(w.run.Root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !d.IsDir() {
			if w.selected(rel) {
				files = append(files, rel)
			}
			return nil
		}
		if w.skipDir(rel, d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
	return files, err
}

// execute runs the pipeline and retires the previous snapshot when the run
// produced a new one.
func (w *Watcher) execute(ctx context.Context, h Handler, changed []string) {
	res, err := w.runner.Execute(ctx, w.run)
	if err == nil && w.last != 0 && res.Snapshot != w.last {
		w.runner.Session.Invalidate(w.last)
		w.opts.Logger.Debug("invalidated snapshot", "snapshot", w.last)
	}
	if err == nil {
		w.last = res.Snapshot
	}
	if ctx.Err() != nil {
		return
	}
	h(res, changed, err)
}
