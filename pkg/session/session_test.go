package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/compcheck/pkg/cache"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/observability"
	"github.com/matzehuels/compcheck/pkg/syntax"
)

type countingHooks struct {
	observability.NoopAnalysisHooks
	builds atomic.Int32
}

func (h *countingHooks) OnRegistryBuild(context.Context, int, time.Duration) { h.builds.Add(1) }

type tierHooks struct {
	observability.NoopCacheHooks
	mu   sync.Mutex
	hits map[string]int
}

func (h *tierHooks) OnCacheHit(_ context.Context, tier string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[tier]++
}

func withHooks(t *testing.T) (*countingHooks, *tierHooks) {
	t.Helper()
	a, c := &countingHooks{}, &tierHooks{hits: map[string]int{}}
	observability.SetAnalysisHooks(a)
	observability.SetCacheHooks(c)
	t.Cleanup(observability.Reset)
	return a, c
}

func program(fingerprint string) *syntax.Program {
	root := syntax.File("a.ts",
		syntax.MethodCall(syntax.Ident("world"), "registerValidator", syntax.Ident("Velocity"), syntax.Object(
			syntax.Prop("dependencies", syntax.Array(syntax.Ident("Position"))),
		)),
	)
	return &syntax.Program{Fingerprint: fingerprint, Units: []*syntax.Unit{{Path: "a.ts", Root: root}}}
}

func TestIdentify(t *testing.T) {
	s := New(Options{})

	a := s.Identify("aaa")
	if got := s.Identify("aaa"); got != a {
		t.Errorf("Identify(same) = %d, want %d", got, a)
	}
	b := s.Identify("bbb")
	if b == a {
		t.Errorf("Identify(other) = %d, want a new ID", b)
	}
	if e1, e2 := s.Identify(""), s.Identify(""); e1 == e2 {
		t.Errorf("Identify(\"\") returned %d twice, want fresh IDs", e1)
	}
}

func TestRegistryMemoized(t *testing.T) {
	hooks, tiers := withHooks(t)
	s := New(Options{Methods: decl.DefaultMethods()})
	prog := program("fp")

	first, err := s.Registry(context.Background(), prog)
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	if prog.Snapshot == 0 {
		t.Error("Registry() did not assign a snapshot")
	}
	second, err := s.Registry(context.Background(), prog)
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	if first != second {
		t.Error("Registry() returned a different instance for the same snapshot")
	}
	if got := hooks.builds.Load(); got != 1 {
		t.Errorf("builds = %d, want 1", got)
	}
	if tiers.hits[TierMemory] != 1 {
		t.Errorf("memory hits = %d, want 1", tiers.hits[TierMemory])
	}
	if first.Metadata("Velocity") == nil || !first.Metadata("Velocity").Dependencies.Has("Position") {
		t.Errorf("registry missing Velocity -> Position")
	}
}

func TestRegistryConcurrent(t *testing.T) {
	hooks, _ := withHooks(t)
	s := New(Options{})
	prog := program("fp")
	prog.Snapshot = s.Identify(prog.Fingerprint)

	const n = 16
	got := make([]any, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg, err := s.Registry(context.Background(), prog)
			if err != nil {
				t.Errorf("Registry() error = %v", err)
			}
			got[i] = reg
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if got[i] != got[0] {
			t.Fatalf("goroutine %d received a different registry", i)
		}
	}
	if b := hooks.builds.Load(); b != 1 {
		t.Errorf("builds = %d, want 1", b)
	}
}

func TestInvalidate(t *testing.T) {
	hooks, _ := withHooks(t)
	s := New(Options{})
	prog := program("fp")

	first, _ := s.Registry(context.Background(), prog)
	old := prog.Snapshot
	s.Invalidate(old)

	if ids := s.Snapshots(); len(ids) != 0 {
		t.Errorf("Snapshots() = %v after Invalidate, want none", ids)
	}
	if id := s.Identify("fp"); id == old {
		t.Errorf("Identify() reused invalidated ID %d", id)
	}

	second, _ := s.Registry(context.Background(), prog)
	if first == second {
		t.Error("Registry() after Invalidate returned the dropped instance")
	}
	if b := hooks.builds.Load(); b != 2 {
		t.Errorf("builds = %d, want 2", b)
	}
}

// gatedCache blocks the first Get until release is closed.
type gatedCache struct {
	cache.NullCache
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (c *gatedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.once.Do(func() {
		close(c.entered)
		<-c.release
	})
	return nil, false, nil
}

func TestInvalidateOtherSnapshotDuringBuild(t *testing.T) {
	hooks, _ := withHooks(t)
	gate := &gatedCache{entered: make(chan struct{}), release: make(chan struct{})}
	s := New(Options{Cache: gate})

	building := program("one")
	other := program("two")
	other.Snapshot = s.Identify(other.Fingerprint)

	done := make(chan any)
	go func() {
		reg, err := s.Registry(context.Background(), building)
		if err != nil {
			t.Errorf("Registry() error = %v", err)
		}
		done <- reg
	}()

	<-gate.entered
	s.Invalidate(other.Snapshot)
	close(gate.release)
	first := <-done

	second, err := s.Registry(context.Background(), building)
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	if first != any(second) {
		t.Error("Registry() returned a different instance after another snapshot was invalidated")
	}
	if b := hooks.builds.Load(); b != 1 {
		t.Errorf("builds = %d, want 1", b)
	}
}

func TestInvalidateUnknownIsNoop(t *testing.T) {
	s := New(Options{})
	s.Invalidate(42)
	if ids := s.Snapshots(); len(ids) != 0 {
		t.Errorf("Snapshots() = %v, want none", ids)
	}
}

func TestPersistentTier(t *testing.T) {
	hooks, tiers := withHooks(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	s1 := New(Options{Cache: fc})
	if _, err := s1.Registry(context.Background(), program("fp")); err != nil {
		t.Fatal(err)
	}

	// A second process with the same cache skips the scan.
	s2 := New(Options{Cache: fc})
	reg, err := s2.Registry(context.Background(), program("fp"))
	if err != nil {
		t.Fatal(err)
	}
	if b := hooks.builds.Load(); b != 1 {
		t.Errorf("builds = %d, want 1", b)
	}
	if tiers.hits["file"] != 1 {
		t.Errorf("file hits = %d, want 1", tiers.hits["file"])
	}
	if m := reg.Metadata("Velocity"); m == nil || !m.Dependencies.Has("Position") {
		t.Errorf("cached registry missing Velocity -> Position")
	}

	// Different method names must not share entries.
	s3 := New(Options{Cache: fc, Methods: decl.Methods{Validator: []string{"validate"}}})
	if _, err := s3.Registry(context.Background(), program("fp")); err != nil {
		t.Fatal(err)
	}
	if b := hooks.builds.Load(); b != 2 {
		t.Errorf("builds = %d, want 2", b)
	}
}

func TestPersistentTierCorruptEntry(t *testing.T) {
	hooks, _ := withHooks(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(Options{Cache: fc})
	key := s.opts.Keyer.RegistryKey("fp", cache.RegistryKeyOpts{Methods: s.opts.Methods, Version: 1})
	if err := fc.Set(context.Background(), key, []byte("{not json"), time.Hour); err != nil {
		t.Fatal(err)
	}

	reg, err := s.Registry(context.Background(), program("fp"))
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	if reg.Metadata("Velocity") == nil {
		t.Error("rebuilt registry missing Velocity")
	}
	if b := hooks.builds.Load(); b != 1 {
		t.Errorf("builds = %d, want 1", b)
	}
}

func TestRegistryCanceled(t *testing.T) {
	s := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Registry(ctx, program("fp")); err == nil {
		t.Error("Registry() with canceled context should fail")
	}
	if ids := s.Snapshots(); len(ids) != 0 {
		t.Errorf("Snapshots() = %v, want none", ids)
	}
}
