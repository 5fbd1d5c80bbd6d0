// Package session owns the per-snapshot analysis state.
//
// A [Session] assigns snapshot identities to program states and memoizes the
// cross-unit registry for each snapshot. The registry is built at most once
// per snapshot: concurrent requests share one build, and every later request
// receives the identical instance until the snapshot is invalidated.
//
// # Snapshots
//
// [Session.Identify] maps a content fingerprint to a [syntax.SnapshotID].
// Equal fingerprints map to the same ID until that ID is invalidated; IDs
// are never reused.
//
// # Persistent Tier
//
// When the session has a [cache.Cache], registries are additionally stored
// under a key derived from the fingerprint and the recognized method names,
// so a new process analyzing unchanged sources skips the registry scan. A
// cached registry that fails to decode is rebuilt.
//
// # Usage
//
//	s := session.New(session.Options{Methods: decl.DefaultMethods(), Cache: c})
//	prog.Snapshot = s.Identify(prog.Fingerprint)
//	reg, err := s.Registry(ctx, prog)
//	...
//	s.Invalidate(prog.Snapshot) // sources changed
package session

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/compcheck/pkg/cache"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/io"
	"github.com/matzehuels/compcheck/pkg/observability"
	"github.com/matzehuels/compcheck/pkg/registry"
	"github.com/matzehuels/compcheck/pkg/syntax"
)

// TierMemory names the in-process tier in cache hooks.
const TierMemory = "memory"

// Options configures a [Session].
type Options struct {
	Methods decl.Methods

	// Cache is the persistent tier. Nil disables it.
	Cache cache.Cache
	// Keyer derives persistent keys; nil means cache.DefaultKeyer.
	Keyer cache.Keyer
	// TTL of persistent entries; zero means cache.TTLRegistry.
	TTL time.Duration

	// Semantic records whether units carry symbol resolvers. It is part of
	// the persistent key since it changes what a registry contains.
	Semantic bool

	Logger *log.Logger
}

// Session memoizes registries per snapshot. It is safe for concurrent use.
type Session struct {
	opts  Options
	tier  string
	group singleflight.Group

	mu         sync.Mutex
	next       syntax.SnapshotID
	gens       map[syntax.SnapshotID]uint64
	byPrint    map[string]syntax.SnapshotID
	registries map[syntax.SnapshotID]*registry.Registry
}

// New returns an empty session.
func New(opts Options) *Session {
	opts.Methods = opts.Methods.WithDefaults()
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL == 0 {
		opts.TTL = cache.TTLRegistry
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Session{
		opts:       opts,
		tier:       tierName(opts.Cache),
		gens:       make(map[syntax.SnapshotID]uint64),
		byPrint:    make(map[string]syntax.SnapshotID),
		registries: make(map[syntax.SnapshotID]*registry.Registry),
	}
}

func tierName(c cache.Cache) string {
	switch c.(type) {
	case nil, cache.NullCache:
		return ""
	case *cache.FileCache:
		return "file"
	case *cache.RedisCache:
		return "redis"
	default:
		return "persistent"
	}
}

// Identify returns the snapshot ID for fingerprint, issuing a new one when
// the fingerprint is unseen or its ID was invalidated. An empty fingerprint
// always yields a fresh ID.
func (s *Session) Identify(fingerprint string) syntax.SnapshotID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byPrint[fingerprint]; ok && fingerprint != "" {
		return id
	}
	s.next++
	if fingerprint != "" {
		s.byPrint[fingerprint] = s.next
	}
	return s.next
}

// Registry returns the registry of prog's snapshot, building it on first
// use. A zero prog.Snapshot is assigned from prog.Fingerprint first.
func (s *Session) Registry(ctx context.Context, prog *syntax.Program) (*registry.Registry, error) {
	if prog.Snapshot == 0 {
		prog.Snapshot = s.Identify(prog.Fingerprint)
	}
	id := prog.Snapshot

	s.mu.Lock()
	reg, ok := s.registries[id]
	gen := s.gens[id]
	s.mu.Unlock()
	if ok {
		observability.Cache().OnCacheHit(ctx, TierMemory)
		return reg, nil
	}
	observability.Cache().OnCacheMiss(ctx, TierMemory)

	key := fmt.Sprintf("%d/%d", id, gen)
	v, err, shared := s.group.Do(key, func() (any, error) {
		s.mu.Lock()
		if reg, ok := s.registries[id]; ok {
			s.mu.Unlock()
			return reg, nil
		}
		s.mu.Unlock()

		reg, err := s.load(ctx, prog)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gens[id] == gen {
			s.registries[id] = reg
		}
		return reg, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.opts.Logger.Debug("joined registry build", "snapshot", id)
	}
	return v.(*registry.Registry), nil
}

// load reads the registry from the persistent tier or builds it.
func (s *Session) load(ctx context.Context, prog *syntax.Program) (*registry.Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := ""
	if s.tier != "" && prog.Fingerprint != "" {
		key = s.opts.Keyer.RegistryKey(prog.Fingerprint, cache.RegistryKeyOpts{
			Methods:  s.opts.Methods,
			Semantic: s.opts.Semantic,
			Version:  io.FormatVersion,
		})
		data, hit, err := s.opts.Cache.Get(ctx, key)
		switch {
		case err != nil:
			s.opts.Logger.Warn("registry cache read failed", "tier", s.tier, "error", err)
		case hit:
			reg, err := io.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, s.tier)
				s.opts.Logger.Debug("registry from cache", "tier", s.tier, "snapshot", prog.Snapshot)
				return reg, nil
			}
			s.opts.Logger.Warn("discarding unreadable cached registry", "tier", s.tier, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, s.tier)
	}

	start := time.Now()
	reg := registry.Build(prog, s.opts.Methods)
	stats := reg.Stats()
	observability.Analysis().OnRegistryBuild(ctx, stats.Constrained, time.Since(start))
	s.opts.Logger.Debug("built registry",
		"snapshot", prog.Snapshot,
		"components", stats.Constrained,
		"known", stats.Known,
		"duration", time.Since(start))

	if key != "" {
		if data, err := io.Marshal(reg); err == nil {
			if err := s.opts.Cache.Set(ctx, key, data, s.opts.TTL); err != nil {
				s.opts.Logger.Warn("registry cache write failed", "tier", s.tier, "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, s.tier, len(data))
			}
		}
	}
	return reg, nil
}

// Invalidate drops everything held for id. The next Registry call for id
// rebuilds, and Identify issues a new ID for id's fingerprint. Builds of id
// in flight when Invalidate is called are not stored; builds of other
// snapshots are unaffected.
func (s *Session) Invalidate(id syntax.SnapshotID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[id]++
	delete(s.registries, id)
	for fp, v := range s.byPrint {
		if v == id {
			delete(s.byPrint, fp)
		}
	}
	observability.Cache().OnInvalidate(context.Background())
}

// Snapshots returns the IDs that currently hold a registry, ascending.
func (s *Session) Snapshots() []syntax.SnapshotID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]syntax.SnapshotID, 0, len(s.registries))
	for id := range s.registries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close releases the persistent tier.
func (s *Session) Close() error {
	if s.opts.Cache != nil {
		return s.opts.Cache.Close()
	}
	return nil
}
