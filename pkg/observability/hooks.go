// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about analysis runs and cache operations; the prom
// subpackage provides a Prometheus implementation.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prom.New(prometheus.NewRegistry())
//	    observability.SetAnalysisHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Analysis().OnParseStart(ctx, len(files))
//	// ... parse ...
//	observability.Analysis().OnParseComplete(ctx, units, failed, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from analysis runs.
type AnalysisHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, files int)
	OnParseComplete(ctx context.Context, units, failed int, duration time.Duration)

	// OnRegistryBuild records a registry built from source (not served from
	// any cache).
	OnRegistryBuild(ctx context.Context, components int, duration time.Duration)

	// OnUnitChecked records the findings of one unit by kind.
	OnUnitChecked(ctx context.Context, path string, findings map[string]int)

	// OnRunComplete records the end of a run.
	OnRunComplete(ctx context.Context, findings int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. tier is "memory" for
// the session's per-snapshot cache and the backend name otherwise.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, tier string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, tier string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, tier string, size int)

	// OnInvalidate records a snapshot dropped from the session.
	OnInvalidate(ctx context.Context)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnParseStart(context.Context, int)                        {}
func (NoopAnalysisHooks) OnParseComplete(context.Context, int, int, time.Duration) {}
func (NoopAnalysisHooks) OnRegistryBuild(context.Context, int, time.Duration)      {}
func (NoopAnalysisHooks) OnUnitChecked(context.Context, string, map[string]int)    {}
func (NoopAnalysisHooks) OnRunComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}
func (NoopCacheHooks) OnInvalidate(context.Context)            {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks.
// This should be called once at application startup before any analysis runs.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
	cacheHooks = NoopCacheHooks{}
}
