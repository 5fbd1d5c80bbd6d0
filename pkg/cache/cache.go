// Package cache provides the persistent tier for analysis artifacts.
//
// The analysis session keeps registries in memory per snapshot; this package
// lets a registry survive process restarts (CLI runs, watch restarts) keyed
// by the content fingerprint of the program. Backends:
//
//   - [FileCache]: JSON entries under a directory, for local CLI use
//   - [RedisCache]: shared cache for CI runners checking the same commits
//   - [NullCache]: caching disabled
//
// Cache failures are never fatal to an analysis; callers treat errors as
// misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default lifetimes for cached artifacts.
const (
	TTLRegistry = 24 * time.Hour
)
