// Package cache stores rendered chart artifacts between runs.
//
// A render is fully determined by the digests of its two input files and
// the chart options, so the [Keyer] derives a stable key from those and the
// pipeline skips the aggregation and drawing work on a hit.
//
// Backends:
//
//   - [FileCache]: one file per entry under ~/.cache/emberview, used
//     by the CLI
//   - [RedisCache]: shared cache for several preview servers
//   - [NullCache]: disables caching (--no-cache)
//
// Expiry is evaluated against an injectable clock so tests can advance
// time instead of sleeping.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or when the
	// entry has expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) (removed int, err error)
}

// Default TTLs.
const (
	// TTLArtifact bounds how long rendered charts are reused.
	TTLArtifact = 7 * 24 * time.Hour
	// TTLPreview is used by the preview server, whose inputs may be edited
	// while it runs.
	TTLPreview = 10 * time.Minute
)
