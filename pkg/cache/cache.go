// Package cache stores rendered frames and other derived bytes.
//
// A [Cache] is a byte store with per-entry TTLs. Three implementations are
// provided: [FileCache] for the CLI (one JSON file per entry under the user
// cache directory), [RedisCache] for the HTTP server, and [NullCache] when
// caching is disabled. Keys are produced by a [Keyer] so that every input
// that changes the output (network contents, frame size, day, time, hover,
// format) lands in a different entry.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entry kinds.
const (
	TTLFrame   = 24 * time.Hour
	TTLSession = 2 * time.Hour
)

// Cache is a byte store with expiring entries. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
