// Package cache stores rendered artifacts keyed by what produced them.
//
// Rendering is deterministic: the same scene with the same output options
// and fonts always encodes to the same bytes. A [Keyer] turns those inputs
// into a stable key and a [Cache] backend keeps the bytes:
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared storage for server deployments
//   - [NullCache]: stores nothing
//
// Backends return (nil, false, nil) on a miss; errors are reserved for
// storage failures.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. ok is false on a miss or expiry.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
