// Package cache stores raw API responses so that repeated discovery against
// the same Compiler Explorer instance can skip the network.
//
// All backends implement [Cache]:
//
//   - [NullCache]: stores nothing (the default)
//   - [MemoryCache]: process-local map with per-entry expiry
//   - [FileCache]: one JSON file per entry below a directory
//   - [RedisCache]: shared across processes through Redis
//   - [MongoCache]: shared across processes through a MongoDB collection
//
// [Open] builds a backend from [Options]. Keys are produced by a [Keyer];
// see [HTTPKey].
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a cache after Close.
var ErrClosed = errors.New("cache closed")

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of zero or less stores the entry without expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
