package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. The CLI falls back to it for --no-cache and when
// the cache directory cannot be created; every render then starts from the
// source text.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

// Get implements Cache. It always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set implements Cache. The artifact is discarded.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete implements Cache.
func (NullCache) Delete(context.Context, string) error { return nil }

// Clear matches FileCache.Clear; there is never anything to remove.
func (NullCache) Clear() (int, error) { return 0, nil }

// Close implements Cache.
func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
