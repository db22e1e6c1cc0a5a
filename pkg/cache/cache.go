// Package cache stores rendered tag cloud artifacts and parsed word
// statistics so repeated renders of the same input are served without
// recomputing the layout.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are produced by a [Keyer] so that every component derives the same
// key from the same inputs.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// StatsKey keys the word statistics parsed from a source text.
	StatsKey(sourceHash string, opts StatsKeyOpts) string

	// ArtifactKey keys one encoded rendering of a set of statistics.
	ArtifactKey(statsHash string, opts ArtifactKeyOpts) string

	// SourceKey keys the text downloaded from a URL.
	SourceKey(url string) string
}

// StatsKeyOpts holds the word-processing options that affect statistics.
type StatsKeyOpts struct {
	BoringHash string `json:"boring,omitempty"`
	MinLength  int    `json:"min_length,omitempty"`
	MaxUnique  int    `json:"max_unique,omitempty"`
	Stopwords  bool   `json:"stopwords,omitempty"`
}

// ArtifactKeyOpts holds the render settings that affect an artifact.
type ArtifactKeyOpts struct {
	Format       string `json:"format"`
	SettingsHash string `json:"settings"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// StatsKey implements Keyer.
func (DefaultKeyer) StatsKey(sourceHash string, opts StatsKeyOpts) string {
	return hashKey("stats", sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(statsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, statsHash, opts)
}

// SourceKey implements Keyer.
func (DefaultKeyer) SourceKey(url string) string {
	return hashKey("source", url)
}

// Default entry lifetimes.
const (
	TTLSource   = time.Hour
	TTLStats    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
