package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/httputil"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Fetcher downloads URL sources.
	Fetcher *httputil.Client

	// ArtifactTTL overrides cache.TTLArtifact when positive.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Fetcher: httputil.NewClient(),
	}
}

// Execute runs the complete parse → render → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{ID: uuid.NewString()}
	logger := opts.Logger.With("run", result.ID[:8])

	// Stage 1: Parse
	parseStart := time.Now()
	stats, statsHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Words = stats
	result.Stats.Words = len(stats)
	result.Stats.ParseTime = time.Since(parseStart)
	result.CacheInfo.StatsHit = statsHit

	logger.Info("counted words",
		"source", opts.Source,
		"words", len(stats),
		"cached", statsHit,
		"duration", result.Stats.ParseTime)

	// Stage 2+3: Render and encode
	renderStart := time.Now()
	rendered, renderHit, err := r.RenderWithCacheInfo(ctx, stats, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Cloud = rendered.Cloud
	result.Artifacts = rendered.Artifacts
	result.Dropped = rendered.Dropped
	result.Stats.Placed = rendered.Placed
	result.Stats.Dropped = len(rendered.Dropped)
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered cloud",
		"placed", result.Stats.Placed,
		"dropped", result.Stats.Dropped,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)
	if result.Stats.Dropped > 0 {
		logger.Warn("words did not fit on the canvas", "words", rendered.Dropped)
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) artifactTTL() time.Duration {
	if r.ArtifactTTL > 0 {
		return r.ArtifactTTL
	}
	return cache.TTLArtifact
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
