package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/httputil"
	"github.com/matzehuels/tagcloud/pkg/observability"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// ParseWithCacheInfo produces the word statistics for opts and reports
// whether they came from the cache. Precomputed opts.Stats are returned as
// they are.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) ([]words.Stat, bool, error) {
	if opts.Stats != nil {
		return words.Exclude(opts.Stats, words.NewSet(opts.Exclude...)), false, nil
	}

	text, err := r.readSource(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	wo, err := opts.WordOptions()
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.Source)

	cacheKey := r.Keyer.StatsKey(cache.Hash(text), opts.StatsKeyOpts(wo))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var stats []words.Stat
			if err := json.Unmarshal(data, &stats); err == nil {
				observability.Cache().OnCacheHit(ctx, "stats")
				observability.Pipeline().OnParseComplete(ctx, opts.Source, len(stats), time.Since(start), nil)
				return words.Exclude(stats, words.NewSet(opts.Exclude...)), true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "stats")
	}

	stats, err := words.Parse(bytes.NewReader(text), wo)
	observability.Pipeline().OnParseComplete(ctx, opts.Source, len(stats), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLStats); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "stats", len(data))
		}
	}
	return words.Exclude(stats, words.NewSet(opts.Exclude...)), false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) ([]words.Stat, error) {
	stats, _, err := r.ParseWithCacheInfo(ctx, opts)
	return stats, err
}

// readSource returns the input text: opts.Text, a downloaded URL, or a
// local file. Downloads are cached for cache.TTLSource.
func (r *Runner) readSource(ctx context.Context, opts Options) ([]byte, error) {
	if opts.Text != nil {
		return opts.Text, nil
	}
	if httputil.IsURL(opts.Source) {
		return r.fetch(ctx, opts)
	}
	data, err := os.ReadFile(opts.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "words file not found: %s", opts.Source)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read words file %s", opts.Source)
	}
	return data, nil
}

func (r *Runner) fetch(ctx context.Context, opts Options) ([]byte, error) {
	key := r.Keyer.SourceKey(opts.Source)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "source")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "source")
	}

	start := time.Now()
	text, err := r.Fetcher.FetchText(ctx, opts.Source)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("downloaded", "url", opts.Source, "bytes", len(text), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, key, text, cache.TTLSource); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "source", len(text))
	}
	return text, nil
}
