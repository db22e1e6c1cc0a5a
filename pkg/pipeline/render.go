package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/observability"
	"github.com/matzehuels/tagcloud/pkg/render"
	"github.com/matzehuels/tagcloud/pkg/render/palette"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// summaryFormat keys the cached placement summary that accompanies the
// artifacts of a render.
const summaryFormat = "summary"

type summary struct {
	Placed  int      `json:"placed"`
	Dropped []string `json:"dropped,omitempty"`
}

// Rendered is the output of the render stage.
type Rendered struct {
	Cloud     *render.Cloud
	Artifacts map[string][]byte
	Placed    int
	Dropped   []string
}

// RenderWithCacheInfo renders stats and encodes every requested format. The
// bool reports whether all artifacts came from the cache, in which case
// Rendered.Cloud is nil.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, stats []words.Stat, opts Options) (*Rendered, bool, error) {
	statsHash := cache.HashJSON(stats)
	settingsHash := opts.SettingsHash()
	key := func(format string) string {
		return r.Keyer.ArtifactKey(statsHash, cache.ArtifactKeyOpts{Format: format, SettingsHash: settingsHash})
	}

	if !opts.Refresh {
		if out, ok := r.cachedRender(ctx, opts.Formats, key); ok {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return out, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	cloud, err := Render(ctx, stats, opts)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Encode(cloud, opts.Formats)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	out := &Rendered{Cloud: cloud, Artifacts: artifacts, Placed: len(cloud.Tags), Dropped: cloud.Dropped}
	sum, _ := json.Marshal(summary{Placed: out.Placed, Dropped: out.Dropped})
	entries := map[string][]byte{summaryFormat: sum}
	for f, data := range artifacts {
		entries[f] = data
	}
	for f, data := range entries {
		if err := r.Cache.Set(ctx, key(f), data, r.artifactTTL()); err != nil {
			r.Logger.Warn("cache write failed", "format", f, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return out, false, nil
}

func (r *Runner) cachedRender(ctx context.Context, formats []string, key func(string) string) (*Rendered, bool) {
	data, hit, err := r.Cache.Get(ctx, key(summaryFormat))
	if err != nil || !hit {
		return nil, false
	}
	var sum summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return nil, false
	}
	out := &Rendered{Artifacts: make(map[string][]byte, len(formats)), Placed: sum.Placed, Dropped: sum.Dropped}
	for _, f := range formats {
		data, hit, err := r.Cache.Get(ctx, key(f))
		if err != nil || !hit {
			return nil, false
		}
		out.Artifacts[f] = data
	}
	return out, true
}

// Render builds a visualizer from opts and renders stats.
func Render(ctx context.Context, stats []words.Stat, opts Options) (*render.Cloud, error) {
	src, err := fonts.Load(opts.Font)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	p, err := palette.New(opts.Palette, opts.Background, opts.Colors)
	if err != nil {
		return nil, err
	}

	ro := opts.renderOptions()
	ro.Font = src
	ro.Palette = p
	v, err := render.New(ro)
	if err != nil {
		return nil, err
	}
	return v.Render(ctx, stats)
}

// Encode encodes cloud in each format.
func Encode(cloud *render.Cloud, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, name := range formats {
		f, err := sink.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		data, err := sink.Bytes(cloud, f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", f)
		}
		artifacts[name] = data
	}
	return artifacts, nil
}
