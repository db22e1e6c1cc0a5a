// Package pipeline runs the complete tag cloud pipeline: parse text into word
// statistics, lay out and paint the cloud, and encode it in one or more
// formats.
//
// The CLI and the HTTP server both go through a [Runner] so that caching,
// logging and defaults behave the same everywhere.
//
// # Stages
//
//  1. Parse: tokenize and count words, filtering boring words
//  2. Render: size, measure, place and paint every word
//  3. Encode: produce the requested output formats
//
// Word statistics are cached by source hash; encoded artifacts are cached by
// the hash of the statistics and of every setting that changes the picture.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "words.txt",
//	    Formats: []string{"png", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/cloud/layout"
	"github.com/matzehuels/tagcloud/pkg/cloud/occupancy"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/render"
	"github.com/matzehuels/tagcloud/pkg/render/palette"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
	"github.com/matzehuels/tagcloud/pkg/sizing"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = sink.PNG

// Options contains all configuration for one pipeline run.
// The JSON form is what the HTTP server accepts as render settings.
type Options struct {
	// Source labels the input (a file path or "stdin"). When Text and Stats
	// are both nil the file at Source is read.
	Source string `json:"-"`
	// Text is the raw input.
	Text []byte `json:"-"`
	// Stats skips parsing entirely.
	Stats []words.Stat `json:"-"`

	// Word options
	BoringPath string   `json:"-"`
	Boring     []string `json:"boring,omitempty"`
	Stopwords  bool     `json:"stopwords,omitempty"`
	MinLength  int      `json:"min_length,omitempty"`
	MaxUnique  int      `json:"max_unique,omitempty"`
	// Exclude removes words after counting (the pick command).
	Exclude []string `json:"exclude,omitempty"`

	// Canvas
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Padding  float64 `json:"padding,omitempty"`
	Overflow string  `json:"overflow,omitempty"`

	// Font
	Font      string       `json:"font,omitempty"`
	FontRange sizing.Range `json:"font_range"`

	// Palette
	Palette    string   `json:"palette,omitempty"`
	Background string   `json:"background,omitempty"`
	Colors     []string `json:"colors,omitempty"`

	// Layout
	Algorithm  string  `json:"algorithm,omitempty"`
	AngleStep  float64 `json:"angle_step,omitempty"`
	RadiusStep float64 `json:"radius_step,omitempty"`
	MaxSamples int     `json:"max_samples,omitempty"`
	Compaction float64 `json:"compaction,omitempty"`
	GridCell   float64 `json:"grid_cell,omitempty"`

	// Output
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool        `json:"-"`
	Logger  *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run in logs, history and HTTP responses.
	ID string

	// Words are the statistics that were rendered, most frequent first.
	Words []words.Stat

	// Cloud is the rendered cloud. It is nil when every artifact came from
	// the cache.
	Cloud *render.Cloud

	// Dropped lists words left out under the skip overflow policy.
	Dropped []string

	// Artifacts contains encoded outputs keyed by format name.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains counts and timings of a run.
type Stats struct {
	Words      int
	Placed     int
	Dropped    int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	StatsHit  bool // word statistics came from cache
	RenderHit bool // all artifacts came from cache
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = render.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = render.DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = render.DefaultScale
	}
	if o.Overflow == "" {
		o.Overflow = string(render.OverflowAbort)
	}
	if o.FontRange == (sizing.Range{}) {
		o.FontRange = sizing.Range{Min: render.DefaultMinFont, Max: render.DefaultMaxFont}
	}
	if o.Palette == "" {
		o.Palette = palette.NameSolid
	}
	if o.Algorithm == "" {
		o.Algorithm = layout.AlgorithmSpiral
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{string(DefaultFormat)}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options. Formats are normalized to their canonical
// names ("jpg" becomes "jpeg"). The font range is checked when rendering.
func (o *Options) Validate() error {
	if o.Text == nil && o.Stats == nil && o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no input: set a source file, text or statistics")
	}
	if o.MinLength < 0 || o.MaxUnique < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "min_length and max_unique must not be negative")
	}
	if err := o.renderOptions().Validate(); err != nil {
		return err
	}
	if err := o.validateLayout(); err != nil {
		return err
	}

	seen := make(map[sink.Format]bool, len(o.Formats))
	normalized := o.Formats[:0:0]
	for _, name := range o.Formats {
		f, err := sink.ParseFormat(name)
		if err != nil {
			return err
		}
		if !seen[f] {
			seen[f] = true
			normalized = append(normalized, string(f))
		}
	}
	o.Formats = normalized
	return nil
}

// validateLayout checks the layout tuning. Zero keeps the layouter default;
// anything else must stay within bounds that keep one placement cheap.
func (o *Options) validateLayout() error {
	tooSmall := func(v, min float64) bool { return v != 0 && !(v >= min) }
	switch {
	case o.AngleStep < 0 || o.RadiusStep < 0 || o.MaxSamples < 0 || o.Compaction < 0 || o.GridCell < 0:
		return errors.New(errors.ErrCodeInvalidInput, "layout parameters must not be negative")
	case tooSmall(o.AngleStep, layout.MinAngleStep):
		return errors.New(errors.ErrCodeInvalidInput, "angle_step must be at least %v, got %v", layout.MinAngleStep, o.AngleStep)
	case tooSmall(o.RadiusStep, layout.MinRadiusStep):
		return errors.New(errors.ErrCodeInvalidInput, "radius_step must be at least %v, got %v", layout.MinRadiusStep, o.RadiusStep)
	case tooSmall(o.Compaction, layout.MinCompactionStep):
		return errors.New(errors.ErrCodeInvalidInput, "compaction must be 0 or at least %v, got %v", layout.MinCompactionStep, o.Compaction)
	case tooSmall(o.GridCell, occupancy.MinCellSize):
		return errors.New(errors.ErrCodeInvalidInput, "grid_cell must be at least %v, got %v", occupancy.MinCellSize, o.GridCell)
	case o.MaxSamples > layout.DefaultMaxSamples:
		return errors.New(errors.ErrCodeInvalidInput, "max_samples must be at most %d, got %d", layout.DefaultMaxSamples, o.MaxSamples)
	}
	for _, v := range []float64{o.AngleStep, o.RadiusStep, o.Compaction, o.GridCell} {
		if math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "layout parameters must be finite")
		}
	}
	return nil
}

// WordOptions returns the options for the parse stage.
func (o *Options) WordOptions() (words.Options, error) {
	boring := words.NewSet(o.Boring...)
	if o.BoringPath != "" {
		fromFile, err := words.ReadSetFile(o.BoringPath)
		if err != nil {
			return words.Options{}, err
		}
		for w := range fromFile {
			boring.Add(w)
		}
	}
	return words.Options{
		Boring:    boring,
		Stopwords: o.Stopwords,
		MinLength: o.MinLength,
		MaxUnique: o.MaxUnique,
	}, nil
}

// StatsKeyOpts returns cache key options for the parse stage.
func (o *Options) StatsKeyOpts(wo words.Options) cache.StatsKeyOpts {
	return cache.StatsKeyOpts{
		BoringHash: cache.HashJSON(wo.Boring.Sorted()),
		MinLength:  o.MinLength,
		MaxUnique:  o.MaxUnique,
		Stopwords:  o.Stopwords,
	}
}

// SettingsHash hashes every option that changes the rendered picture.
func (o *Options) SettingsHash() string {
	return cache.HashJSON(struct {
		Width, Height         int
		Scale, Padding        float64
		Overflow, Font        string
		FontRange             sizing.Range
		Palette, Background   string
		Colors                []string
		Algorithm             string
		AngleStep, RadiusStep float64
		MaxSamples            int
		Compaction, GridCell  float64
	}{
		o.Width, o.Height, o.Scale, o.Padding, o.Overflow, o.Font, o.FontRange,
		o.Palette, o.Background, o.Colors, o.Algorithm,
		o.AngleStep, o.RadiusStep, o.MaxSamples, o.Compaction, o.GridCell,
	})
}

// renderOptions builds visualizer options without font or palette.
func (o *Options) renderOptions() render.Options {
	ro := render.Options{
		Width:     o.Width,
		Height:    o.Height,
		Scale:     o.Scale,
		FontRange: o.FontRange,
		Overflow:  render.Overflow(o.Overflow),
		Padding:   o.Padding,
		Algorithm: o.Algorithm,
		Logger:    o.Logger,
	}
	if o.AngleStep > 0 {
		ro.LayoutOptions = append(ro.LayoutOptions, layout.WithAngleStep(o.AngleStep))
	}
	if o.RadiusStep > 0 {
		ro.LayoutOptions = append(ro.LayoutOptions, layout.WithRadiusStep(o.RadiusStep))
	}
	if o.MaxSamples > 0 {
		ro.LayoutOptions = append(ro.LayoutOptions, layout.WithMaxSamples(o.MaxSamples))
	}
	if o.Compaction > 0 {
		ro.LayoutOptions = append(ro.LayoutOptions, layout.WithCompaction(o.Compaction))
	}
	if o.GridCell > 0 {
		ro.LayoutOptions = append(ro.LayoutOptions, layout.WithIndex(occupancy.NewGrid(o.GridCell)))
	}
	return ro
}
