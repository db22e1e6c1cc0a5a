// Package config loads tagcloud settings from TOML or YAML files.
//
// Settings are looked up in this order, the first file found wins:
//
//  1. the path given on the command line (--config)
//  2. ~/.config/tagcloud/config.toml
//  3. ~/.config/tagcloud/config.yaml (or .yml)
//  4. ./tagcloud.toml
//  5. built-in defaults
//
// A file only needs to contain the keys it changes; everything else keeps
// its default. The font size range is deliberately not checked here: it is
// validated when a cloud is rendered.
package config

import (
	"github.com/matzehuels/tagcloud/pkg/cloud/layout"
	"github.com/matzehuels/tagcloud/pkg/cloud/occupancy"
	"github.com/matzehuels/tagcloud/pkg/cloud/spiral"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/render"
	"github.com/matzehuels/tagcloud/pkg/render/palette"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
)

// Settings is the complete configuration.
type Settings struct {
	Canvas  Canvas  `toml:"canvas" yaml:"canvas" json:"canvas"`
	Font    Font    `toml:"font" yaml:"font" json:"font"`
	Layout  Layout  `toml:"layout" yaml:"layout" json:"layout"`
	Words   Words   `toml:"words" yaml:"words" json:"words"`
	Palette Palette `toml:"palette" yaml:"palette" json:"palette"`
	Output  Output  `toml:"output" yaml:"output" json:"output"`
	Cache   Cache   `toml:"cache" yaml:"cache" json:"-"`
	History History `toml:"history" yaml:"history" json:"-"`
	Server  Server  `toml:"server" yaml:"server" json:"-"`
}

// Canvas describes the output image.
type Canvas struct {
	Width    int     `toml:"width" yaml:"width" json:"width"`
	Height   int     `toml:"height" yaml:"height" json:"height"`
	Scale    float64 `toml:"scale" yaml:"scale" json:"scale"`
	Padding  float64 `toml:"padding" yaml:"padding" json:"padding"`
	Overflow string  `toml:"overflow" yaml:"overflow" json:"overflow"`
}

// Font selects the face and the size range in points.
type Font struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	Min  int    `toml:"min" yaml:"min" json:"min"`
	Max  int    `toml:"max" yaml:"max" json:"max"`
}

// Layout tunes the layouter.
type Layout struct {
	Algorithm  string  `toml:"algorithm" yaml:"algorithm" json:"algorithm"`
	AngleStep  float64 `toml:"angle_step" yaml:"angle_step" json:"angle_step"`
	RadiusStep float64 `toml:"radius_step" yaml:"radius_step" json:"radius_step"`
	MaxSamples int     `toml:"max_samples" yaml:"max_samples" json:"max_samples"`
	Compaction float64 `toml:"compaction" yaml:"compaction" json:"compaction"`
	GridCell   float64 `toml:"grid_cell" yaml:"grid_cell" json:"grid_cell"`
}

// Words controls word statistics.
type Words struct {
	Boring    string `toml:"boring" yaml:"boring" json:"boring"`
	Stopwords bool   `toml:"stopwords" yaml:"stopwords" json:"stopwords"`
	MinLength int    `toml:"min_length" yaml:"min_length" json:"min_length"`
	MaxUnique int    `toml:"max_unique" yaml:"max_unique" json:"max_unique"`
}

// Palette selects colors.
type Palette struct {
	Name       string   `toml:"name" yaml:"name" json:"name"`
	Background string   `toml:"background" yaml:"background" json:"background"`
	Colors     []string `toml:"colors" yaml:"colors" json:"colors"`
}

// Output names the default output file and extra formats.
type Output struct {
	// Path is the primary output file. Empty names it after the input.
	Path    string   `toml:"path" yaml:"path" json:"path"`
	Formats []string `toml:"formats" yaml:"formats" json:"formats"`
}

// Cache configures artifact caching.
type Cache struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Dir      string `toml:"dir" yaml:"dir"`
	TTLHours int    `toml:"ttl_hours" yaml:"ttl_hours"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
}

// History configures the render history database.
type History struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// Server configures `tagcloud serve`.
type Server struct {
	Addr         string `toml:"addr" yaml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Canvas: Canvas{
			Width:    render.DefaultWidth,
			Height:   render.DefaultHeight,
			Scale:    render.DefaultScale,
			Padding:  render.DefaultPadding,
			Overflow: string(render.OverflowAbort),
		},
		Font: Font{
			Name: fonts.Default,
			Min:  render.DefaultMinFont,
			Max:  render.DefaultMaxFont,
		},
		Layout: Layout{
			Algorithm:  layout.AlgorithmSpiral,
			AngleStep:  spiral.DefaultAngleStep,
			RadiusStep: spiral.DefaultRadiusStep,
			Compaction: 1,
			GridCell:   occupancy.DefaultCellSize,
		},
		Words: Words{
			Stopwords: true,
			MinLength: 3,
			MaxUnique: 100,
		},
		Palette: Palette{
			Name:       palette.NameSolid,
			Background: palette.DefaultBackground,
			Colors:     []string{palette.DefaultForeground},
		},
		Cache: Cache{
			Enabled:  true,
			TTLHours: 24 * 7,
		},
		History: History{
			Enabled: true,
		},
		Server: Server{
			Addr:         ":8080",
			MaxBodyBytes: 4 << 20,
		},
	}
}

// Validate checks the settings. The font range is left to render time.
func (s Settings) Validate() error {
	if err := errors.ValidateCanvas(s.Canvas.Width, s.Canvas.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "canvas")
	}
	if s.Canvas.Scale < 1 || s.Canvas.Scale > render.MaxScale {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.scale must be between 1 and %v, got %v", render.MaxScale, s.Canvas.Scale)
	}
	if s.Canvas.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.padding must not be negative")
	}
	switch render.Overflow(s.Canvas.Overflow) {
	case render.OverflowAbort, render.OverflowSkip:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.overflow must be abort or skip, got %q", s.Canvas.Overflow)
	}

	switch s.Layout.Algorithm {
	case layout.AlgorithmSpiral, layout.AlgorithmRows:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.algorithm must be spiral or rows, got %q", s.Layout.Algorithm)
	}
	if !(s.Layout.AngleStep >= layout.MinAngleStep) || !(s.Layout.RadiusStep >= layout.MinRadiusStep) {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.angle_step must be at least %v and layout.radius_step at least %v (got %v, %v)",
			layout.MinAngleStep, layout.MinRadiusStep, s.Layout.AngleStep, s.Layout.RadiusStep)
	}
	if s.Layout.MaxSamples < 0 || s.Layout.Compaction < 0 || s.Layout.GridCell < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.max_samples, layout.compaction and layout.grid_cell must not be negative")
	}
	if s.Layout.MaxSamples > layout.DefaultMaxSamples {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.max_samples must be at most %d", layout.DefaultMaxSamples)
	}
	if s.Layout.Compaction > 0 && s.Layout.Compaction < layout.MinCompactionStep {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.compaction must be 0 or at least %v", layout.MinCompactionStep)
	}
	if s.Layout.GridCell > 0 && s.Layout.GridCell < occupancy.MinCellSize {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.grid_cell must be at least %v", occupancy.MinCellSize)
	}

	if s.Words.MinLength < 0 || s.Words.MaxUnique < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "words.min_length and words.max_unique must not be negative")
	}

	if _, err := palette.New(s.Palette.Name, s.Palette.Background, s.Palette.Colors); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette")
	}

	if s.Output.Path != "" {
		if _, err := sink.ResolveFormat(s.Output.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output.path")
		}
	}
	for _, f := range s.Output.Formats {
		if _, err := sink.ParseFormat(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output.formats")
		}
	}

	if s.Cache.TTLHours < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl_hours must not be negative")
	}
	return nil
}
