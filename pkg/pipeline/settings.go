package pipeline

import (
	"github.com/matzehuels/tagcloud/pkg/config"
	"github.com/matzehuels/tagcloud/pkg/sizing"
)

// FromSettings returns Options carrying every value of s. Input fields
// (Source, Text, Stats) are left for the caller.
func FromSettings(s config.Settings) Options {
	return Options{
		BoringPath: s.Words.Boring,
		Stopwords:  s.Words.Stopwords,
		MinLength:  s.Words.MinLength,
		MaxUnique:  s.Words.MaxUnique,

		Width:    s.Canvas.Width,
		Height:   s.Canvas.Height,
		Scale:    s.Canvas.Scale,
		Padding:  s.Canvas.Padding,
		Overflow: s.Canvas.Overflow,

		Font:      s.Font.Name,
		FontRange: sizing.Range{Min: s.Font.Min, Max: s.Font.Max},

		Palette:    s.Palette.Name,
		Background: s.Palette.Background,
		Colors:     s.Palette.Colors,

		Algorithm:  s.Layout.Algorithm,
		AngleStep:  s.Layout.AngleStep,
		RadiusStep: s.Layout.RadiusStep,
		MaxSamples: s.Layout.MaxSamples,
		Compaction: s.Layout.Compaction,
		GridCell:   s.Layout.GridCell,

		Formats: s.Output.Formats,
	}
}
