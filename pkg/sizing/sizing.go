// Package sizing maps word frequencies to font sizes and measures the
// rectangle a word occupies when drawn.
package sizing

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/tagcloud/pkg/cloud/geom"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// MinFontSize is the smallest size Scale returns, in points.
const MinFontSize = 1.0

// MaxFontSize is the largest size a Range may ask for, in points.
const MaxFontSize = 1000

// Range is an inclusive font size range in points.
type Range struct {
	Min int `toml:"min" yaml:"min" json:"min"`
	Max int `toml:"max" yaml:"max" json:"max"`
}

// ValidateRange checks 0 <= min <= max <= MaxFontSize.
func ValidateRange(min, max int) error {
	if min < 0 || max < 0 {
		return errors.New(errors.ErrCodeInvalidFontRange, "font sizes must not be negative (min %d, max %d)", min, max)
	}
	if max > MaxFontSize {
		return errors.New(errors.ErrCodeInvalidFontRange, "max font size %d exceeds %d", max, MaxFontSize)
	}
	if min > max {
		return errors.New(errors.ErrCodeInvalidFontRange, "min font size %d exceeds max font size %d", min, max)
	}
	return nil
}

// Validate checks the range.
func (r Range) Validate() error { return ValidateRange(r.Min, r.Max) }

// Scale interpolates font sizes linearly around the middle of the range:
// the average count maps to (Min+Max)/2 and each extra occurrence adds
// (Max-Min+1)/(maxCount-minCount+1) points.
type Scale struct {
	mid        float64
	avg        float64
	multiplier float64
}

// NewScale builds a scale for the counts in stats.
func NewScale(r Range, stats []words.Stat) (*Scale, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	minCount, maxCount := 0, 0
	for i, s := range stats {
		if i == 0 || s.Count < minCount {
			minCount = s.Count
		}
		if i == 0 || s.Count > maxCount {
			maxCount = s.Count
		}
	}
	return &Scale{
		mid:        float64(r.Min+r.Max) / 2,
		avg:        float64(minCount+maxCount) / 2,
		multiplier: float64(r.Max-r.Min+1) / float64(maxCount-minCount+1),
	}, nil
}

// Size returns the font size for a word occurring count times.
func (s *Scale) Size(count int) float64 {
	return math.Max(MinFontSize, s.mid+(float64(count)-s.avg)*s.multiplier)
}

// Measure returns the box a word occupies when drawn with face: the advance
// width by the line height (ascent plus descent).
func Measure(face font.Face, word string) geom.Size {
	m := face.Metrics()
	return geom.Size{
		Width:  toFloat(font.MeasureString(face, word)),
		Height: toFloat(m.Ascent + m.Descent),
	}
}

// Ascent returns the distance from the top of a measured box to the baseline.
func Ascent(face font.Face) float64 {
	return toFloat(face.Metrics().Ascent)
}

func toFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
