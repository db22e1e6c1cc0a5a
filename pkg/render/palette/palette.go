// Package palette chooses the background and word colors of a tag cloud.
//
// Colors are computed with go-colorful so that blends and hue wheels are
// perceptually even: [Wheel] walks the HCL hue circle and [Gradient] blends
// in Lab space.
package palette

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// Palette names accepted by New.
const (
	NameSolid    = "solid"
	NameWheel    = "wheel"
	NameGradient = "gradient"
)

// Default colors.
const (
	DefaultBackground = "#ffffff"
	DefaultForeground = "#1f2937"
	DefaultAccent     = "#2563eb"
)

// Painter picks colors for a cloud.
type Painter interface {
	// Background is the canvas fill color.
	Background() color.Color

	// Colors returns one color per tag. counts holds the tag frequencies in
	// drawing order.
	Colors(counts []int) []color.Color
}

// ParseHex parses a "#rrggbb" or "#rgb" color.
func ParseHex(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, errors.New(errors.ErrCodeInvalidInput, "invalid color %q (want #rgb or #rrggbb)", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	return c, nil
}

// New builds a painter by name. Colors are hex strings; their meaning
// depends on the palette: solid uses the first as the word color, gradient
// blends from the first to the last, wheel ignores them.
func New(name, background string, colors []string) (Painter, error) {
	if background == "" {
		background = DefaultBackground
	}
	bg, err := ParseHex(background)
	if err != nil {
		return nil, err
	}
	parsed := make([]colorful.Color, 0, len(colors))
	for _, c := range colors {
		p, err := ParseHex(c)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, p)
	}

	switch strings.ToLower(name) {
	case NameSolid, "":
		fg, _ := ParseHex(DefaultForeground)
		if len(parsed) > 0 {
			fg = parsed[0]
		}
		return Solid{Bg: bg, Fg: fg}, nil
	case NameWheel:
		return Wheel{Bg: bg, Chroma: 0.6, Luminance: 0.5}, nil
	case NameGradient:
		from, _ := ParseHex(DefaultAccent)
		to, _ := ParseHex(DefaultForeground)
		if len(parsed) > 0 {
			from = parsed[0]
			to = parsed[len(parsed)-1]
		}
		return Gradient{Bg: bg, From: from, To: to}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown palette %q (must be one of: solid, wheel, gradient)", name)
	}
}

// Solid paints every word in the same color.
type Solid struct {
	Bg, Fg colorful.Color
}

// Background implements Painter.
func (p Solid) Background() color.Color { return p.Bg }

// Colors implements Painter.
func (p Solid) Colors(counts []int) []color.Color {
	out := make([]color.Color, len(counts))
	for i := range out {
		out[i] = p.Fg
	}
	return out
}

// goldenAngle spaces successive hues as far apart as possible.
const goldenAngle = 137.50776405003785

// Wheel gives every word its own hue at constant chroma and luminance.
type Wheel struct {
	Bg        colorful.Color
	Chroma    float64
	Luminance float64
	Offset    float64 // starting hue in degrees
}

// Background implements Painter.
func (p Wheel) Background() color.Color { return p.Bg }

// Colors implements Painter.
func (p Wheel) Colors(counts []int) []color.Color {
	out := make([]color.Color, len(counts))
	for i := range out {
		h := math.Mod(p.Offset+float64(i)*goldenAngle, 360)
		out[i] = colorful.Hcl(h, p.Chroma, p.Luminance).Clamped()
	}
	return out
}

// Gradient colors words from From (rarest) to To (most frequent).
type Gradient struct {
	Bg       colorful.Color
	From, To colorful.Color
}

// Background implements Painter.
func (p Gradient) Background() color.Color { return p.Bg }

// Colors implements Painter.
func (p Gradient) Colors(counts []int) []color.Color {
	out := make([]color.Color, len(counts))
	if len(counts) == 0 {
		return out
	}
	lo, hi := counts[0], counts[0]
	for _, c := range counts {
		lo, hi = min(lo, c), max(hi, c)
	}
	for i, c := range counts {
		t := 1.0
		if hi > lo {
			t = float64(c-lo) / float64(hi-lo)
		}
		out[i] = p.From.BlendLab(p.To, t).Clamped()
	}
	return out
}

var (
	_ Painter = Solid{}
	_ Painter = Wheel{}
	_ Painter = Gradient{}
)
