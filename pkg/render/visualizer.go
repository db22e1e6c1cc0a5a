package render

import (
	"cmp"
	"context"
	"errors"
	"image"
	"image/color"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/tagcloud/pkg/cloud/geom"
	"github.com/matzehuels/tagcloud/pkg/cloud/layout"
	errs "github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/observability"
	"github.com/matzehuels/tagcloud/pkg/render/palette"
	"github.com/matzehuels/tagcloud/pkg/sizing"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// Overflow decides what happens to a word that cannot be placed inside the
// canvas.
type Overflow string

const (
	// OverflowAbort fails the whole render.
	OverflowAbort Overflow = "abort"
	// OverflowSkip leaves the word out and carries on.
	OverflowSkip Overflow = "skip"
)

// Default values shared by the CLI, the server and the config file.
const (
	DefaultWidth   = 800
	DefaultHeight  = 600
	DefaultMinFont = 15
	DefaultMaxFont = 35
	DefaultPadding = 2.0
	DefaultScale   = 1.0
	MaxScale       = 4.0

	// rowWidthFraction is the share of the canvas width used by the rows
	// layout.
	rowWidthFraction = 0.8
)

// Options configures a Visualizer.
type Options struct {
	Width, Height int

	// Scale renders at Scale times the resolution and downsamples,
	// smoothing glyph edges. 1 disables supersampling.
	Scale float64

	// Font is shared read-only; each render works on a clone.
	Font *fonts.Source

	// FontRange is validated when rendering, not here.
	FontRange sizing.Range

	Palette  palette.Painter
	Overflow Overflow

	// Padding is added around each word's box, in pixels.
	Padding float64

	// Algorithm is a layout.New name; LayoutOptions are passed to it along
	// with the canvas size.
	Algorithm     string
	LayoutOptions []layout.Option

	Logger *log.Logger
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.FontRange == (sizing.Range{}) {
		o.FontRange = sizing.Range{Min: DefaultMinFont, Max: DefaultMaxFont}
	}
	if o.Overflow == "" {
		o.Overflow = OverflowAbort
	}
	if o.Algorithm == "" {
		o.Algorithm = layout.AlgorithmSpiral
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Validate checks everything except the font range.
func (o Options) Validate() error {
	if err := errs.ValidateCanvas(o.Width, o.Height); err != nil {
		return err
	}
	if o.Scale < 1 || o.Scale > MaxScale {
		return errs.New(errs.ErrCodeInvalidCanvas, "scale must be between 1 and %v, got %v", MaxScale, o.Scale)
	}
	if o.Padding < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "padding must not be negative, got %v", o.Padding)
	}
	switch o.Overflow {
	case OverflowAbort, OverflowSkip:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "invalid overflow policy %q (must be one of: abort, skip)", o.Overflow)
	}
	switch o.Algorithm {
	case layout.AlgorithmSpiral, layout.AlgorithmRows:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown layout algorithm %q (must be one of: spiral, rows)", o.Algorithm)
	}
	return nil
}

// Visualizer renders tag clouds.
type Visualizer struct {
	opts Options
}

// New returns a Visualizer. Missing font and palette default to the
// built-in regular font and black on white.
func New(opts Options) (*Visualizer, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Font == nil {
		src, err := fonts.Builtin(fonts.Default)
		if err != nil {
			return nil, err
		}
		opts.Font = src
	}
	if opts.Palette == nil {
		p, err := palette.New(palette.NameSolid, "", nil)
		if err != nil {
			return nil, err
		}
		opts.Palette = p
	}
	return &Visualizer{opts: opts}, nil
}

// Options returns the effective options.
func (v *Visualizer) Options() Options { return v.opts }

type sizedTag struct {
	words.Stat
	fontSize float64
	box      geom.Size
	ascent   float64
}

// Render lays out and paints stats.
func (v *Visualizer) Render(ctx context.Context, stats []words.Stat) (*Cloud, error) {
	o := v.opts
	if err := errs.ValidateCanvas(o.Width, o.Height); err != nil {
		return nil, err
	}

	surf := acquireSurface(o.Width, o.Height, o.Scale)
	defer surf.release()

	canvas := geom.Size{Width: float64(o.Width), Height: float64(o.Height)}
	l, err := layout.New(o.Algorithm, canvas.Width*rowWidthFraction,
		append(slices.Clip(o.LayoutOptions), layout.WithCanvas(canvas))...)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "create layout")
	}
	l.RefreshWith(geom.Pt(canvas.Width/2, canvas.Height/2))

	bg := o.Palette.Background()
	surf.fill(bg)

	if err := o.FontRange.Validate(); err != nil {
		return nil, err
	}
	scale, err := sizing.NewScale(o.FontRange, stats)
	if err != nil {
		return nil, err
	}

	src := o.Font.Clone()
	defer src.Close()

	tags := make([]sizedTag, 0, len(stats))
	for _, s := range stats {
		fs := scale.Size(s.Count)
		face, err := src.Face(fs)
		if err != nil {
			return nil, err
		}
		box := sizing.Measure(face, s.Word)
		tags = append(tags, sizedTag{
			Stat:     s,
			fontSize: fs,
			box:      geom.Size{Width: box.Width + 2*o.Padding, Height: box.Height + 2*o.Padding},
			ascent:   sizing.Ascent(face),
		})
	}
	slices.SortStableFunc(tags, func(a, b sizedTag) int {
		return cmp.Compare(b.fontSize, a.fontSize)
	})

	counts := make([]int, len(tags))
	for i, t := range tags {
		counts[i] = t.Count
	}
	colors := o.Palette.Colors(counts)

	cloud := &Cloud{
		Width:      o.Width,
		Height:     o.Height,
		Background: bg,
		Font:       src.Name(),
		FontTTF:    src.TTF(),
	}
	bounds := geom.Rect{Width: canvas.Width, Height: canvas.Height}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, o.Algorithm, len(tags))
	err = v.place(ctx, l, bounds, tags, colors, cloud)
	observability.Pipeline().OnLayoutComplete(ctx, o.Algorithm, len(cloud.Tags), len(cloud.Dropped), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for _, t := range cloud.Tags {
		face, err := src.Face(t.FontSize * o.Scale)
		if err != nil {
			return nil, err
		}
		surf.text(t.Word, t.Origin, face, t.Color)
	}
	cloud.Image = surf.image()

	o.Logger.Debug("rendered cloud", "tags", len(cloud.Tags), "dropped", len(cloud.Dropped), "size", canvas)
	return cloud, nil
}

func (v *Visualizer) place(ctx context.Context, l layout.Layouter, bounds geom.Rect, tags []sizedTag, colors []color.Color, cloud *Cloud) error {
	o := v.opts
	for i, t := range tags {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := l.PutNextRectangle(t.box)
		switch {
		case errors.Is(err, layout.ErrLayoutExhausted):
			if o.Overflow == OverflowSkip {
				cloud.Dropped = append(cloud.Dropped, t.Word)
				o.Logger.Debug("dropped tag", "word", t.Word, "reason", "layout exhausted")
				continue
			}
			return errs.Wrap(errs.ErrCodeLayoutExhausted, err, "no room left for %q", t.Word)
		case errors.Is(err, geom.ErrInvalidSize):
			return errs.Wrap(errs.ErrCodeInvalidSize, err, "cannot place %q", t.Word)
		case err != nil:
			return errs.Wrap(errs.ErrCodeInternal, err, "place %q", t.Word)
		}

		if !bounds.Contains(r) {
			if o.Overflow == OverflowSkip {
				cloud.Dropped = append(cloud.Dropped, t.Word)
				o.Logger.Debug("dropped tag", "word", t.Word, "rect", r)
				continue
			}
			return errs.New(errs.ErrCodeOutOfCanvas,
				"can't visualize all tags inside bitmap of size %dx%d: %q at %v", o.Width, o.Height, t.Word, r)
		}

		cloud.Tags = append(cloud.Tags, Tag{
			Word:     t.Word,
			Count:    t.Count,
			FontSize: t.fontSize,
			Rect:     r,
			Origin:   geom.Pt(r.X+o.Padding, r.Y+o.Padding+t.ascent),
			Color:    colors[i],
		})
	}
	return nil
}

// surface is the drawing context of one render call.
type surface struct {
	dc            *gg.Context
	width, height int
	scale         float64
}

func acquireSurface(width, height int, scale float64) *surface {
	return &surface{
		dc:     gg.NewContext(int(float64(width)*scale), int(float64(height)*scale)),
		width:  width,
		height: height,
		scale:  scale,
	}
}

func (s *surface) fill(c color.Color) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

func (s *surface) text(word string, at geom.Point, face font.Face, c color.Color) {
	s.dc.SetFontFace(face)
	s.dc.SetColor(c)
	s.dc.DrawString(word, at.X*s.scale, at.Y*s.scale)
}

// image returns the canvas at its nominal size.
func (s *surface) image() image.Image {
	img := s.dc.Image()
	if s.scale == 1 {
		return img
	}
	return imaging.Resize(img, s.width, s.height, imaging.Lanczos)
}

// release drops the drawing context. The surface must not be used after.
func (s *surface) release() {
	s.dc = nil
}
