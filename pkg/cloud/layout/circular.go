package layout

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/tagcloud/pkg/cloud/geom"
	"github.com/matzehuels/tagcloud/pkg/cloud/occupancy"
	"github.com/matzehuels/tagcloud/pkg/cloud/spiral"
)

// DefaultMaxSamples bounds the spiral walk of a single placement when no
// explicit limit is set. At the default steps this reaches a radius of 25000.
const DefaultMaxSamples = 1_000_000

// Bounds for user supplied tuning. The layouter itself accepts any positive
// step; hosts taking settings from untrusted input check against these so a
// single placement stays within DefaultMaxSamples of useful work.
const (
	MinAngleStep      = 0.01
	MinRadiusStep     = 0.05
	MinCompactionStep = 0.1
)

// maxCompactionSteps bounds the moves of one compaction pass; shorter steps
// are stretched to cover the distance in at most this many moves.
const maxCompactionSteps = 4096

type config struct {
	angleStep  float64
	radiusStep float64
	maxSamples int
	canvas     *geom.Size
	compaction float64
	index      occupancy.Index
}

// Option configures a Circular layouter.
type Option func(*config)

// WithAngleStep sets the spiral angle increment, in radians.
func WithAngleStep(step float64) Option {
	return func(c *config) { c.angleStep = step }
}

// WithRadiusStep sets the spiral radius growth per radian.
func WithRadiusStep(step float64) Option {
	return func(c *config) { c.radiusStep = step }
}

// WithMaxSamples caps the number of spiral samples examined per placement.
func WithMaxSamples(n int) Option {
	return func(c *config) { c.maxSamples = n }
}

// WithCanvas tells the layouter the drawing area spans (0,0)-(w,h). The walk
// then stops once the spiral has left the canvas for good, which is usually
// far sooner than DefaultMaxSamples.
func WithCanvas(size geom.Size) Option {
	return func(c *config) { c.canvas = &size }
}

// WithCompaction enables the compaction pass: each accepted rectangle is
// slid toward the center in increments of step while it stays free.
// A step <= 0 disables compaction.
func WithCompaction(step float64) Option {
	return func(c *config) { c.compaction = step }
}

// WithIndex replaces the occupancy index. The default is a Grid with
// occupancy.DefaultCellSize cells.
func WithIndex(idx occupancy.Index) Option {
	return func(c *config) { c.index = idx }
}

func buildConfig(opts []Option) config {
	cfg := config{
		angleStep:  spiral.DefaultAngleStep,
		radiusStep: spiral.DefaultRadiusStep,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Circular places rectangles along an Archimedean spiral around the center.
type Circular struct {
	spiral     *spiral.Archimedean
	index      occupancy.Index
	placed     []geom.Rect
	center     geom.Point
	maxSamples int
	canvas     *geom.Size
	compaction float64
}

// NewCircular returns a spiral layouter centered on the origin.
func NewCircular(opts ...Option) (*Circular, error) {
	cfg := buildConfig(opts)
	sp, err := spiral.New(cfg.angleStep, cfg.radiusStep)
	if err != nil {
		return nil, err
	}
	if cfg.maxSamples < 0 {
		return nil, fmt.Errorf("max samples must not be negative, got %d", cfg.maxSamples)
	}
	if cfg.canvas != nil {
		if err := validateSize(*cfg.canvas); err != nil {
			return nil, fmt.Errorf("canvas: %w", err)
		}
	}
	if math.IsNaN(cfg.compaction) || math.IsInf(cfg.compaction, 0) {
		return nil, fmt.Errorf("compaction step must be finite, got %v", cfg.compaction)
	}
	idx := cfg.index
	if idx == nil {
		idx = occupancy.NewGrid(occupancy.DefaultCellSize)
	}
	c := &Circular{
		spiral:     sp,
		index:      idx,
		maxSamples: cfg.maxSamples,
		canvas:     cfg.canvas,
		compaction: max(cfg.compaction, 0),
	}
	c.RefreshWith(geom.Point{})
	return c, nil
}

// RefreshWith implements Layouter.
func (c *Circular) RefreshWith(center geom.Point) {
	c.center = center
	c.spiral.Reset(center)
	c.index.Reset()
	c.placed = nil
}

// Center returns the current session center.
func (c *Circular) Center() geom.Point { return c.center }

// Cursor returns the spiral sample index the next search starts from.
func (c *Circular) Cursor() int { return c.spiral.Index() }

// PutNextRectangle implements Layouter.
//
// The search starts at the cursor left by the previous placement and takes
// the first sample whose centered rectangle is free. On success the cursor
// stays on that sample; on failure nothing changes.
func (c *Circular) PutNextRectangle(size geom.Size) (geom.Rect, error) {
	if err := validateSize(size); err != nil {
		return geom.Rect{}, err
	}
	start := c.spiral.Index()
	limit, outside := c.sampleLimit(start, size)
	if outside {
		return geom.Rect{}, fmt.Errorf("%w: no free position for %v, spiral left the canvas", ErrLayoutExhausted, size)
	}
	for i := range limit {
		r := geom.CenteredAt(c.spiral.At(start+i), size)
		if c.index.Overlaps(r) {
			continue
		}
		if c.compaction > 0 {
			r = c.compact(r)
		}
		c.index.Add(r)
		c.placed = append(c.placed, r)
		c.spiral.Seek(start + i)
		return r, nil
	}
	return geom.Rect{}, fmt.Errorf("%w: no free position for %v within %d samples", ErrLayoutExhausted, size, limit)
}

// CurrentPlacements implements Layouter.
func (c *Circular) CurrentPlacements() []geom.Rect {
	return slices.Clone(c.placed)
}

// sampleLimit returns how many samples from start a search may examine.
// outside reports that the cursor is already past the point where a
// rectangle of this size could still touch the canvas.
func (c *Circular) sampleLimit(start int, size geom.Size) (limit int, outside bool) {
	limit = c.maxSamples
	if limit == 0 {
		limit = DefaultMaxSamples
	}
	if c.canvas != nil {
		// Past this radius a rectangle centered on the spiral cannot touch
		// the canvas any more.
		reach := farthestCorner(c.center, *c.canvas) + math.Hypot(size.Width, size.Height)/2
		end := c.spiral.SamplesToRadius(reach)
		if perTurn := c.spiral.SamplesPerTurn(); end < math.MaxInt-perTurn {
			end += perTurn
		} else {
			end = math.MaxInt
		}
		if end <= start {
			return 0, true
		}
		limit = min(limit, end-start)
	}
	return limit, false
}

// compact slides r along the straight line toward the center, one step at a
// time, and returns the last position that is still free. It never moves
// past the center.
func (c *Circular) compact(r geom.Rect) geom.Rect {
	from := r.Center()
	dist := from.Distance(c.center)
	if dist == 0 {
		return r
	}
	ux := (c.center.X - from.X) / dist
	uy := (c.center.Y - from.Y) / dist
	step := max(c.compaction, dist/maxCompactionSteps)
	best := r
	for k := 1; ; k++ {
		t := float64(k) * step
		if t > dist {
			break
		}
		cand := geom.CenteredAt(geom.Point{X: from.X + ux*t, Y: from.Y + uy*t}, r.Size())
		if c.index.Overlaps(cand) {
			break
		}
		best = cand
	}
	if best != r && c.index.Overlaps(best) {
		return r
	}
	return best
}

func farthestCorner(p geom.Point, canvas geom.Size) float64 {
	dx := max(math.Abs(p.X), math.Abs(canvas.Width-p.X))
	dy := max(math.Abs(p.Y), math.Abs(canvas.Height-p.Y))
	return math.Hypot(dx, dy)
}

var _ Layouter = (*Circular)(nil)
