package layout

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/tagcloud/pkg/cloud/geom"
)

// RowsOption configures a Rows layouter.
type RowsOption func(*Rows)

// WithRowsBounds limits placements to the canvas (0,0)-(w,h). A rectangle
// that would fall outside fails with ErrLayoutExhausted.
func WithRowsBounds(size geom.Size) RowsOption {
	return func(r *Rows) { r.bounds = &size }
}

// row is one shelf. Rows below the center are top-aligned at edge; rows
// above it are bottom-aligned at edge.
type row struct {
	edge   float64
	up     bool
	next   float64 // x of the next item
	height float64
	items  int
}

func (r row) place(size geom.Size) geom.Rect {
	y := r.edge
	if r.up {
		y = r.edge - size.Height
	}
	return geom.Rect{X: r.next, Y: y, Width: size.Width, Height: size.Height}
}

// Rows places rectangles left to right in rows of a fixed width. The first
// row is vertically centered on the center; following rows alternate below
// and above it.
type Rows struct {
	width  float64
	bounds *geom.Size
	center geom.Point
	placed []geom.Rect

	cur    *row
	opened int
	top    float64 // upper edge of the highest row
	bottom float64 // lower edge of the lowest row
}

// NewRows returns a rows layouter with the given row width.
func NewRows(width float64, opts ...RowsOption) (*Rows, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("row width must be positive, got %v", width)
	}
	r := &Rows{width: width}
	for _, opt := range opts {
		opt(r)
	}
	if r.bounds != nil {
		if err := validateSize(*r.bounds); err != nil {
			return nil, fmt.Errorf("bounds: %w", err)
		}
	}
	r.RefreshWith(geom.Point{})
	return r, nil
}

// RefreshWith implements Layouter.
func (l *Rows) RefreshWith(center geom.Point) {
	l.center = center
	l.placed = nil
	l.cur = nil
	l.opened = 0
	l.top, l.bottom = center.Y, center.Y
}

// PutNextRectangle implements Layouter.
func (l *Rows) PutNextRectangle(size geom.Size) (geom.Rect, error) {
	if err := validateSize(size); err != nil {
		return geom.Rect{}, err
	}

	cur, top, bottom, opened := l.cur, l.top, l.bottom, l.opened
	left := l.center.X - l.width/2
	if cur == nil || (cur.items > 0 && cur.next+size.Width > left+l.width) {
		if cur != nil {
			if cur.up {
				top = min(top, cur.edge-cur.height)
			} else {
				bottom = max(bottom, cur.edge+cur.height)
			}
			if opened == 1 {
				top = min(top, cur.edge)
			}
		}
		next := &row{next: left}
		switch {
		case opened == 0:
			next.edge = l.center.Y - size.Height/2
		case opened%2 == 1:
			next.edge = bottom
		default:
			next.edge, next.up = top, true
		}
		cur = next
		opened++
	}

	rect := cur.place(size)
	if l.bounds != nil && !(geom.Rect{Width: l.bounds.Width, Height: l.bounds.Height}).Contains(rect) {
		return geom.Rect{}, fmt.Errorf("%w: %v does not fit inside %v", ErrLayoutExhausted, size, *l.bounds)
	}

	cur.next += size.Width
	cur.height = max(cur.height, size.Height)
	cur.items++
	l.cur, l.top, l.bottom, l.opened = cur, top, bottom, opened
	l.placed = append(l.placed, rect)
	return rect, nil
}

// CurrentPlacements implements Layouter.
func (l *Rows) CurrentPlacements() []geom.Rect {
	return slices.Clone(l.placed)
}

var _ Layouter = (*Rows)(nil)
