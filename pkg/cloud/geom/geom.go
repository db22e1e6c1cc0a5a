// Package geom provides the 2D value types shared by the cloud layout engine:
// points, sizes and axis-aligned rectangles.
//
// All types are immutable values. Coordinates follow image conventions: the
// origin is the top-left corner and Y grows downward.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSize is returned when a size has a negative, NaN or (where a
// positive size is required) zero component.
var ErrInvalidSize = errors.New("invalid size")

// Point is a location in the plane.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// String implements fmt.Stringer.
func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Size is a width/height pair. Valid sizes have both components >= 0.
type Size struct {
	Width, Height float64
}

// NewSize returns a validated Size.
func NewSize(w, h float64) (Size, error) {
	s := Size{Width: w, Height: h}
	if err := s.Validate(); err != nil {
		return Size{}, err
	}
	return s, nil
}

// Validate reports ErrInvalidSize if either component is negative or NaN.
func (s Size) Validate() error {
	if math.IsNaN(s.Width) || math.IsNaN(s.Height) || s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSize, s.Width, s.Height)
	}
	return nil
}

// Positive reports whether both components are strictly positive (and not NaN).
func (s Size) Positive() bool { return s.Width > 0 && s.Height > 0 }

// Area returns Width*Height.
func (s Size) Area() float64 { return s.Width * s.Height }

// Scale returns s with both components multiplied by k.
func (s Size) Scale(k float64) Size { return Size{Width: s.Width * k, Height: s.Height * k} }

// String implements fmt.Stringer.
func (s Size) String() string { return fmt.Sprintf("%gx%g", s.Width, s.Height) }

// Rect is an axis-aligned rectangle anchored at its top-left corner (X, Y).
// It covers the half-open intervals [X, X+Width) and [Y, Y+Height).
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// NewRect returns a rectangle after validating its size.
func NewRect(x, y, w, h float64) (Rect, error) {
	if err := (Size{Width: w, Height: h}).Validate(); err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// Right returns the exclusive right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Center returns (X + Width/2, Y + Height/2).
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether o lies entirely inside r. Shared edges count as inside.
func (r Rect) Contains(o Rect) bool {
	return r.X <= o.X && o.Right() <= r.Right() && r.Y <= o.Y && o.Bottom() <= r.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.X, r.Y, r.Width, r.Height)
}

// Intersects reports whether a and b overlap. Rectangles that only touch
// along an edge or a corner do not intersect.
func Intersects(a, b Rect) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

// CenteredAt returns the rectangle of size s whose center is p.
func CenteredAt(p Point, s Size) Rect {
	return Rect{X: p.X - s.Width/2, Y: p.Y - s.Height/2, Width: s.Width, Height: s.Height}
}

// DistanceToCenter returns the Euclidean distance from the center of r to c.
func DistanceToCenter(r Rect, c Point) float64 {
	return r.Center().Distance(c)
}

// Bounds returns the smallest rectangle containing all rects, and false if
// rects is empty.
func Bounds(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.Right())
		maxY = max(maxY, r.Bottom())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
