package occupancy

import (
	"math"

	"github.com/matzehuels/tagcloud/pkg/cloud/geom"
)

// DefaultCellSize is the grid cell edge length used when none is given.
const DefaultCellSize = 32.0

// MinCellSize is the smallest cell size hosts should accept from settings.
const MinCellSize = 1.0

// MaxCellsPerRect bounds the cells a single rectangle is registered in.
// Larger rectangles, and rectangles whose cell range cannot be represented,
// live in an overflow list that every query scans.
const MaxCellsPerRect = 256

// maxCellCoord keeps cell coordinates exactly representable and far from
// int overflow.
const maxCellCoord = 1 << 52

type cell struct{ x, y int }

// Grid is an Index backed by a uniform spatial hash. Each rectangle is
// registered in every cell its bounding box touches; a query collects the
// candidates from the cells the query rectangle touches and tests them
// exactly.
type Grid struct {
	size  float64
	rects []geom.Rect
	cells map[cell][]int
	large []int    // rects spanning more than MaxCellsPerRect cells
	seen  []uint32 // per-rect query stamp, avoids testing a rect twice
	stamp uint32
}

// NewGrid returns a Grid with the given cell size. Non-positive or NaN sizes
// fall back to DefaultCellSize.
func NewGrid(cellSize float64) *Grid {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	return &Grid{size: cellSize, cells: make(map[cell][]int)}
}

// CellSize returns the grid's cell edge length.
func (g *Grid) CellSize() float64 { return g.size }

// span returns the inclusive cell range covered by r. The range is widened
// by the closing edge so that rects ending exactly on a cell boundary are
// registered in the next cell too; the exact test filters the extras out.
// ok is false when the range is too large to enumerate.
func (g *Grid) span(r geom.Rect) (x0, y0, x1, y1 int, ok bool) {
	fx0 := math.Floor(r.X / g.size)
	fy0 := math.Floor(r.Y / g.size)
	fx1 := math.Floor(r.Right() / g.size)
	fy1 := math.Floor(r.Bottom() / g.size)
	for _, f := range [...]float64{fx0, fy0, fx1, fy1} {
		if !(math.Abs(f) < maxCellCoord) {
			return 0, 0, 0, 0, false
		}
	}
	if fx1 < fx0 || fy1 < fy0 || (fx1-fx0+1)*(fy1-fy0+1) > MaxCellsPerRect {
		return 0, 0, 0, 0, false
	}
	return int(fx0), int(fy0), int(fx1), int(fy1), true
}

// Add implements Index.
func (g *Grid) Add(r geom.Rect) {
	id := len(g.rects)
	g.rects = append(g.rects, r)
	g.seen = append(g.seen, 0)
	x0, y0, x1, y1, ok := g.span(r)
	if !ok {
		g.large = append(g.large, id)
		return
	}
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			k := cell{x, y}
			g.cells[k] = append(g.cells[k], id)
		}
	}
}

// Overlaps implements Index.
func (g *Grid) Overlaps(r geom.Rect) bool {
	if len(g.rects) == 0 {
		return false
	}
	x0, y0, x1, y1, ok := g.span(r)
	if !ok {
		for _, placed := range g.rects {
			if geom.Intersects(placed, r) {
				return true
			}
		}
		return false
	}
	for _, id := range g.large {
		if geom.Intersects(g.rects[id], r) {
			return true
		}
	}
	g.stamp++
	if g.stamp == 0 {
		clear(g.seen)
		g.stamp = 1
	}
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for _, id := range g.cells[cell{x, y}] {
				if g.seen[id] == g.stamp {
					continue
				}
				g.seen[id] = g.stamp
				if geom.Intersects(g.rects[id], r) {
					return true
				}
			}
		}
	}
	return false
}

// Len implements Index.
func (g *Grid) Len() int { return len(g.rects) }

// Reset implements Index.
func (g *Grid) Reset() {
	g.rects = g.rects[:0]
	g.large = g.large[:0]
	g.seen = g.seen[:0]
	g.stamp = 0
	clear(g.cells)
}

var _ Index = (*Grid)(nil)
