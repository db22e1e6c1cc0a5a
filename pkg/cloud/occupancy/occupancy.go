// Package occupancy tracks rectangles already placed in a layout session and
// answers overlap queries against them.
//
// Two implementations share identical semantics: [List] scans every recorded
// rectangle, [Grid] buckets rectangles by cell so a query only inspects
// nearby ones. Both use [geom.Intersects] for the final test, so neither
// reports false positives or false negatives.
package occupancy

import "github.com/matzehuels/tagcloud/pkg/cloud/geom"

// Index records occupied rectangles.
type Index interface {
	// Add records r as occupied.
	Add(r geom.Rect)

	// Overlaps reports whether r intersects any recorded rectangle.
	Overlaps(r geom.Rect) bool

	// Len returns the number of recorded rectangles.
	Len() int

	// Reset forgets all recorded rectangles.
	Reset()
}

// List is an Index backed by a slice. Queries are O(n); this is fine for the
// few hundred words a cloud typically holds.
type List struct {
	rects []geom.Rect
}

// NewList returns an empty List.
func NewList() *List { return &List{} }

// Add implements Index.
func (l *List) Add(r geom.Rect) { l.rects = append(l.rects, r) }

// Overlaps implements Index.
func (l *List) Overlaps(r geom.Rect) bool {
	for _, o := range l.rects {
		if geom.Intersects(o, r) {
			return true
		}
	}
	return false
}

// Len implements Index.
func (l *List) Len() int { return len(l.rects) }

// Reset implements Index.
func (l *List) Reset() { l.rects = l.rects[:0] }

var _ Index = (*List)(nil)
