// Package layout places word rectangles for a tag cloud.
//
// # Overview
//
// A [Layouter] receives rectangle sizes one at a time, largest first, and
// returns a position for each so that no two placed rectangles overlap. Each
// placement depends only on the placements accepted before it; earlier
// rectangles are never moved.
//
// A layout session starts with [Layouter.RefreshWith], which fixes the cloud
// center and forgets all previous placements:
//
//	l, _ := layout.NewCircular(layout.WithCompaction(1))
//	l.RefreshWith(geom.Pt(400, 300))
//	for _, s := range sizes {
//	    r, err := l.PutNextRectangle(s)
//	    if err != nil {
//	        return err
//	    }
//	    draw(r)
//	}
//
// # Strategies
//
//   - [Circular]: walks an Archimedean spiral outward from the center and
//     takes the first free spot. The spiral cursor persists across calls so
//     later, smaller words resume where the previous word was placed instead
//     of rescanning the dense inner rings. An optional compaction pass slides
//     each accepted rectangle straight toward the center while it stays free.
//   - [Rows]: a shelf layout that fills fixed-width rows alternating below
//     and above the center row.
//
// # Errors
//
// Sizes with a non-positive, negative or NaN component fail with
// [geom.ErrInvalidSize]. When the bounded walk finds no free spot the call
// fails with [ErrLayoutExhausted]. Failed calls leave the session unchanged.
//
// # Concurrency
//
// Layouters are single-owner and perform no locking. Wrap one with
// [Synchronize] if it must be shared between goroutines.
package layout
