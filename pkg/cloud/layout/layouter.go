package layout

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/matzehuels/tagcloud/pkg/cloud/geom"
)

// ErrLayoutExhausted is returned when no free position was found within the
// layouter's search bound.
var ErrLayoutExhausted = errors.New("layout exhausted")

// ErrInvalidSize aliases geom.ErrInvalidSize so callers can match both
// failure kinds from this package.
var ErrInvalidSize = geom.ErrInvalidSize

// Algorithm names accepted by [New].
const (
	AlgorithmSpiral = "spiral"
	AlgorithmRows   = "rows"
)

// Layouter places rectangles around a center without overlap.
type Layouter interface {
	// RefreshWith starts a new session centered on center, discarding all
	// previous placements.
	RefreshWith(center geom.Point)

	// PutNextRectangle places a rectangle of the given size and returns it.
	PutNextRectangle(size geom.Size) (geom.Rect, error)

	// CurrentPlacements returns the accepted rectangles in placement order.
	// The returned slice is a copy.
	CurrentPlacements() []geom.Rect
}

// New builds a layouter by algorithm name. Options are applied to the spiral
// layouter; the rows layouter uses the canvas (if any) from opts as its
// bounds and rowWidth as its row width.
func New(algorithm string, rowWidth float64, opts ...Option) (Layouter, error) {
	switch algorithm {
	case AlgorithmSpiral, "":
		return NewCircular(opts...)
	case AlgorithmRows:
		cfg := buildConfig(opts)
		var rowOpts []RowsOption
		if cfg.canvas != nil {
			rowOpts = append(rowOpts, WithRowsBounds(*cfg.canvas))
		}
		return NewRows(rowWidth, rowOpts...)
	default:
		return nil, fmt.Errorf("unknown layout algorithm: %q (must be one of: spiral, rows)", algorithm)
	}
}

// validateSize rejects sizes that cannot be placed.
func validateSize(size geom.Size) error {
	if err := size.Validate(); err != nil {
		return err
	}
	if !size.Positive() || math.IsInf(size.Width, 0) || math.IsInf(size.Height, 0) {
		return fmt.Errorf("%w: %v must have positive width and height", geom.ErrInvalidSize, size)
	}
	return nil
}

// Synchronized serializes access to a Layouter.
type Synchronized struct {
	mu sync.Mutex
	l  Layouter
}

// Synchronize wraps l so that its methods may be called from several
// goroutines. Calls are still applied one at a time, in lock order.
func Synchronize(l Layouter) *Synchronized {
	return &Synchronized{l: l}
}

// RefreshWith implements Layouter.
func (s *Synchronized) RefreshWith(center geom.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.l.RefreshWith(center)
}

// PutNextRectangle implements Layouter.
func (s *Synchronized) PutNextRectangle(size geom.Size) (geom.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.l.PutNextRectangle(size)
}

// CurrentPlacements implements Layouter.
func (s *Synchronized) CurrentPlacements() []geom.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.l.CurrentPlacements())
}

var _ Layouter = (*Synchronized)(nil)
