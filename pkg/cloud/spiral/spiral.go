// Package spiral generates candidate placement points along an Archimedean
// spiral expanding outward from a center.
//
// Sample i lies at angle i*AngleStep and radius RadiusStep*angle. The first
// sample is the center itself. The sequence is infinite and deterministic;
// the caller bounds how many samples it consumes.
package spiral

import (
	"fmt"
	"iter"
	"math"

	"github.com/matzehuels/tagcloud/pkg/cloud/geom"
)

const (
	// DefaultAngleStep advances the spiral by ~2.9 degrees per sample.
	DefaultAngleStep = 0.05

	// DefaultRadiusStep grows the radius by 0.5 units per radian, i.e.
	// ~3.14 units between successive turns.
	DefaultRadiusStep = 0.5
)

// State is the position of the cursor on the spiral curve.
type State struct {
	Angle  float64
	Radius float64
}

// Archimedean is a restartable cursor over an Archimedean spiral.
// It is not safe for concurrent use.
type Archimedean struct {
	angleStep  float64
	radiusStep float64
	center     geom.Point
	index      int
}

// New returns a spiral with the given steps, centered on the origin.
func New(angleStep, radiusStep float64) (*Archimedean, error) {
	if !(angleStep > 0) || math.IsInf(angleStep, 0) {
		return nil, fmt.Errorf("spiral: angle step must be positive, got %v", angleStep)
	}
	if !(radiusStep > 0) || math.IsInf(radiusStep, 0) {
		return nil, fmt.Errorf("spiral: radius step must be positive, got %v", radiusStep)
	}
	return &Archimedean{angleStep: angleStep, radiusStep: radiusStep}, nil
}

// Default returns a spiral using DefaultAngleStep and DefaultRadiusStep.
func Default() *Archimedean {
	return &Archimedean{angleStep: DefaultAngleStep, radiusStep: DefaultRadiusStep}
}

// AngleStep returns the angle advanced per sample, in radians.
func (s *Archimedean) AngleStep() float64 { return s.angleStep }

// RadiusStep returns the radius growth per radian.
func (s *Archimedean) RadiusStep() float64 { return s.radiusStep }

// Center returns the point the spiral expands from.
func (s *Archimedean) Center() geom.Point { return s.center }

// Reset moves the spiral to center and rewinds the cursor to sample 0.
func (s *Archimedean) Reset(center geom.Point) {
	s.center = center
	s.index = 0
}

// Index returns the index of the next sample Next will yield.
func (s *Archimedean) Index() int { return s.index }

// Seek positions the cursor at sample i. Negative values clamp to 0.
func (s *Archimedean) Seek(i int) {
	s.index = max(i, 0)
}

// State returns the angle and radius of the cursor.
func (s *Archimedean) State() State {
	angle := float64(s.index) * s.angleStep
	return State{Angle: math.Mod(angle, 2*math.Pi), Radius: s.radiusStep * angle}
}

// At returns sample i without moving the cursor.
func (s *Archimedean) At(i int) geom.Point {
	angle := float64(i) * s.angleStep
	radius := s.radiusStep * angle
	return geom.Point{
		X: s.center.X + radius*math.Cos(angle),
		Y: s.center.Y + radius*math.Sin(angle),
	}
}

// Next returns the sample at the cursor and advances it.
func (s *Archimedean) Next() geom.Point {
	p := s.At(s.index)
	s.index++
	return p
}

// Points returns the infinite sequence of samples starting at the cursor.
// Iterating advances the cursor.
func (s *Archimedean) Points() iter.Seq[geom.Point] {
	return func(yield func(geom.Point) bool) {
		for {
			if !yield(s.Next()) {
				return
			}
		}
	}
}

// Take returns the next n samples and advances the cursor past them.
func (s *Archimedean) Take(n int) []geom.Point {
	pts := make([]geom.Point, 0, max(n, 0))
	for range n {
		pts = append(pts, s.Next())
	}
	return pts
}

// SamplesToRadius returns the smallest sample index whose radius is at least r.
// It saturates at math.MaxInt when that index is not representable.
func (s *Archimedean) SamplesToRadius(r float64) int {
	if !(r > 0) {
		return 0
	}
	return saturate(math.Ceil(r / (s.radiusStep * s.angleStep)))
}

// SamplesPerTurn returns the number of samples in one full revolution,
// saturating like SamplesToRadius.
func (s *Archimedean) SamplesPerTurn() int {
	return saturate(math.Ceil(2 * math.Pi / s.angleStep))
}

func saturate(f float64) int {
	if !(f < math.MaxInt) {
		return math.MaxInt
	}
	return int(f)
}
