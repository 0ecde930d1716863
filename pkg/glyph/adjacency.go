package glyph

import (
	"math"

	"github.com/subwayviz/spiderglyph/pkg/geom"
	"github.com/subwayviz/spiderglyph/pkg/network"
)

// ParallelTolerance is how close, in radians, an incoming candidate may come
// to parallel or anti-parallel before it is skipped as a miter partner.
const ParallelTolerance = 0.2

// ClosestClockwise returns the candidate that needs the smallest clockwise
// turn, measured from the candidate's reversed heading back onto s. It is
// used to miter the far end of s against the segments leaving its far
// station. Candidates with the same line as s are skipped, a candidate
// heading straight back along s sorts last, and ties keep the earliest
// candidate. It returns nil when nothing qualifies.
func ClosestClockwise(s *network.Segment, candidates []*network.Segment) *network.Segment {
	heading := geom.Angle(s.Line)
	var best *network.Segment
	bestDiff := math.Inf(1)
	for _, c := range candidates {
		if c.Line.Equal(s.Line) {
			continue
		}
		diff := math.Pi
		if !c.Line.Equal(s.Line.Reverse()) {
			// The turn is measured against a normalize shifted by π, which
			// is what the +π term carries. The unshifted -Normalize(back -
			// heading) picks the neighbor on the wrong side of s.
			back := geom.Angle(c.Line) + math.Pi
			diff = geom.Normalize(heading - back + math.Pi)
		}
		if diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	return best
}

// ClosestCounterClockwise returns the candidate that needs the smallest
// counter-clockwise turn onto s, measured as normalize(heading(s) −
// heading(candidate) − π). It is used to miter the near end of s against the
// segments arriving at its near station.
// Candidates within ParallelTolerance of parallel or anti-parallel to s are
// skipped, as are candidates with the same line as s. Ties keep the earliest
// candidate. It returns nil when nothing qualifies.
func ClosestCounterClockwise(s *network.Segment, candidates []*network.Segment) *network.Segment {
	heading := geom.Angle(s.Line)
	var best *network.Segment
	bestDiff := math.Inf(1)
	for _, c := range candidates {
		if c.Line.Equal(s.Line) {
			continue
		}
		// Same π-shifted normalize as ClosestClockwise. The unshifted
		// form picks the neighbor on the opposite side and breaks the
		// shared corners at junctions.
		diff := geom.Normalize(heading - geom.Angle(c.Line) - math.Pi)
		abs := math.Abs(diff)
		if abs < ParallelTolerance || math.Abs(abs-math.Pi) < ParallelTolerance {
			continue
		}
		if diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	return best
}
