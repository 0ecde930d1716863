package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a screen-space coordinate.
type Point = orb.Point

// SlopeTolerance is the smallest slope difference at which two lines are
// still intersected. Closer slopes are treated as parallel.
const SlopeTolerance = 0.01

// Line is a directed two-point line running from Line[0] to Line[1].
type Line [2]Point

// Reverse returns the line travelled in the opposite direction.
func (l Line) Reverse() Line {
	return Line{l[1], l[0]}
}

// Equal reports whether both lines have identical endpoints in the same order.
func (l Line) Equal(o Line) bool {
	return l[0].Equal(o[0]) && l[1].Equal(o[1])
}

// Angle returns the heading of l, atan2(dy, dx).
func Angle(l Line) float64 {
	return math.Atan2(l[1][1]-l[0][1], l[1][0]-l[0][0])
}

// Normalize wraps a into (−π, π]. Non-finite input yields NaN.
func Normalize(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return math.NaN()
	}
	a = math.Mod(a, 2*math.Pi)
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Slope returns dy/dx of l. Vertical lines give ±Inf and zero-length lines NaN.
func Slope(l Line) float64 {
	return (l[1][1] - l[0][1]) / (l[1][0] - l[0][0])
}

// Intercept returns b in y = m·x + b, taken through the second point of l.
func Intercept(l Line) float64 {
	return l[1][1] - Slope(l)*l[1][0]
}

// Intersect returns the crossing point of the infinite extensions of l1 and
// l2. It reports false when both are vertical, when their slopes differ by
// less than SlopeTolerance, or when either line is degenerate.
func Intersect(l1, l2 Line) (Point, bool) {
	m1, m2 := Slope(l1), Slope(l2)
	if math.IsNaN(m1) || math.IsNaN(m2) {
		return Point{}, false
	}
	inf1, inf2 := math.IsInf(m1, 0), math.IsInf(m2, 0)

	var x, y float64
	switch {
	case inf1 && inf2:
		return Point{}, false
	case inf1:
		x = l1[0][0]
		y = m2*x + Intercept(l2)
	case inf2:
		x = l2[0][0]
		y = m1*x + Intercept(l1)
	case math.Abs(m2-m1) < SlopeTolerance:
		return Point{}, false
	default:
		b1, b2 := Intercept(l1), Intercept(l2)
		x = (b2 - b1) / (m1 - m2)
		y = m1*x + b1
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(y, 0) {
		return Point{}, false
	}
	return Point{x, y}, true
}

// Offset displaces p by dist along the heading angle.
func Offset(p Point, dist, angle float64) Point {
	return Point{p[0] + dist*math.Cos(angle), p[1] + dist*math.Sin(angle)}
}

// Lerp returns the point a fraction t of the way from a to b.
func Lerp(a, b Point, t float64) Point {
	return Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

// Bound returns the bounding box of pts.
func Bound(pts []Point) orb.Bound {
	return orb.MultiPoint(pts).Bound()
}
