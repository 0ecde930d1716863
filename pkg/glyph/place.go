package glyph

import (
	"math"

	"github.com/subwayviz/spiderglyph/pkg/geom"
)

// PlaceWithOffset returns the centre of a marker a fraction ratio of the way
// from one station to the next, pushed radius to the right of the direction
// of travel so trains running opposite ways do not overlap.
func PlaceWithOffset(from, to geom.Point, ratio, radius float64) geom.Point {
	mid := geom.Lerp(from, to, ratio)
	perp := geom.Angle(geom.Line{from, to}) + math.Pi/2
	return geom.Offset(mid, radius, perp)
}
