package glyph

import (
	"math"

	"github.com/subwayviz/spiderglyph/pkg/geom"
	"github.com/subwayviz/spiderglyph/pkg/network"
)

// Offsets returns the offset edge of s: its near and far endpoints displaced
// by the half-width at each end, along the heading rotated by +π/2. The
// result, read as a line, runs parallel to s in the same direction.
func Offsets(s *network.Segment, vols Volumes, ws WidthScale) geom.Line {
	nearVol, farVol := vols.Endpoints(s)
	perp := geom.Angle(s.Line) + math.Pi/2
	return geom.Line{
		geom.Offset(s.Line[0], ws.HalfWidth(nearVol), perp),
		geom.Offset(s.Line[1], ws.HalfWidth(farVol), perp),
	}
}

// Band is the full four-corner outline of a link at the widths of one
// snapshot. Index 0 of each pair lies on the offset side of the segment it
// was built from and index 1 on the offset side of its reverse.
type Band struct {
	Near [2]geom.Point
	Far  [2]geom.Point
}

// BandOf combines the offset edges of s and of its geometric reverse.
func BandOf(s *network.Segment, vols Volumes, ws WidthScale) Band {
	fwd := Offsets(s, vols, ws)
	rev := Offsets(s.Reverse(), vols, ws)
	return Band{
		Near: [2]geom.Point{fwd[0], rev[1]},
		Far:  [2]geom.Point{fwd[1], rev[0]},
	}
}

// Width returns the full width of the band at the near and far end.
func (b Band) Width() (near, far float64) {
	return dist(b.Near[0], b.Near[1]), dist(b.Far[0], b.Far[1])
}

func dist(a, b geom.Point) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}
