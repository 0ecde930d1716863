package glyph

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/subwayviz/spiderglyph/pkg/geom"
	"github.com/subwayviz/spiderglyph/pkg/network"
)

// Path is a closed polygon outline. The last point repeats the first.
type Path []geom.Point

// SVG encodes the path as SVG path data ("M x,y L x,y ... Z") with
// coordinates rounded to two decimals.
func (p Path) SVG() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, pt := range p {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(formatCoord(pt[0]))
		b.WriteByte(',')
		b.WriteString(formatCoord(pt[1]))
	}
	b.WriteByte('Z')
	return b.String()
}

// Ring returns the path as an orb ring.
func (p Path) Ring() orb.Ring {
	r := make(orb.Ring, len(p))
	copy(r, p)
	return r
}

func formatCoord(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Corners are the two outer corners of a segment polygon and whether each
// was mitered against a neighbour.
type Corners struct {
	Far, Near               geom.Point
	FarMitered, NearMitered bool
}

// Miter resolves the outer corners of s. The far corner is mitered against
// the clockwise neighbour among s.Outgoing and the near corner against the
// counter-clockwise neighbour among s.Incoming, each only when that station
// has more than one incident link. A missing neighbour or a failed
// intersection keeps the unmitered offset point.
func Miter(s *network.Segment, vols Volumes, ws WidthScale) Corners {
	edge := Offsets(s, vols, ws)
	c := Corners{Near: edge[0], Far: edge[1]}

	if len(s.Outgoing) > 1 {
		if n := ClosestClockwise(s, s.Outgoing); n != nil {
			if p, ok := geom.Intersect(edge, Offsets(n, vols, ws)); ok {
				c.Far, c.FarMitered = p, true
			}
		}
	}
	if len(s.Incoming) > 1 {
		if n := ClosestCounterClockwise(s, s.Incoming); n != nil {
			if p, ok := geom.Intersect(edge, Offsets(n, vols, ws)); ok {
				c.Near, c.NearMitered = p, true
			}
		}
	}
	return c
}

// Polygon returns the closed outline of s: near endpoint, far endpoint, far
// corner, near corner and back to the near endpoint.
func Polygon(s *network.Segment, vols Volumes, ws WidthScale) Path {
	c := Miter(s, vols, ws)
	return Path{s.Line[0], s.Line[1], c.Far, c.Near, s.Line[0]}
}
