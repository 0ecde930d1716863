package glyph

import (
	"math"
	"testing"

	"github.com/subwayviz/spiderglyph/pkg/geom"
	"github.com/subwayviz/spiderglyph/pkg/network"
)

const eps = 1e-9

// rawPositions projects every station at its intrinsic coordinates.
type rawPositions struct {
	g   *network.Graph
	gen uint64
}

func (r rawPositions) Position(id string) (geom.Point, bool) {
	s, ok := r.g.Station(id)
	if !ok {
		return geom.Point{}, false
	}
	return geom.Point{s.X, s.Y}, true
}

func (r rawPositions) Generation() uint64 { return r.gen }

// build returns the directed segments of the graph keyed by segment key.
func build(t *testing.T, stations []network.Station, edges []network.Edge) map[string]*network.Segment {
	t.Helper()
	g, err := network.Build(stations, edges)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	segs, err := g.Segments(rawPositions{g: g})
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	out := make(map[string]*network.Segment, len(segs))
	for _, s := range segs {
		if _, dup := out[s.Key]; !dup {
			out[s.Key] = s
		}
	}
	return out
}

func st(id string, x, y float64) network.Station {
	return network.Station{ID: id, Name: id, X: x, Y: y}
}

func red(source, target int) network.Edge {
	return network.Edge{Source: source, Target: target, Line: network.LineRed}
}

func constWidth(w float64) WidthScale {
	return ScaleFunc(func(float64) float64 { return w })
}

func samePoint(a, b geom.Point) bool {
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps
}

func keyOf(s *network.Segment) string {
	if s == nil {
		return "<nil>"
	}
	return s.Key
}
