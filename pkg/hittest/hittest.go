package hittest

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"

	"github.com/subwayviz/spiderglyph/pkg/geom"
	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/projection"
)

type entry struct {
	key  string
	ring orb.Ring
	area float64
}

// Index answers point queries against one frame. It is immutable after New
// and safe for concurrent use.
type Index struct {
	tree       rtree.RTreeG[int]
	entries    []entry
	margin     projection.Margin
	generation uint64
}

// New indexes the segment polygons of f. Polygons with no area are skipped.
func New(f *glyph.Frame) *Index {
	ix := &Index{margin: f.Projector.Margin, generation: f.Generation}
	for _, sg := range f.Segments {
		ring := sg.Path.Ring()
		area := math.Abs(planar.Area(ring))
		if area == 0 || math.IsNaN(area) {
			continue
		}
		b := ring.Bound()
		ix.tree.Insert([2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]}, len(ix.entries))
		ix.entries = append(ix.entries, entry{key: sg.Key, ring: ring, area: area})
	}
	return ix
}

// At returns the key of the smallest segment polygon containing p, given in
// projected coordinates.
func (ix *Index) At(p geom.Point) (string, bool) {
	best := -1
	pt := [2]float64{p[0], p[1]}
	ix.tree.Search(pt, pt, func(_, _ [2]float64, i int) bool {
		e := ix.entries[i]
		if !planar.RingContains(e.ring, p) {
			return true
		}
		if best < 0 || e.area < ix.entries[best].area ||
			(e.area == ix.entries[best].area && i < best) {
			best = i
		}
		return true
	})
	if best < 0 {
		return "", false
	}
	return ix.entries[best].key, true
}

// AtCanvas is At for canvas coordinates, which include the frame margins.
func (ix *Index) AtCanvas(x, y float64) (string, bool) {
	return ix.At(geom.Point{x - ix.margin.Left, y - ix.margin.Top})
}

// Len returns the number of indexed polygons.
func (ix *Index) Len() int { return len(ix.entries) }

// Generation returns the projection generation of the indexed frame.
func (ix *Index) Generation() uint64 { return ix.generation }
