package network

import (
	"fmt"
	"strings"

	"github.com/subwayviz/spiderglyph/pkg/geom"
)

// KeySeparator joins the two station IDs of a segment key.
const KeySeparator = "|"

// SegmentKey returns the composite key "from|to" for travel from one station
// to another. Volume, delay and speed maps are keyed this way.
func SegmentKey(from, to string) string {
	return from + KeySeparator + to
}

// SplitKey splits a segment key into its station IDs.
func SplitKey(key string) (from, to string, ok bool) {
	return strings.Cut(key, KeySeparator)
}

// ReverseKey returns the key for travel in the opposite direction.
func ReverseKey(key string) string {
	from, to, ok := SplitKey(key)
	if !ok {
		return key
	}
	return SegmentKey(to, from)
}

// Positions supplies projected station positions for one projection
// generation.
type Positions interface {
	Position(id string) (geom.Point, bool)
	Generation() uint64
}

// Segment is one direction of travel along a link, in projected coordinates.
type Segment struct {
	Link      *Link
	Direction Direction
	From, To  *Station
	Line      geom.Line
	Key       string

	// Outgoing holds one segment per link incident to To, each oriented to
	// leave To. Incoming holds one per link incident to From, each oriented
	// to arrive at From. Both follow incident insertion order and include
	// this segment's own link.
	Outgoing []*Segment
	Incoming []*Segment

	// Generation is the projection generation the line was built from.
	Generation uint64

	reverse *Segment
}

// Reverse returns the segment for the same link travelled the other way.
func (s *Segment) Reverse() *Segment { return s.reverse }

// Name describes the segment as "From to To" using station names.
func (s *Segment) Name() string {
	return s.From.Name + " to " + s.To.Name
}

// Segments builds two directed segments per link, forward then reverse, in
// link order. Every station must have a position in pos.
func (g *Graph) Segments(pos Positions) ([]*Segment, error) {
	points := make(map[string]geom.Point, len(g.stations))
	for _, st := range g.stations {
		p, ok := pos.Position(st.ID)
		if !ok {
			return nil, fmt.Errorf("station %q: %w", st.ID, ErrMissingPosition)
		}
		points[st.ID] = p
	}
	gen := pos.Generation()

	type dirKey struct {
		link *Link
		dir  Direction
	}
	byDir := make(map[dirKey]*Segment, 2*len(g.links))
	out := make([]*Segment, 0, 2*len(g.links))
	for _, l := range g.links {
		fwd := newSegment(l, Forward, points, gen)
		rev := newSegment(l, Reverse, points, gen)
		fwd.reverse, rev.reverse = rev, fwd
		byDir[dirKey{l, Forward}] = fwd
		byDir[dirKey{l, Reverse}] = rev
		out = append(out, fwd, rev)
	}

	leaving := func(st *Station, l *Link) *Segment {
		if l.Source == st {
			return byDir[dirKey{l, Forward}]
		}
		return byDir[dirKey{l, Reverse}]
	}
	arriving := func(st *Station, l *Link) *Segment {
		if l.Target == st {
			return byDir[dirKey{l, Forward}]
		}
		return byDir[dirKey{l, Reverse}]
	}

	for _, s := range out {
		far := g.incident[s.To.ID]
		s.Outgoing = make([]*Segment, len(far))
		for i, l := range far {
			s.Outgoing[i] = leaving(s.To, l)
		}
		near := g.incident[s.From.ID]
		s.Incoming = make([]*Segment, len(near))
		for i, l := range near {
			s.Incoming[i] = arriving(s.From, l)
		}
	}
	return out, nil
}

func newSegment(l *Link, dir Direction, points map[string]geom.Point, gen uint64) *Segment {
	from, to := l.Source, l.Target
	if dir == Reverse {
		from, to = to, from
	}
	return &Segment{
		Link:       l,
		Direction:  dir,
		From:       from,
		To:         to,
		Line:       geom.Line{points[from.ID], points[to.ID]},
		Key:        SegmentKey(from.ID, to.ID),
		Generation: gen,
	}
}
