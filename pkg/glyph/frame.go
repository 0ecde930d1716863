package glyph

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/subwayviz/spiderglyph/pkg/geom"
	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/projection"
)

// ErrStaleProjection is returned when segment geometry was built from a
// different projection generation than the layout it is drawn with.
var ErrStaleProjection = errors.New("segment built from a stale projection")

// EndDotRatio sizes line end dots relative to the projection scale.
const EndDotRatio = 0.3

// Interaction is the explicit state of one view: the hovered segment and the
// selected day and time of day.
type Interaction struct {
	Hovered string        `json:"hovered,omitempty"`
	Day     int           `json:"day"`
	Time    time.Duration `json:"time"`
}

// Caption formats the selected time the way the glyph labels it, for
// example "5:30 pm on Mon Feb 3". Day 0 is Sunday.
func (in Interaction) Caption() string {
	t := time.Date(2014, time.February, 2, 0, 0, 0, 0, time.UTC).Add(in.Time)
	day := ((in.Day % 7) + 7) % 7
	date := 9
	if day != 0 {
		date = day + 2
	}
	weekday := time.Weekday(day).String()[:3]
	return fmt.Sprintf("%s on %s Feb %d", t.Format("3:04 pm"), weekday, date)
}

// Input is everything that changes between frames of one layout.
type Input struct {
	Volumes     Volumes
	Speeds      map[string]float64
	Interaction Interaction
}

// SegmentGlyph is the drawable result for one directed segment.
type SegmentGlyph struct {
	Key     string           `json:"key"`
	Name    string           `json:"name"`
	Line    network.LineID   `json:"line"`
	Fill    string           `json:"fill"`
	Speed   *float64         `json:"speed,omitempty"`
	Hovered bool             `json:"hovered,omitempty"`
	Path    Path             `json:"path"`
	Corners Corners          `json:"-"`
	Segment *network.Segment `json:"-"`
}

// EndDot marks the terminal station of a line.
type EndDot struct {
	Station string     `json:"station"`
	Center  geom.Point `json:"center"`
	Radius  float64    `json:"radius"`
	Color   string     `json:"color"`
}

// Frame is one rendered state of the glyph.
type Frame struct {
	Generation  uint64               `json:"generation"`
	Scale       float64              `json:"scale"`
	Projector   projection.Projector `json:"projector"`
	Interaction Interaction          `json:"interaction"`
	Segments    []SegmentGlyph       `json:"segments"`
	EndDots     []EndDot             `json:"end_dots"`
}

// Segment returns the glyph for key.
func (f *Frame) Segment(key string) (SegmentGlyph, bool) {
	for _, s := range f.Segments {
		if s.Key == key {
			return s, true
		}
	}
	return SegmentGlyph{}, false
}

// Compose builds a frame from segments that must all belong to layout's
// generation. A nil ws uses DefaultWidthScale for the layout's scale.
func Compose(g *network.Graph, layout *projection.Layout, segs []*network.Segment, ws WidthScale, in Input) (*Frame, error) {
	if ws == nil {
		ws = DefaultWidthScale(layout.Scale())
	}
	for _, s := range segs {
		if s.Generation != layout.Generation() {
			return nil, fmt.Errorf("segment %s: generation %d, layout %d: %w",
				s.Key, s.Generation, layout.Generation(), ErrStaleProjection)
		}
	}

	f := &Frame{
		Generation:  layout.Generation(),
		Scale:       layout.Scale(),
		Projector:   layout.Projector(),
		Interaction: in.Interaction,
		Segments:    make([]SegmentGlyph, 0, len(segs)),
	}
	for _, s := range segs {
		c := Miter(s, in.Volumes, ws)
		sg := SegmentGlyph{
			Key:     s.Key,
			Name:    s.Name(),
			Line:    s.Link.Line,
			Fill:    SegmentColor(in.Speeds, s.Key),
			Hovered: s.Key == in.Interaction.Hovered,
			Path:    Path{s.Line[0], s.Line[1], c.Far, c.Near, s.Line[0]},
			Corners: c,
			Segment: s,
		}
		if v, ok := in.Speeds[s.Key]; ok {
			sg.Speed = &v
		}
		f.Segments = append(f.Segments, sg)
	}
	f.EndDots = EndDots(g, layout)
	return f, nil
}

// EndDots returns a dot for every terminal station, colored by its line.
func EndDots(g *network.Graph, layout *projection.Layout) []EndDot {
	var dots []EndDot
	r := EndDotRatio * layout.Scale()
	for _, st := range g.Terminals() {
		p, ok := layout.Position(st.ID)
		if !ok {
			continue
		}
		dots = append(dots, EndDot{
			Station: st.ID,
			Center:  p,
			Radius:  r,
			Color:   g.Incident(st.ID)[0].Line.Color(),
		})
	}
	return dots
}

// Builder produces frames for one graph and its projection. Segments are
// rebuilt once per projection generation; everything else is recomputed on
// every call. A Builder is safe for concurrent use.
type Builder struct {
	graph *network.Graph
	proj  *projection.Projection
	width func(scale float64) WidthScale

	mu     sync.Mutex
	layout *projection.Layout
	segs   []*network.Segment
}

// NewBuilder returns a builder. A nil width uses DefaultWidthScale.
func NewBuilder(g *network.Graph, p *projection.Projection, width func(scale float64) WidthScale) *Builder {
	if width == nil {
		width = func(scale float64) WidthScale { return DefaultWidthScale(scale) }
	}
	return &Builder{graph: g, proj: p, width: width}
}

// Graph returns the builder's graph.
func (b *Builder) Graph() *network.Graph { return b.graph }

// Projection returns the builder's projection.
func (b *Builder) Projection() *projection.Projection { return b.proj }

// Segments returns the directed segments for the current layout.
func (b *Builder) Segments() (*projection.Layout, []*network.Segment, error) {
	layout := b.proj.Current()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.layout != nil && b.layout.Generation() == layout.Generation() {
		return b.layout, b.segs, nil
	}
	segs, err := b.graph.Segments(layout)
	if err != nil {
		return nil, nil, err
	}
	b.layout, b.segs = layout, segs
	return layout, segs, nil
}

// Frame computes every segment polygon for the current layout.
func (b *Builder) Frame(in Input) (*Frame, error) {
	layout, segs, err := b.Segments()
	if err != nil {
		return nil, err
	}
	return Compose(b.graph, layout, segs, b.width(layout.Scale()), in)
}
