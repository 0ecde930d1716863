package projection

import (
	"errors"
	"fmt"
	"sync"

	"github.com/paulmach/orb"

	"github.com/subwayviz/spiderglyph/pkg/geom"
	"github.com/subwayviz/spiderglyph/pkg/network"
)

// ErrInvalidSize is returned when the drawing area left after margins is
// empty.
var ErrInvalidSize = errors.New("drawing area must have positive inner width and height")

// Margin is the space reserved around the drawing area.
type Margin struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// Projector describes the outer drawing area.
type Projector struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Margin Margin  `json:"margin" toml:"margin"`
}

// Default glyph frame: 300×300 with room below for the time caption.
const (
	DefaultWidth  = 300.0
	DefaultHeight = 300.0
)

// DefaultMargin is the margin used by DefaultProjector.
var DefaultMargin = Margin{Top: 20, Right: 20, Bottom: 25, Left: 20}

// DefaultProjector returns the standard glyph frame.
func DefaultProjector() Projector {
	return Projector{Width: DefaultWidth, Height: DefaultHeight, Margin: DefaultMargin}
}

// Inner returns the width and height left after margins.
func (p Projector) Inner() (w, h float64) {
	return p.Width - p.Margin.Left - p.Margin.Right, p.Height - p.Margin.Top - p.Margin.Bottom
}

// Validate reports whether the inner area is usable.
func (p Projector) Validate() error {
	w, h := p.Inner()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSize, w, h)
	}
	return nil
}

// Scale returns the uniform scale that fits b into the inner area. An axis
// with zero span does not constrain the scale; if neither axis has any span
// the scale is 1.
func (p Projector) Scale(b orb.Bound) float64 {
	w, h := p.Inner()
	xSpan, ySpan := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	switch {
	case xSpan > 0 && ySpan > 0:
		return min(w/xSpan, h/ySpan)
	case xSpan > 0:
		return w / xSpan
	case ySpan > 0:
		return h / ySpan
	default:
		return 1
	}
}

// Layout holds projected station positions for one generation. It is
// immutable and implements network.Positions.
type Layout struct {
	projector  Projector
	bound      orb.Bound
	scale      float64
	generation uint64
	pos        map[string]geom.Point
}

// Project computes a layout for every station in g.
func Project(g *network.Graph, p Projector, generation uint64) (*Layout, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	raw := make([]geom.Point, 0, g.StationCount())
	for _, s := range g.Stations() {
		raw = append(raw, geom.Point{s.X, s.Y})
	}
	b := geom.Bound(raw)
	scale := p.Scale(b)

	pos := make(map[string]geom.Point, len(raw))
	for i, s := range g.Stations() {
		pos[s.ID] = geom.Point{raw[i][0] * scale, raw[i][1] * scale}
	}
	return &Layout{
		projector:  p,
		bound:      b,
		scale:      scale,
		generation: generation,
		pos:        pos,
	}, nil
}

// Position returns the projected position of a station.
func (l *Layout) Position(id string) (geom.Point, bool) {
	p, ok := l.pos[id]
	return p, ok
}

// Generation returns the layout's generation number.
func (l *Layout) Generation() uint64 { return l.generation }

// Scale returns the uniform scale factor.
func (l *Layout) Scale() float64 { return l.scale }

// Projector returns the drawing area the layout was computed for.
func (l *Layout) Projector() Projector { return l.projector }

// Bound returns the bounding box of the raw station coordinates.
func (l *Layout) Bound() orb.Bound { return l.bound }

// Len returns the number of projected stations.
func (l *Layout) Len() int { return len(l.pos) }

// Projection owns the current layout of a graph. It is safe for concurrent
// use.
type Projection struct {
	mu    sync.RWMutex
	graph *network.Graph
	cur   *Layout
}

// New projects g into p and returns the owning Projection at generation 1.
func New(g *network.Graph, p Projector) (*Projection, error) {
	l, err := Project(g, p, 1)
	if err != nil {
		return nil, err
	}
	return &Projection{graph: g, cur: l}, nil
}

// Current returns the current layout.
func (p *Projection) Current() *Layout {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur
}

// IsCurrent reports whether generation is the current one.
func (p *Projection) IsCurrent(generation uint64) bool {
	return p.Current().generation == generation
}

// Resize reprojects every station when the outer size changes. It reports
// whether a new layout was installed; an unchanged size keeps the current
// layout and generation.
func (p *Projection) Resize(width, height float64) (*Layout, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur.projector.Width == width && p.cur.projector.Height == height {
		return p.cur, false, nil
	}
	next := p.cur.projector
	next.Width, next.Height = width, height
	l, err := Project(p.graph, next, p.cur.generation+1)
	if err != nil {
		return p.cur, false, err
	}
	p.cur = l
	return l, true, nil
}

// Reapply reprojects at the current size under a new generation.
func (p *Projection) Reapply() *Layout {
	p.mu.Lock()
	defer p.mu.Unlock()
	// The projector already validated, so Project cannot fail here.
	l, _ := Project(p.graph, p.cur.projector, p.cur.generation+1)
	p.cur = l
	return l
}

var _ network.Positions = (*Layout)(nil)
