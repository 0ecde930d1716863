package network

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned by [Build] when an edge references a
	// station index outside the station list.
	ErrIndexOutOfRange = errors.New("station index out of range")

	// ErrDuplicateStation is returned by [Build] when two station records
	// share an ID. The incident-link side table is keyed by ID, so IDs must
	// be unique.
	ErrDuplicateStation = errors.New("duplicate station ID")

	// ErrEmptyStationID is returned by [Build] for a station without an ID.
	ErrEmptyStationID = errors.New("station ID must not be empty")

	// ErrMissingPosition is returned by [Graph.Segments] when a station has
	// no projected position.
	ErrMissingPosition = errors.New("station has no projected position")
)

// Station is an input station record. X and Y are intrinsic layout
// coordinates in arbitrary units. Stations are never modified after [Build].
type Station struct {
	ID   string
	Name string
	X, Y float64
}

// Edge is an input edge record. Source and Target index into the station
// list passed to [Build].
type Edge struct {
	Source int
	Target int
	Line   LineID
}

// Link is a resolved edge between two stations on one line.
type Link struct {
	Index  int // position in the edge list
	Source *Station
	Target *Station
	Line   LineID
}

// Graph is an immutable station graph. It is safe for concurrent readers.
type Graph struct {
	stations []*Station
	byID     map[string]*Station
	links    []*Link
	incident map[string][]*Link
}

// Build resolves edges into links and records each station's incident links
// in edge insertion order. Duplicate edges are kept as separate links.
// Any structural problem aborts the build.
func Build(stations []Station, edges []Edge) (*Graph, error) {
	g := &Graph{
		stations: make([]*Station, len(stations)),
		byID:     make(map[string]*Station, len(stations)),
		links:    make([]*Link, 0, len(edges)),
		incident: make(map[string][]*Link, len(stations)),
	}

	for i := range stations {
		s := stations[i]
		if s.ID == "" {
			return nil, fmt.Errorf("station %d: %w", i, ErrEmptyStationID)
		}
		if _, dup := g.byID[s.ID]; dup {
			return nil, fmt.Errorf("station %d: %w: %q", i, ErrDuplicateStation, s.ID)
		}
		g.stations[i] = &s
		g.byID[s.ID] = &s
		g.incident[s.ID] = nil
	}

	for i, e := range edges {
		if e.Source < 0 || e.Source >= len(stations) {
			return nil, fmt.Errorf("edge %d: source %d of %d stations: %w", i, e.Source, len(stations), ErrIndexOutOfRange)
		}
		if e.Target < 0 || e.Target >= len(stations) {
			return nil, fmt.Errorf("edge %d: target %d of %d stations: %w", i, e.Target, len(stations), ErrIndexOutOfRange)
		}
		l := &Link{
			Index:  i,
			Source: g.stations[e.Source],
			Target: g.stations[e.Target],
			Line:   e.Line,
		}
		g.links = append(g.links, l)
		g.incident[l.Source.ID] = append(g.incident[l.Source.ID], l)
		if l.Target != l.Source {
			g.incident[l.Target.ID] = append(g.incident[l.Target.ID], l)
		}
	}
	return g, nil
}

// Stations returns the stations in input order.
func (g *Graph) Stations() []*Station { return g.stations }

// Links returns the links in edge insertion order.
func (g *Graph) Links() []*Link { return g.links }

// StationCount returns the number of stations.
func (g *Graph) StationCount() int { return len(g.stations) }

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.links) }

// Station looks up a station by ID.
func (g *Graph) Station(id string) (*Station, bool) {
	s, ok := g.byID[id]
	return s, ok
}

// Incident returns the links touching the station, in insertion order.
func (g *Graph) Incident(id string) []*Link { return g.incident[id] }

// Degree returns the number of links touching the station.
func (g *Graph) Degree(id string) int { return len(g.incident[id]) }

// Terminals returns the stations with exactly one incident link, in input
// order. These are where line end dots are drawn.
func (g *Graph) Terminals() []*Station {
	var out []*Station
	for _, s := range g.stations {
		if len(g.incident[s.ID]) == 1 {
			out = append(out, s)
		}
	}
	return out
}

// Other returns the endpoint of l that is not s.
func (l *Link) Other(s *Station) *Station {
	if l.Source == s {
		return l.Target
	}
	return l.Source
}
