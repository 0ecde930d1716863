package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/snapshot"
)

// ErrMissingLayout is returned when a station has no spider coordinates.
var ErrMissingLayout = errors.New("station missing from spider layout")

type stationNetwork struct {
	Nodes []node `json:"nodes"`
	Links []link `json:"links"`
}

type node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type link struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Line   string `json:"line"`
}

// ReadNetwork decodes a station network and its spider layout and builds the
// graph. Stations keep the node order of the network file and links keep
// their order, which fixes the incident order of every station.
func ReadNetwork(net, spider io.Reader) (*network.Graph, error) {
	var data stationNetwork
	if err := json.NewDecoder(net).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}
	var layout map[string][]float64
	if err := json.NewDecoder(spider).Decode(&layout); err != nil {
		return nil, fmt.Errorf("decode spider: %w", err)
	}

	stations := make([]network.Station, len(data.Nodes))
	for i, n := range data.Nodes {
		xy, ok := layout[n.ID]
		if !ok {
			return nil, fmt.Errorf("node %s: %w", n.ID, ErrMissingLayout)
		}
		if len(xy) != 2 {
			return nil, fmt.Errorf("node %s: spider coordinates have %d values, want 2", n.ID, len(xy))
		}
		stations[i] = network.Station{ID: n.ID, Name: n.Name, X: xy[0], Y: xy[1]}
	}

	edges := make([]network.Edge, len(data.Links))
	for i, l := range data.Links {
		line, err := network.ParseLine(l.Line)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
		edges[i] = network.Edge{Source: l.Source, Target: l.Target, Line: line}
	}

	g, err := network.Build(stations, edges)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	return g, nil
}

// ImportNetwork reads the network and spider files at the given paths.
func ImportNetwork(networkPath, spiderPath string) (*network.Graph, error) {
	nf, err := os.Open(networkPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", networkPath, err)
	}
	defer nf.Close()
	sf, err := os.Open(spiderPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", spiderPath, err)
	}
	defer sf.Close()
	return ReadNetwork(nf, sf)
}

// ReadSamples decodes an array of samples.
func ReadSamples(r io.Reader) ([]snapshot.Sample, error) {
	var out []snapshot.Sample
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	return out, nil
}

// ImportSamples reads the samples file at path.
func ImportSamples(path string) ([]snapshot.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSamples(f)
}

// ReadMedians decodes median transit times keyed by segment key.
func ReadMedians(r io.Reader) (snapshot.Medians, error) {
	var out snapshot.Medians
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode medians: %w", err)
	}
	return out, nil
}

// ImportMedians reads the medians file at path.
func ImportMedians(path string) (snapshot.Medians, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadMedians(f)
}
