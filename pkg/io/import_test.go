package io

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/subwayviz/spiderglyph/pkg/network"
)

const netJSON = `{
  "nodes": [{"id": "a", "name": "Alpha"}, {"id": "b", "name": "Bravo"}],
  "links": [{"source": 0, "target": 1, "line": "Orange"}]
}`

func TestReadNetwork(t *testing.T) {
	g, err := ReadNetwork(strings.NewReader(netJSON), strings.NewReader(`{"a": [0, 1], "b": [2, 3]}`))
	if err != nil {
		t.Fatalf("ReadNetwork: %v", err)
	}
	if g.StationCount() != 2 || g.LinkCount() != 1 {
		t.Fatalf("got %d stations, %d links", g.StationCount(), g.LinkCount())
	}
	b, ok := g.Station("b")
	if !ok || b.Name != "Bravo" || b.X != 2 || b.Y != 3 {
		t.Errorf("Station(b) = %+v, %v", b, ok)
	}
	if l := g.Links()[0]; l.Line != network.LineOrange || l.Source.ID != "a" {
		t.Errorf("link = %v %s", l.Line, l.Source.ID)
	}
}

func TestReadNetworkErrors(t *testing.T) {
	tests := []struct {
		name    string
		net     string
		spider  string
		wantErr error
	}{
		{"missing layout", netJSON, `{"a": [0, 0]}`, ErrMissingLayout},
		{"unknown line", `{"nodes": [{"id": "a"}], "links": [{"source": 0, "target": 0, "line": "purple"}]}`, `{"a": [0, 0]}`, network.ErrUnknownLine},
		{"index out of range", `{"nodes": [{"id": "a"}], "links": [{"source": 0, "target": 3, "line": "red"}]}`, `{"a": [0, 0]}`, network.ErrIndexOutOfRange},
		{"duplicate station", `{"nodes": [{"id": "a"}, {"id": "a"}], "links": []}`, `{"a": [0, 0]}`, network.ErrDuplicateStation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadNetwork(strings.NewReader(tt.net), strings.NewReader(tt.spider))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := ReadNetwork(strings.NewReader(netJSON), strings.NewReader(`{"a": [0], "b": [1, 1]}`)); err == nil {
		t.Error("short spider coordinates: want error")
	}
	if _, err := ReadNetwork(strings.NewReader("{"), strings.NewReader("{}")); err == nil {
		t.Error("malformed network: want error")
	}
}

func TestImportNetwork(t *testing.T) {
	g, err := ImportNetwork("testdata/station-network.json", "testdata/spider.json")
	if err != nil {
		t.Fatalf("ImportNetwork: %v", err)
	}
	if got := len(g.Incident("davis")); got != 2 {
		t.Errorf("Incident(davis) = %d links, want 2", got)
	}
	if _, err := ImportNetwork("testdata/nope.json", "testdata/spider.json"); err == nil {
		t.Error("missing file: want error")
	}
}

func TestReadSamplesAndMedians(t *testing.T) {
	samples, err := ReadSamples(strings.NewReader(`[
	  {"day": 1, "secOfDay": 900, "ins": {"a": 12}, "ins_total": 40, "delay_actual": 0.05,
	   "lines": [{"line": "red", "delay_actual": {"a|b": 95}}]}
	]`))
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("len(samples) = %d", len(samples))
	}
	s := samples[0]
	if s.Day != 1 || s.SecOfDay != 900 || s.Entries["a"] != 12 || s.EntriesTotal != 40 || s.Transit()["a|b"] != 95 {
		t.Errorf("sample = %+v", s)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "medians.json")
	if err := os.WriteFile(path, []byte(`{"a|b": 90, "b|a": 88}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ImportMedians(path)
	if err != nil {
		t.Fatalf("ImportMedians: %v", err)
	}
	if m["b|a"] != 88 {
		t.Errorf("medians = %v", m)
	}
}
