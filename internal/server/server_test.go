package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/subwayviz/spiderglyph/pkg/errors"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
	"github.com/subwayviz/spiderglyph/pkg/render/sink"
)

const (
	networkJSON = `{
  "nodes": [
    {"id": "alewife", "name": "Alewife"},
    {"id": "davis", "name": "Davis"},
    {"id": "porter", "name": "Porter"}
  ],
  "links": [
    {"source": 0, "target": 1, "line": "red"},
    {"source": 1, "target": 2, "line": "red"}
  ]
}`
	spiderJSON  = `{"alewife": [0, 0], "davis": [1, 0], "porter": [2, 1]}`
	samplesJSON = `[{
  "day": 1, "secOfDay": 28800,
  "ins": {"alewife": 100, "davis": 50},
  "ins_total": 150, "delay_actual": 0.1,
  "lines": [{"line": "red", "delay_actual": {"alewife|davis": 60}}]
}]`
	mediansJSON = `{"alewife|davis": 120}`
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	ds, err := pipeline.NewDataset(pipeline.Sources{
		Network: []byte(networkJSON),
		Spider:  []byte(spiderJSON),
		Samples: []byte(samplesJSON),
		Medians: []byte(mediansJSON),
	})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s, err := New(Options{
		Runner:   pipeline.NewRunner(nil, nil, logger),
		Dataset:  ds,
		Pipeline: pipeline.Options{Day: 1, Time: 8 * time.Hour},
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	h := decode[HealthResponse](t, resp)
	if h.Status != "ok" || h.Stations != 3 || h.Links != 2 || !h.Live {
		t.Errorf("health = %+v", h)
	}
	if len(h.Days) != 1 || h.Days[0] != 1 {
		t.Errorf("days = %v", h.Days)
	}
}

func TestFrame(t *testing.T) {
	ts := testServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/frame?day=1&time=08:00", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `data-key="alewife|davis"`) {
		t.Error("svg lacks segment")
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/frame?format=geojson", "")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/geo+json" {
		t.Errorf("geojson: status %d type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestFrameErrors(t *testing.T) {
	ts := testServer(t)
	tests := []struct {
		query  string
		status int
		code   apperr.Code
	}{
		{"format=gif", http.StatusBadRequest, apperr.ErrCodeInvalidFormat},
		{"day=9", http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"day=x", http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"time=noon", http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"hovered=alewife", http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"day=3", http.StatusNotFound, apperr.ErrCodeNoData},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+"/api/frame?"+tt.query, "")
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if e := decode[ErrorResponse](t, resp); e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
		})
	}
}

func TestHover(t *testing.T) {
	ts := testServer(t)

	// Frame is 300x300 with margins; alewife|davis spans the top edge of
	// the inner area and is offset downwards.
	resp := do(t, http.MethodGet, ts.URL+"/api/hover?x=50&y=40", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	h := decode[HoverResponse](t, resp)
	if h.Key != "alewife|davis" || h.Name != "Alewife to Davis" || h.Line != "red" {
		t.Errorf("hover = %+v", h)
	}
	if h.Speed == nil || *h.Speed != 2 {
		t.Errorf("speed = %v", h.Speed)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/hover?x=5&y=5", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("empty point: status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/hover?x=5", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing y: status = %d", resp.StatusCode)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := testServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/sessions", `{"day": 1, "time": "17:30"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d", resp.StatusCode)
	}
	created := decode[SessionResponse](t, resp)
	if created.Day != 1 || created.Time != "17:30" || created.Caption != "5:30 pm on Mon Feb 3" {
		t.Errorf("created = %+v", created)
	}
	url := ts.URL + "/api/sessions/" + created.ID

	got := decode[SessionResponse](t, do(t, http.MethodGet, url, ""))
	if got.ID != created.ID || got.Time != "17:30" {
		t.Errorf("get = %+v", got)
	}

	resp = do(t, http.MethodPatch, url, `{"x": 50, "y": 40}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: status = %d", resp.StatusCode)
	}
	if patched := decode[SessionResponse](t, resp); patched.Hovered != "alewife|davis" || patched.Time != "17:30" {
		t.Errorf("patched = %+v", patched)
	}

	resp = do(t, http.MethodGet, url+"/frame", "")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), sink.HoverStroke) {
		t.Errorf("session frame: status %d, hovered outline present: %v",
			resp.StatusCode, strings.Contains(string(body), sink.HoverStroke))
	}

	resp = do(t, http.MethodPatch, url, `{"x": 5, "y": 5}`)
	if patched := decode[SessionResponse](t, resp); patched.Hovered != "" {
		t.Errorf("pointer off the glyph should clear hover: %+v", patched)
	}

	if resp := do(t, http.MethodDelete, url, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, url, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: status = %d", resp.StatusCode)
	}
	if e := decode[ErrorResponse](t, resp); e.Code != apperr.ErrCodeSessionNotFound {
		t.Errorf("code = %s", e.Code)
	}
}

func TestSessionErrors(t *testing.T) {
	ts := testServer(t)

	if resp := do(t, http.MethodGet, ts.URL+"/api/sessions/not-a-uuid", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id: status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, ts.URL+"/api/sessions", `{"day": 8}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad day: status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, ts.URL+"/api/sessions", `{"week": 1}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field: status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, ts.URL+"/api/sessions", ""); resp.StatusCode != http.StatusCreated {
		t.Errorf("empty body: status = %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := testServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/frame", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"17:30", 17*time.Hour + 30*time.Minute, false},
		{"0:05", 5 * time.Minute, false},
		{"8h15m", 8*time.Hour + 15*time.Minute, false},
		{"12:75", 0, true},
		{"noon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
