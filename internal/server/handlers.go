package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/subwayviz/spiderglyph/pkg/buildinfo"
	apperr "github.com/subwayviz/spiderglyph/pkg/errors"
	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatGeoJSON:  "application/geo+json",
	pipeline.FormatDOT:      "text/vnd.graphviz",
	pipeline.FormatNodelink: "image/svg+xml",
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code,omitempty"`
}

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status   string         `json:"status"`
	Stations int            `json:"stations"`
	Links    int            `json:"links"`
	Live     bool           `json:"live"`
	Days     []int          `json:"days,omitempty"`
	Build    buildinfo.Info `json:"build"`
}

// HoverResponse is the JSON body of GET /api/hover.
type HoverResponse struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Line    string   `json:"line"`
	Speed   *float64 `json:"speed,omitempty"`
	Caption string   `json:"caption"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Stations: s.ds.Graph.StationCount(),
		Links:    s.ds.Graph.LinkCount(),
		Live:     s.ds.Series != nil,
		Build:    buildinfo.Get(),
	}
	if s.ds.Series != nil {
		resp.Days = s.ds.Series.Days()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	in, err := interactionFromQuery(r, s.base.Interaction())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFrame(w, r, in)
}

func (s *Server) writeFrame(w http.ResponseWriter, r *http.Request, in glyph.Interaction) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, hit, err := s.render(r.Context(), in, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Cache-Control", "public, max-age=300")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	in, err := interactionFromQuery(r, s.base.Interaction())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	x, err := floatParam(r, "x")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	y, err := floatParam(r, "y")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key, err := s.hover(r, in, x, y)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if key == "" {
		s.writeError(w, r, apperr.New(apperr.ErrCodeNotFound, "no segment at %g,%g", x, y))
		return
	}
	f, err := s.frame(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sg, _ := f.Segment(key)
	writeJSON(w, http.StatusOK, HoverResponse{
		Key:     sg.Key,
		Name:    sg.Name,
		Line:    sg.Line.String(),
		Speed:   sg.Speed,
		Caption: in.Caption(),
	})
}

// hover returns the key of the segment under canvas point (x, y), or "".
func (s *Server) hover(r *http.Request, in glyph.Interaction, x, y float64) (string, error) {
	ix, err := s.hitIndex(r.Context(), in)
	if err != nil {
		return "", err
	}
	key, _ := ix.AtCanvas(x, y)
	return key, nil
}

// =============================================================================
// Parameters
// =============================================================================

// interactionFromQuery reads day, time and hovered over the defaults in def.
func interactionFromQuery(r *http.Request, def glyph.Interaction) (glyph.Interaction, error) {
	q := r.URL.Query()
	in := def
	if v := q.Get("day"); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil {
			return in, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "day %q", v)
		}
		in.Day = day
	}
	if v := q.Get("time"); v != "" {
		tod, err := ParseTimeOfDay(v)
		if err != nil {
			return in, err
		}
		in.Time = tod
	}
	if v := q.Get("hovered"); v != "" {
		in.Hovered = v
	}
	return in, validateInteraction(in)
}

func validateInteraction(in glyph.Interaction) error {
	if err := apperr.ValidateDay(in.Day); err != nil {
		return err
	}
	if err := apperr.ValidateTimeOfDay(in.Time); err != nil {
		return err
	}
	if in.Hovered != "" {
		return apperr.ValidateSegmentKey(in.Hovered)
	}
	return nil
}

// ParseTimeOfDay accepts a clock time ("17:30") or a Go duration ("17h30m").
func ParseTimeOfDay(v string) (time.Duration, error) {
	if h, m, ok := strings.Cut(v, ":"); ok {
		hours, herr := strconv.Atoi(h)
		mins, merr := strconv.Atoi(m)
		if herr != nil || merr != nil || mins < 0 || mins > 59 {
			return 0, apperr.New(apperr.ErrCodeInvalidInput, "invalid time of day %q", v)
		}
		return time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid time of day %q", v)
	}
	return d, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "%s is required", name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "%s %q", name, v)
	}
	return f, nil
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error: apperr.UserMessage(err),
		Code:  apperr.GetCode(err),
	})
}
