package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperr "github.com/subwayviz/spiderglyph/pkg/errors"
	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/session"
)

// SessionRequest is the body of POST and PATCH /api/sessions. Absent fields
// keep their current value. X and Y, when both present, move the pointer:
// the segment under that canvas point becomes the hovered one, or none.
type SessionRequest struct {
	Day     *int     `json:"day,omitempty"`
	Time    *string  `json:"time,omitempty"` // "17:30" or "17h30m"
	Hovered *string  `json:"hovered,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
}

// SessionResponse is the JSON form of a session.
type SessionResponse struct {
	ID        string    `json:"id"`
	Day       int       `json:"day"`
	Time      string    `json:"time"`
	Hovered   string    `json:"hovered,omitempty"`
	Caption   string    `json:"caption"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newSessionResponse(sess *session.Session) SessionResponse {
	in := sess.Interaction
	return SessionResponse{
		ID:        sess.ID,
		Day:       in.Day,
		Time:      formatClock(in.Time),
		Hovered:   in.Hovered,
		Caption:   in.Caption(),
		ExpiresAt: sess.ExpiresAt,
	}
}

func formatClock(d time.Duration) string {
	m := int(d / time.Minute)
	return time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := session.New(s.base.Interaction(), s.ttl)
	if err := s.apply(r, &sess.Interaction, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("created session", "id", sess.ID)
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req SessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.apply(r, &sess.Interaction, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Touch(s.ttl)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperr.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionFrame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFrame(w, r, sess.Interaction)
}

// session loads the session named in the URL.
func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	if err := apperr.ValidateSessionID(id); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.Wrap(apperr.ErrCodeSessionNotFound, session.ErrNotFound, "session %s", id)
	}
	return sess, nil
}

// apply merges req into in. The pointer is resolved after day and time so it
// hits the polygons of the new moment.
func (s *Server) apply(r *http.Request, in *glyph.Interaction, req SessionRequest) error {
	next := *in
	if req.Day != nil {
		next.Day = *req.Day
	}
	if req.Time != nil {
		tod, err := ParseTimeOfDay(*req.Time)
		if err != nil {
			return err
		}
		next.Time = tod
	}
	if req.Hovered != nil {
		next.Hovered = *req.Hovered
	}
	if err := validateInteraction(next); err != nil {
		return err
	}
	if req.X != nil && req.Y != nil {
		key, err := s.hover(r, next, *req.X, *req.Y)
		if err != nil {
			return err
		}
		next.Hovered = key
	}
	*in = next
	return nil
}

// decodeBody decodes an optional JSON body of at most 64 KiB.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
