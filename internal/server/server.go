// Package server serves glyph frames over HTTP for `spiderglyph serve`.
//
// Routes:
//
//	GET    /health                   liveness and dataset summary
//	GET    /api/frame                one frame (day, time, hovered, format)
//	GET    /api/hover                segment under a canvas point (x, y, day, time)
//	POST   /api/sessions             create an interaction session
//	GET    /api/sessions/{id}        read a session
//	PATCH  /api/sessions/{id}        move the time or the pointer
//	DELETE /api/sessions/{id}        end a session
//	GET    /api/sessions/{id}/frame  the frame a session is looking at
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/hittest"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
	"github.com/subwayviz/spiderglyph/pkg/session"
)

// Options configures a Server.
type Options struct {
	Runner   *pipeline.Runner
	Dataset  *pipeline.Dataset
	Pipeline pipeline.Options // base frame and render settings

	Sessions       session.Store // nil uses an in-memory store
	SessionTTL     time.Duration // zero uses session.DefaultTTL
	AllowedOrigins []string      // nil allows any origin

	Logger *log.Logger
}

// Server answers frame, hover and session requests for one dataset. It is
// safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	ds       *pipeline.Dataset
	builder  *glyph.Builder
	base     pipeline.Options
	sessions session.Store
	ttl      time.Duration
	origins  []string
	logger   *log.Logger
	router   chi.Router

	mu    sync.Mutex
	index map[glyph.Interaction]*hittest.Index
}

// maxIndexes bounds the memoized hit-test indexes.
const maxIndexes = 64

// New creates a server and projects the dataset once.
func New(opts Options) (*Server, error) {
	if opts.Runner == nil || opts.Dataset == nil {
		return nil, errors.New("server needs a runner and a dataset")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	opts.Pipeline.Logger = opts.Logger
	opts.Pipeline.SetDefaults()

	b, err := opts.Runner.NewBuilder(opts.Dataset, opts.Pipeline)
	if err != nil {
		return nil, err
	}

	s := &Server{
		runner:   opts.Runner,
		ds:       opts.Dataset,
		builder:  b,
		base:     opts.Pipeline,
		sessions: opts.Sessions,
		ttl:      opts.SessionTTL,
		origins:  opts.AllowedOrigins,
		logger:   opts.Logger,
		index:    make(map[glyph.Interaction]*hittest.Index),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/frame", s.handleFrame)
		r.Get("/hover", s.handleHover)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Patch("/", s.handleUpdateSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/frame", s.handleSessionFrame)
			})
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "stations", s.ds.Graph.StationCount())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := s.sessions.Cleanup(shutdownCtx); err != nil {
		s.logger.Warn("session cleanup failed", "error", err)
	}
	return nil
}

// frame builds the glyph for in.
func (s *Server) frame(ctx context.Context, in glyph.Interaction) (*glyph.Frame, error) {
	f, _, err := s.runner.Frame(ctx, s.ds, s.builder, in)
	return f, err
}

// render encodes the frame for in as format.
func (s *Server) render(ctx context.Context, in glyph.Interaction, format string) ([]byte, bool, error) {
	opts := s.base.WithInteraction(in)
	opts.Formats = []string{format}
	if err := opts.ValidateForFrame(); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	f, err := s.frame(ctx, in)
	if err != nil {
		return nil, false, err
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(ctx, s.ds, s.builder, f, opts)
	if err != nil {
		return nil, false, err
	}
	return artifacts[format], hit, nil
}

// hitIndex returns the hit-test index for the polygons at in's day and
// time. The hovered segment does not change geometry, so it is not part of
// the key.
func (s *Server) hitIndex(ctx context.Context, in glyph.Interaction) (*hittest.Index, error) {
	in.Hovered = ""
	gen := s.builder.Projection().Current().Generation()

	s.mu.Lock()
	ix, ok := s.index[in]
	s.mu.Unlock()
	if ok && ix.Generation() == gen {
		return ix, nil
	}

	f, err := s.frame(ctx, in)
	if err != nil {
		return nil, err
	}
	ix = hittest.New(f)

	s.mu.Lock()
	if len(s.index) >= maxIndexes {
		clear(s.index)
	}
	s.index[in] = ix
	s.mu.Unlock()
	return ix, nil
}
