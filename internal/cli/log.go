// Package cli implements the spiderglyph command-line interface.
//
// The commands load a station network and its spider layout, project it into
// a frame and render the transit glyph at a chosen day and time of day. Input
// paths and frame settings come from spiderglyph.toml (see pkg/config) and
// can be overridden per command with flags.
//
// # Commands
//
// The main commands are:
//   - render: Draw one frame as SVG, PNG, PDF, JSON, GeoJSON or DOT
//   - frames: Draw a sequence of frames across days and times
//   - hover: Report the segment under a canvas point
//   - serve: Serve frames, hover lookups and sessions over HTTP
//   - scrub: Step through days and times in a terminal UI
//   - cache: Manage the rendered frame cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger returns a logger with a short wall-clock timestamp. Keys that
// identify a frame or segment are highlighted.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	l.SetStyles(logStyles())
	return l
}

func logStyles() *log.Styles {
	st := log.DefaultStyles()
	for _, key := range []string{"key", "segment", "session"} {
		st.Keys[key] = lipgloss.NewStyle().Foreground(colorAccent)
	}
	st.Keys["err"] = lipgloss.NewStyle().Foreground(colorFail)
	st.Values["err"] = lipgloss.NewStyle().Foreground(colorFail)
	return st
}

// timer logs the duration of one step.
type timer struct {
	logger *log.Logger
	start  time.Time
}

func startTimer(l *log.Logger) timer {
	return timer{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time, followed by keyvals.
func (t timer) done(msg string, keyvals ...any) {
	kv := append([]any{"elapsed", time.Since(t.start).Round(time.Millisecond)}, keyvals...)
	t.logger.Info(msg, kv...)
}

type ctxKey struct{}

// withLogger attaches l to ctx for commands further down the call chain.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or the
// package default when ctx carries none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
