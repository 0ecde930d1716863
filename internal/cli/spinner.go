package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// spinnerFrames is a dot travelling along a short line.
var spinnerFrames = []string{"●──", "─●─", "──●", "─●─"}

const spinnerInterval = 120 * time.Millisecond

// spinner animates a status line while a blocking step runs. It stops by
// itself when the parent context is cancelled.
type spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}

	mu    sync.Mutex
	msg   string
	drawn int
}

// startSpinner starts a spinner on stderr.
func startSpinner(ctx context.Context, msg string) *spinner {
	return startSpinnerOn(ctx, os.Stderr, msg)
}

func startSpinnerOn(ctx context.Context, w io.Writer, msg string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
		msg:     msg,
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleSpinner.Render(frame) + " " + StyleDim.Render(s.msg)
	fmt.Fprint(s.w, "\r"+line)
	s.drawn = max(s.drawn, lipgloss.Width(line))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.drawn)+"\r")
		s.drawn = 0
	}
}

// Update replaces the message shown next to the animation.
func (s *spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the animation and clears its line. Calling it again is a no-op.
func (s *spinner) Stop() {
	s.cancel()
	<-s.stopped
}

// Fail stops the spinner and prints msg as an error line.
func (s *spinner) Fail(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Interrupted reports whether the spinner ended because its parent context
// was cancelled.
func (s *spinner) Interrupted() bool {
	return s.parent.Err() != nil
}
