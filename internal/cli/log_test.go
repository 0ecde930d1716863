package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level       log.Level
		debug, info bool
	}{
		{LogDebug, true, true},
		{LogInfo, false, true},
		{LogWarn, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("projecting")
			l.Info("rendered")
			l.Warn("stale frame dropped")

			out := buf.String()
			if got := strings.Contains(out, "projecting"); got != tt.debug {
				t.Errorf("debug logged = %v, want %v", got, tt.debug)
			}
			if got := strings.Contains(out, "rendered"); got != tt.info {
				t.Errorf("info logged = %v, want %v", got, tt.info)
			}
			if !strings.Contains(out, "stale frame dropped") {
				t.Error("warning was filtered")
			}
		})
	}
}

func TestNewLoggerKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, LogInfo)
	l.Info("frame", "segment", "alewife|davis", "speed", 2)

	out := buf.String()
	for _, want := range []string{"frame", "segment=alewife|davis", "speed=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestTimerDone(t *testing.T) {
	var buf bytes.Buffer
	startTimer(newLogger(&buf, LogInfo)).done("dataset loaded", "stations", 16)

	out := buf.String()
	for _, want := range []string{"dataset loaded", "elapsed=", "stations=16"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	l := newLogger(&bytes.Buffer{}, LogDebug)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("logger did not round-trip through the context")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should fall back to log.Default()")
	}
}
