package glyph

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/projection"
)

func cornerBuilder(t *testing.T) *Builder {
	t.Helper()
	g, err := network.Build(
		[]network.Station{st("A", 0, 0), st("B", 10, 0), st("C", 10, 10)},
		[]network.Edge{red(0, 1), red(1, 2)},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := projection.New(g, projection.Projector{Width: 20, Height: 20})
	if err != nil {
		t.Fatalf("projection.New: %v", err)
	}
	return NewBuilder(g, p, nil)
}

func TestBuilderFrame(t *testing.T) {
	b := cornerBuilder(t)
	f, err := b.Frame(Input{
		Volumes:     Volumes{"A": 50, "B": 100},
		Speeds:      map[string]float64{"A|B": 1},
		Interaction: Interaction{Hovered: "B|C", Day: 1, Time: 17*time.Hour + 30*time.Minute},
	})
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if f.Scale != 2 || f.Generation != 1 {
		t.Errorf("scale %v generation %d, want 2 and 1", f.Scale, f.Generation)
	}
	if len(f.Segments) != 4 {
		t.Fatalf("len(Segments) = %d, want 4", len(f.Segments))
	}

	ab, ok := f.Segment("A|B")
	if !ok {
		t.Fatal("Segment(A|B) missing")
	}
	if ab.Fill != "#ffffff" || ab.Speed == nil || *ab.Speed != 1 {
		t.Errorf("A|B fill %q speed %v", ab.Fill, ab.Speed)
	}
	if ab.Name != "A to B" || ab.Line != network.LineRed {
		t.Errorf("A|B name %q line %v", ab.Name, ab.Line)
	}
	if len(ab.Path) != 5 || ab.Path[0] != ab.Path[4] {
		t.Errorf("A|B path is not closed: %v", ab.Path)
	}
	// Default scale at projection scale 2 maps 50 entries to 0.85.
	if d := ab.Path[3][1]; math.Abs(d-0.85) > eps {
		t.Errorf("A|B near half-width = %v, want 0.85", d)
	}

	ba, _ := f.Segment("B|A")
	if ba.Fill != UnknownSpeedColor || ba.Speed != nil {
		t.Errorf("B|A fill %q speed %v, want unknown", ba.Fill, ba.Speed)
	}
	if bc, _ := f.Segment("B|C"); !bc.Hovered || ab.Hovered {
		t.Error("hover flag not applied to B|C only")
	}
	if _, ok := f.Segment("X|Y"); ok {
		t.Error("Segment(X|Y) ok = true")
	}

	if len(f.EndDots) != 2 {
		t.Fatalf("len(EndDots) = %d, want 2", len(f.EndDots))
	}
	if d := f.EndDots[1]; d.Station != "C" || math.Abs(d.Radius-0.6) > eps || d.Color != network.LineRed.Color() {
		t.Errorf("EndDots[1] = %+v", d)
	}
}

func TestBuilderMemoizesPerGeneration(t *testing.T) {
	b := cornerBuilder(t)
	l1, s1, err := b.Segments()
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	_, s2, _ := b.Segments()
	if &s1[0] != &s2[0] {
		t.Error("segments were rebuilt for the same generation")
	}

	if _, _, err := b.Projection().Resize(40, 40); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	l3, s3, err := b.Segments()
	if err != nil {
		t.Fatalf("Segments after resize: %v", err)
	}
	if l3.Generation() == l1.Generation() || s3[0].Generation != l3.Generation() {
		t.Errorf("resize kept generation %d", l3.Generation())
	}
	if s3[0].Line[1][0] != 40 {
		t.Errorf("A|B far x = %v after resize, want 40", s3[0].Line[1][0])
	}
}

func TestComposeRejectsStaleSegments(t *testing.T) {
	b := cornerBuilder(t)
	_, stale, err := b.Segments()
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	fresh := b.Projection().Reapply()
	_, err = Compose(b.Graph(), fresh, stale, nil, Input{})
	if !errors.Is(err, ErrStaleProjection) {
		t.Errorf("Compose(stale) error = %v, want ErrStaleProjection", err)
	}
	if _, err := b.Frame(Input{}); err != nil {
		t.Errorf("Frame after reapply: %v", err)
	}
}

func TestInteractionCaption(t *testing.T) {
	tests := []struct {
		in   Interaction
		want string
	}{
		{Interaction{Day: 1, Time: 17*time.Hour + 30*time.Minute}, "5:30 pm on Mon Feb 3"},
		{Interaction{Day: 6, Time: 9 * time.Hour}, "9:00 am on Sat Feb 8"},
		{Interaction{Day: 0, Time: 25 * time.Minute}, "12:25 am on Sun Feb 9"},
	}
	for _, tt := range tests {
		if got := tt.in.Caption(); got != tt.want {
			t.Errorf("Caption(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
