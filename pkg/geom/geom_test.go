package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want float64
	}{
		{"east", Line{{0, 0}, {10, 0}}, 0},
		{"south (screen down)", Line{{0, 0}, {0, 10}}, math.Pi / 2},
		{"west", Line{{10, 0}, {0, 0}}, math.Pi},
		{"north", Line{{0, 10}, {0, 0}}, -math.Pi / 2},
		{"diagonal", Line{{0, 0}, {5, 5}}, math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Angle(tt.line); !near(got, tt.want) {
				t.Errorf("Angle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
		{-7 * math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); !near(got, tt.want) {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRangeAndPeriod(t *testing.T) {
	for i := 0; i < 200; i++ {
		a := -40 + float64(i)*0.37
		n := Normalize(a)
		if n <= -math.Pi || n > math.Pi {
			t.Fatalf("Normalize(%v) = %v, outside (-π, π]", a, n)
		}
		if shifted := Normalize(a + 2*math.Pi); !near(shifted, n) {
			t.Errorf("Normalize(%v + 2π) = %v, want %v", a, shifted, n)
		}
	}
}

func TestNormalizeNonFinite(t *testing.T) {
	for _, a := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if got := Normalize(a); !math.IsNaN(got) {
			t.Errorf("Normalize(%v) = %v, want NaN", a, got)
		}
	}
}

func TestSlopeAndIntercept(t *testing.T) {
	l := Line{{0, 1}, {2, 5}}
	if got := Slope(l); got != 2 {
		t.Errorf("Slope() = %v, want 2", got)
	}
	if got := Intercept(l); got != 1 {
		t.Errorf("Intercept() = %v, want 1", got)
	}
	if got := Slope(Line{{3, 0}, {3, 4}}); !math.IsInf(got, 1) {
		t.Errorf("Slope(vertical) = %v, want +Inf", got)
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name   string
		l1, l2 Line
		want   Point
		ok     bool
	}{
		{
			name: "crossing",
			l1:   Line{{0, 0}, {10, 0}},
			l2:   Line{{0, 10}, {10, 0}},
			want: Point{10, 0},
			ok:   true,
		},
		{
			name: "first vertical",
			l1:   Line{{5, 0}, {5, 10}},
			l2:   Line{{0, 0}, {10, 10}},
			want: Point{5, 5},
			ok:   true,
		},
		{
			name: "second vertical",
			l1:   Line{{0, 2}, {10, 2}},
			l2:   Line{{-3, 8}, {-3, -8}},
			want: Point{-3, 2},
			ok:   true,
		},
		{
			name: "both vertical",
			l1:   Line{{1, 0}, {1, 10}},
			l2:   Line{{2, 0}, {2, 10}},
		},
		{
			name: "parallel",
			l1:   Line{{0, 0}, {10, 10}},
			l2:   Line{{0, 5}, {10, 15}},
		},
		{
			name: "slopes within tolerance",
			l1:   Line{{0, 0}, {10, 10}},
			l2:   Line{{0, 1}, {10, 11.05}},
		},
		{
			name: "zero length",
			l1:   Line{{4, 4}, {4, 4}},
			l2:   Line{{0, 0}, {10, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Intersect(tt.l1, tt.l2)
			if ok != tt.ok {
				t.Fatalf("Intersect() ok = %v, want %v (point %v)", ok, tt.ok, got)
			}
			if ok && (!near(got[0], tt.want[0]) || !near(got[1], tt.want[1])) {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersectVerticalKeepsX(t *testing.T) {
	vertical := Line{{7.25, -3}, {7.25, 40}}
	for _, other := range []Line{
		{{0, 0}, {1, 3}},
		{{-5, 2}, {9, -1}},
		{{100, 100}, {90, 120}},
	} {
		p, ok := Intersect(vertical, other)
		if !ok {
			t.Fatalf("Intersect(vertical, %v) reported no solution", other)
		}
		if p[0] != 7.25 {
			t.Errorf("Intersect(vertical, %v).x = %v, want 7.25", other, p[0])
		}
	}
}

func TestOffset(t *testing.T) {
	p := Offset(Point{1, 1}, 2, math.Pi/2)
	if !near(p[0], 1) || !near(p[1], 3) {
		t.Errorf("Offset() = %v, want [1 3]", p)
	}
	if got := Offset(Point{1, 1}, 0, 1.3); got != (Point{1, 1}) {
		t.Errorf("Offset(0) = %v, want unchanged point", got)
	}
}

func TestLineHelpers(t *testing.T) {
	l := Line{{0, 0}, {4, 2}}
	if r := l.Reverse(); r != (Line{{4, 2}, {0, 0}}) {
		t.Errorf("Reverse() = %v", r)
	}
	if !l.Equal(Line{{0, 0}, {4, 2}}) {
		t.Error("Equal() = false for identical lines")
	}
	if l.Equal(l.Reverse()) {
		t.Error("Equal() = true for reversed line")
	}
	if m := Lerp(l[0], l[1], 0.5); m != (Point{2, 1}) {
		t.Errorf("Lerp() = %v, want [2 1]", m)
	}
}

func TestBound(t *testing.T) {
	b := Bound([]Point{{1, 5}, {-2, 3}, {4, -1}})
	if b.Min != (Point{-2, -1}) || b.Max != (Point{4, 5}) {
		t.Errorf("Bound() = %v", b)
	}
}
