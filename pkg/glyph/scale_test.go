package glyph

import (
	"math"
	"testing"
)

func TestLinearScale(t *testing.T) {
	s := LinearScale{DomainMax: 100, Min: 1.5, Max: 7}
	tests := []struct {
		volume, want float64
	}{
		{0, 1.5},
		{50, 4.25},
		{100, 7},
		{250, 7},
		{-20, 1.5},
		{math.NaN(), 1.5},
	}
	for _, tt := range tests {
		if got := s.HalfWidth(tt.volume); math.Abs(got-tt.want) > eps {
			t.Errorf("HalfWidth(%v) = %v, want %v", tt.volume, got, tt.want)
		}
	}
}

func TestSqrtScale(t *testing.T) {
	s := SqrtScale{DomainMax: 100, Min: 2, Max: 7}
	tests := []struct {
		volume, want float64
	}{
		{0, 2},
		{25, 4.5},
		{100, 7},
		{400, 7},
		{-1, 2},
	}
	for _, tt := range tests {
		if got := s.HalfWidth(tt.volume); math.Abs(got-tt.want) > eps {
			t.Errorf("HalfWidth(%v) = %v, want %v", tt.volume, got, tt.want)
		}
	}
}

func TestScaleFuncClampsNegative(t *testing.T) {
	f := ScaleFunc(func(v float64) float64 { return v - 10 })
	if got := f.HalfWidth(3); got != 0 {
		t.Errorf("HalfWidth(3) = %v, want 0", got)
	}
	if got := f.HalfWidth(-50); got != 0 {
		t.Errorf("HalfWidth(-50) = %v, want 0", got)
	}
	if got := f.HalfWidth(12); got != 2 {
		t.Errorf("HalfWidth(12) = %v, want 2", got)
	}
}

func TestDefaultWidthScale(t *testing.T) {
	s := DefaultWidthScale(10)
	if math.Abs(s.HalfWidth(0)-1.5) > eps || math.Abs(s.HalfWidth(100)-7) > eps {
		t.Errorf("DefaultWidthScale(10) = %+v", s)
	}
}

func TestZeroDomain(t *testing.T) {
	s := LinearScale{DomainMax: 0, Min: 3, Max: 9}
	if got := s.HalfWidth(50); got != 3 {
		t.Errorf("HalfWidth with empty domain = %v, want Min", got)
	}
}

func TestDelayColor(t *testing.T) {
	tests := []struct {
		speed float64
		want  string
	}{
		{2, "#006837"},
		{5, "#006837"},
		{1, "#ffffff"},
		{0.3, "#a50026"},
		{0.01, "#a50026"},
		{math.NaN(), UnknownSpeedColor},
		{math.Inf(1), UnknownSpeedColor},
	}
	for _, tt := range tests {
		if got := DelayColor(tt.speed); got != tt.want {
			t.Errorf("DelayColor(%v) = %q, want %q", tt.speed, got, tt.want)
		}
	}
}

func TestSegmentColor(t *testing.T) {
	speeds := map[string]float64{"A|B": 1}
	if got := SegmentColor(speeds, "A|B"); got != "#ffffff" {
		t.Errorf("SegmentColor(A|B) = %q", got)
	}
	if got := SegmentColor(speeds, "B|A"); got != UnknownSpeedColor {
		t.Errorf("SegmentColor(B|A) = %q, want %q", got, UnknownSpeedColor)
	}
}
