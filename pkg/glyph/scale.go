package glyph

import "math"

// WidthScale maps a volume to a non-negative half-width in pixels.
type WidthScale interface {
	HalfWidth(volume float64) float64
}

// ScaleFunc adapts a function to WidthScale. Negative results are clamped to
// zero.
type ScaleFunc func(volume float64) float64

// HalfWidth implements WidthScale.
func (f ScaleFunc) HalfWidth(volume float64) float64 {
	return math.Max(0, f(sanitize(volume)))
}

// LinearScale maps [0, DomainMax] linearly onto [Min, Max]. Volumes outside
// the domain are clamped.
type LinearScale struct {
	DomainMax float64 `json:"domain_max" toml:"domain_max"`
	Min       float64 `json:"min" toml:"min"`
	Max       float64 `json:"max" toml:"max"`
}

// HalfWidth implements WidthScale.
func (s LinearScale) HalfWidth(volume float64) float64 {
	return s.Min + (s.Max-s.Min)*unit(volume, s.DomainMax)
}

// SqrtScale maps [0, DomainMax] onto [Min, Max] through a square root, so
// the band area grows roughly with volume.
type SqrtScale struct {
	DomainMax float64 `json:"domain_max" toml:"domain_max"`
	Min       float64 `json:"min" toml:"min"`
	Max       float64 `json:"max" toml:"max"`
}

// HalfWidth implements WidthScale.
func (s SqrtScale) HalfWidth(volume float64) float64 {
	return s.Min + (s.Max-s.Min)*math.Sqrt(unit(volume, s.DomainMax))
}

// DefaultEntriesDomain is the entries-per-minute value drawn at full width.
const DefaultEntriesDomain = 100

// DefaultWidthScale returns the linear scale used for the station-entries
// glyph: 0..100 entries per minute map to 0.15..0.7 times the projection
// scale.
func DefaultWidthScale(scale float64) LinearScale {
	return LinearScale{DomainMax: DefaultEntriesDomain, Min: 0.15 * scale, Max: 0.7 * scale}
}

// unit returns v/domain clamped to [0, 1].
func unit(v, domain float64) float64 {
	if domain <= 0 {
		return 0
	}
	return math.Min(1, sanitize(v)/domain)
}

// sanitize treats missing, negative and NaN volumes as zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
