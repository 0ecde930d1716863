package glyph

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// UnknownSpeedColor fills segments with no speed sample.
const UnknownSpeedColor = "white"

var (
	fastColor = colorful.Color{R: 0, G: 104.0 / 255, B: 55.0 / 255}
	evenColor = colorful.Color{R: 1, G: 1, B: 1}
	slowColor = colorful.Color{R: 165.0 / 255, G: 0, B: 38.0 / 255}
)

// Speed domain of the delay color scale. A speed is median transit time
// divided by actual transit time, so 1 is a typical trip.
const (
	SpeedFast   = 2.0
	SpeedNormal = 1.0
	SpeedSlow   = 0.3
)

// DelayColor maps a relative speed to a fill color, interpolating in Lab
// space from green (fast) through white (normal) to red (slow). Speeds are
// clamped to [SpeedSlow, SpeedFast].
func DelayColor(speed float64) string {
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		return UnknownSpeedColor
	}
	speed = math.Max(SpeedSlow, math.Min(SpeedFast, speed))
	if speed >= SpeedNormal {
		t := (speed - SpeedFast) / (SpeedNormal - SpeedFast)
		return fastColor.BlendLab(evenColor, t).Clamped().Hex()
	}
	t := (speed - SpeedNormal) / (SpeedSlow - SpeedNormal)
	return evenColor.BlendLab(slowColor, t).Clamped().Hex()
}

// SegmentColor returns the fill for the segment with key, or
// UnknownSpeedColor when speeds has no entry for it.
func SegmentColor(speeds map[string]float64, key string) string {
	s, ok := speeds[key]
	if !ok {
		return UnknownSpeedColor
	}
	return DelayColor(s)
}
