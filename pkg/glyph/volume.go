package glyph

import "github.com/subwayviz/spiderglyph/pkg/network"

// Volumes is one snapshot of live magnitudes. Keys are either segment keys
// ("from|to") or bare station IDs.
type Volumes map[string]float64

// Endpoints returns the volume at the near and far end of s. The near end
// is looked up by the segment key and the far end by its reverse key; each
// falls back to its station ID, and a missing value reads as zero.
func (v Volumes) Endpoints(s *network.Segment) (near, far float64) {
	return v.lookup(s.Key, s.From.ID), v.lookup(network.ReverseKey(s.Key), s.To.ID)
}

func (v Volumes) lookup(key, station string) float64 {
	if x, ok := v[key]; ok {
		return x
	}
	return v[station]
}
