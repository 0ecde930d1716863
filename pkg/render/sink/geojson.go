package sink

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
)

// Feature kinds written to the "kind" property.
const (
	KindSegment = "segment"
	KindEndDot  = "end_dot"
)

// GeoJSON builds a FeatureCollection with one polygon per segment followed
// by one point per line end dot.
func GeoJSON(f *glyph.Frame) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, sg := range f.Segments {
		feat := geojson.NewFeature(orb.Polygon{sg.Path.Ring()})
		feat.ID = sg.Key
		feat.Properties["kind"] = KindSegment
		feat.Properties["key"] = sg.Key
		feat.Properties["name"] = sg.Name
		feat.Properties["line"] = sg.Line.String()
		feat.Properties["fill"] = sg.Fill
		if sg.Speed != nil {
			feat.Properties["speed"] = *sg.Speed
		}
		if sg.Hovered {
			feat.Properties["hovered"] = true
		}
		fc.Append(feat)
	}
	for _, d := range f.EndDots {
		feat := geojson.NewFeature(d.Center)
		feat.Properties["kind"] = KindEndDot
		feat.Properties["station"] = d.Station
		feat.Properties["radius"] = d.Radius
		feat.Properties["color"] = d.Color
		fc.Append(feat)
	}
	return fc
}

// RenderGeoJSON encodes [GeoJSON] of the frame.
func RenderGeoJSON(f *glyph.Frame) ([]byte, error) {
	return GeoJSON(f).MarshalJSON()
}
