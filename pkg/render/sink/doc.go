// Package sink encodes glyph frames into output formats.
//
// # Overview
//
// A sink takes a computed [glyph.Frame] and writes it out. This package
// provides:
//
//   - SVG: the drawable glyph, one filled path per directed segment
//   - GeoJSON: the segment polygons as a FeatureCollection for map tools
//   - JSON: polygons, fills and end dots for custom front ends
//   - PNG and PDF: SVG converted with rsvg-convert
//
// # SVG Output
//
// [RenderSVG] reproduces the glyph canvas: the drawing is translated by the
// projector's top and left margins, each segment is filled with its delay
// color and the hovered segment is outlined and drawn last.
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithEndDots(),
//	    sink.WithCaption(),
//	)
//
// # Coordinates
//
// All sinks emit projected screen coordinates (y grows downwards), before the
// margin translation. GeoJSON output therefore does not carry longitudes and
// latitudes; it is meant for planar tools and tests.
//
// [glyph.Frame]: github.com/subwayviz/spiderglyph/pkg/glyph.Frame
package sink
