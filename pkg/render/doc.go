// Package render turns computed glyph frames into output documents.
//
// The [sink] subpackage encodes a [glyph.Frame] as SVG, GeoJSON or JSON, and
// the [nodelink] subpackage draws the underlying station graph as a plain
// Graphviz node-link diagram for debugging layouts.
//
// This package converts SVG output to PDF or PNG through the external
// rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(frame, sink.WithEndDots())
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [sink]: github.com/subwayviz/spiderglyph/pkg/render/sink
// [nodelink]: github.com/subwayviz/spiderglyph/pkg/render/nodelink
// [glyph.Frame]: github.com/subwayviz/spiderglyph/pkg/glyph.Frame
package render
