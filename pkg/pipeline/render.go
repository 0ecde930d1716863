package pipeline

import (
	"context"
	"fmt"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/projection"
	"github.com/subwayviz/spiderglyph/pkg/render/nodelink"
	"github.com/subwayviz/spiderglyph/pkg/render/sink"
)

// RenderFrame encodes f in every format of opts. The node-link formats draw
// the graph at layout's positions instead of the glyph.
func RenderFrame(ctx context.Context, g *network.Graph, layout *projection.Layout, f *glyph.Frame, opts Options) (map[string][]byte, error) {
	svgOpts := opts.SVGOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(f, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, f, opts.PNGScale, svgOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, f, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(f)
		case FormatGeoJSON:
			data, err = sink.RenderGeoJSON(f)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(g, layout, nodelink.Options{Labels: true}))
		case FormatNodelink:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(g, layout, nodelink.Options{Labels: true}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
