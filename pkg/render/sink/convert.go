package sink

import (
	"context"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/render"
)

// RenderPNG renders the frame as SVG and rasterizes it at scale.
// Requires rsvg-convert.
func RenderPNG(ctx context.Context, f *glyph.Frame, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(ctx, RenderSVG(f, opts...), scale)
}

// RenderPDF renders the frame as SVG and converts it to PDF.
// Requires rsvg-convert.
func RenderPDF(ctx context.Context, f *glyph.Frame, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(f, opts...))
}
