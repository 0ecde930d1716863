package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
)

// HoverStroke outlines the hovered segment.
const HoverStroke = "stroke:#000;stroke-width:1.5"

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	endDots    bool
	caption    bool
	background string
}

// WithEndDots draws a dot at every line terminal.
func WithEndDots() SVGOption { return func(r *svgRenderer) { r.endDots = true } }

// WithCaption writes the selected day and time below the glyph.
func WithCaption() SVGOption { return func(r *svgRenderer) { r.caption = true } }

// WithBackground fills the canvas with color before drawing.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws the frame. It does not modify f and is safe to call
// concurrently.
func RenderSVG(f *glyph.Frame, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	p := f.Projector
	width, height := int(math.Round(p.Width)), int(math.Round(p.Height))
	innerW, innerH := p.Inner()

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	if r.background != "" {
		canvas.Rect(0, 0, width, height, "fill:"+r.background)
	}
	canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", num(p.Margin.Left), num(p.Margin.Top)))

	var hovered *glyph.SegmentGlyph
	for i := range f.Segments {
		sg := &f.Segments[i]
		if sg.Hovered {
			hovered = sg
			continue
		}
		drawSegment(canvas, sg, "stroke:none")
	}
	if hovered != nil {
		drawSegment(canvas, hovered, HoverStroke)
	}

	if r.endDots {
		for _, d := range f.EndDots {
			canvas.Circle(round(d.Center[0]), round(d.Center[1]), max(1, round(d.Radius)),
				"fill:"+d.Color, fmt.Sprintf(`data-station="%s"`, html.EscapeString(d.Station)))
		}
	}

	if r.caption {
		canvas.Text(round(innerW/2), round(innerH+20), f.Interaction.Caption(),
			"text-anchor:middle;font-family:sans-serif;font-size:12px")
	}

	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

func drawSegment(canvas *svg.SVG, sg *glyph.SegmentGlyph, stroke string) {
	canvas.Path(sg.Path.SVG(),
		fmt.Sprintf(`class="%s-glyph"`, sg.Line),
		fmt.Sprintf(`data-key="%s"`, html.EscapeString(sg.Key)),
		fmt.Sprintf(`data-name="%s"`, html.EscapeString(sg.Name)),
		"fill:"+sg.Fill+";"+stroke)
}

func round(v float64) int { return int(math.Round(v)) }

func num(v float64) string { return fmt.Sprintf("%g", v) }
