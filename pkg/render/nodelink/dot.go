package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/projection"
	"github.com/subwayviz/spiderglyph/pkg/render"
)

// pointsPerInch converts projected pixels to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram generation.
type Options struct {
	// Labels shows station names next to their points. When false only
	// the points are drawn.
	Labels bool
}

// ToDOT converts the graph to Graphviz DOT with every station pinned at its
// position in layout. Links are colored by line. Duplicate links are kept.
func ToDOT(g *network.Graph, layout *projection.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.08, fontsize=9, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [penwidth=3];\n")
	buf.WriteString("\n")

	for _, s := range g.Stations() {
		p, ok := layout.Position(s.ID)
		if !ok {
			continue
		}
		attrs := fmt.Sprintf("pos=\"%s,%s!\"", fmtNum(p[0]/pointsPerInch), fmtNum(-p[1]/pointsPerInch))
		if opts.Labels {
			attrs += fmt.Sprintf(", xlabel=%q", label(s))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", s.ID, attrs)
	}

	buf.WriteString("\n")
	for _, l := range g.Links() {
		fmt.Fprintf(&buf, "  %q -- %q [color=%q];\n", l.Source.ID, l.Target.ID, l.Line.Color())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(s *network.Station) string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

func fmtNum(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// RenderSVG renders a DOT graph to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()
	g.SetLayout("neato")

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
