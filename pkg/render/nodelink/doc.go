// Package nodelink draws the station graph as a plain node-link diagram.
//
// # Overview
//
// The glyph hides the underlying network behind filled bands. When a spider
// layout looks wrong it is easier to debug on a conventional diagram where
// every station is a labelled point and every link a colored line. This
// package produces that diagram with Graphviz.
//
// # Usage
//
// Convert the graph and its current layout to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, layout, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Station positions are pinned to the projected coordinates (the y axis is
// flipped for Graphviz), so the neato engine only routes edges and places
// labels; it never moves stations.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
