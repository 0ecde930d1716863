// Package pkg provides the core libraries for spiderglyph transit glyphs.
//
// # Overview
//
// A spiderglyph draws every directed segment of a subway network as a band
// beside its centerline. Band thickness follows station entries, fill color
// follows train speed relative to the median, and adjacent bands are mitered
// so that they meet cleanly at stations. The pkg directory is organized into
// these areas:
//
//  1. [geom], [network], [projection] - Geometry, the station graph and its
//     projection into a frame
//  2. [glyph] - Offsets, adjacency, polygons and frames
//  3. [snapshot], [io] - Time-bucketed live data and JSON input
//  4. [render] - SVG, PNG, PDF, GeoJSON, JSON and node-link output
//  5. [hittest] - Pointer hit testing on rendered frames
//  6. [pipeline] - Orchestration (load → frame → render)
//  7. [cache], [session], [config] - Infrastructure
//
// # Architecture
//
// The typical data flow through spiderglyph:
//
//	station-network.json + spider.json
//	         ↓
//	    [io] package (decode and join)
//	         ↓
//	    [network] package (graph + directed segments)
//	         ↓
//	    [projection] package (scale into the frame)
//	         ↓
//	    [glyph] package (offsets, mitered polygons, fills)
//	         ↓
//	    SVG/PNG/PDF/GeoJSON output
//
// # Quick Start
//
// Render the glyph for Monday at 8am:
//
//	import (
//	    "context"
//	    "time"
//	    "github.com/subwayviz/spiderglyph/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Network: "station-network.json",
//	    Spider:  "spider.json",
//	    Samples: "historical.json",
//	    Medians: "medians.json",
//	    Day:     1,
//	    Time:    8 * time.Hour,
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// # Caching
//
// Rendered frames are cached by the content hash of the inputs plus every
// option that changes the output, so repeated renders of the same moment
// are served from the [cache] without recomputing the glyph.
package pkg
