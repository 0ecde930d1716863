// Package geom provides the planar helpers behind the line glyph: headings,
// angle wrapping, slope/intercept line intersection and perpendicular offsets.
//
// Points are [orb.Point] values so the same coordinates flow unchanged into
// the GeoJSON sink and the hit-test index. A [Line] is directed: it runs from
// its first point to its second.
//
// Every function here is total. Degenerate input (parallel or zero-length
// lines) is reported through a boolean result instead of an error so callers
// can fall back locally.
package geom
