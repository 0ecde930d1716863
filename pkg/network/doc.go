// Package network models the station and line graph that the glyph is drawn
// from.
//
// [Build] resolves raw edge records (numeric indices into the station list)
// into [Link] values that reference [Station] records directly, and records
// for every station the links incident to it in edge insertion order. The
// incident lists live in a side table keyed by station ID, so the input
// records are never mutated and can be shared between views.
//
// A link is consumed as two directed [Segment] values, one per direction of
// travel. [Graph.Segments] builds them against a set of projected positions
// and wires each segment to the segments leaving its far station (Outgoing)
// and arriving at its near station (Incoming), which is what the miter logic
// in package glyph needs.
//
// Line identifiers and travel direction are typed enums resolved through
// lookup tables rather than free-form strings.
package network
