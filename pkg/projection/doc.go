// Package projection maps intrinsic station coordinates into a bounded
// drawing area with a single uniform scale factor.
//
// The scale is min(innerWidth/xSpan, innerHeight/ySpan) over the bounding box
// of every station, and a projected position is the raw coordinate times that
// scale. Margins are not added to positions; renderers apply them as a
// translation of the whole glyph.
//
// A [Layout] is an immutable side table from station ID to projected
// position, stamped with a generation number. A [Projection] owns the current
// layout and swaps in a fully computed replacement on resize, so readers
// never see a mix of old and new coordinates. Segments remember the
// generation they were built from, which lets package glyph reject stale
// geometry.
package projection
