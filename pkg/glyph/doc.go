// Package glyph computes the thickness-varying line glyph: one closed polygon
// per directed segment, widened by live volume at each end and mitered
// against its neighbours where lines meet.
//
// # Pipeline
//
// For each segment the package
//
//  1. maps the volume at each endpoint through a [WidthScale] to a half-width,
//  2. displaces both endpoints perpendicular to the direction of travel
//     ([Offsets]),
//  3. picks a mitering partner at each end ([ClosestClockwise] among the
//     segments leaving the far station, [ClosestCounterClockwise] among the
//     segments arriving at the near station),
//  4. intersects the offset edges to find the true corners ([Polygon]).
//
// A corner is only mitered when its station has more than one incident link,
// and any failed lookup or intersection keeps the unmitered offset point.
// None of this returns errors; the only failure is [ErrStaleProjection],
// raised when segments and layout come from different projection
// generations.
//
// # Frames
//
// A [Builder] ties a graph to its [projection.Projection] and memoizes the
// directed segments per projection generation. [Builder.Frame] combines them
// with a volume snapshot, segment speeds and an explicit [Interaction] (the
// hovered segment and selected time) into a [Frame] that sinks can encode.
package glyph
