// Package snapshot holds the time-bucketed ridership and delay samples that
// drive the glyph, and interpolates between them.
//
// Samples are taken every 15 minutes per day of the week. [Series.At]
// locates the bucket before and after a time of day and blends them
// linearly, so the glyph moves smoothly while the selected time is scrubbed.
// The station-keyed entries of a [Snapshot] are the glyph's volumes and
// [Snapshot.Speeds] turns per-segment transit times into the relative speeds
// used for fill colors.
package snapshot
