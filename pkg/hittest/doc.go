// Package hittest maps pointer positions to the glyph segment under them.
//
// An [Index] is built once per frame. Segment polygons are bucketed by their
// bounding boxes in an R-tree and candidates are confirmed with an exact
// point-in-ring test. Adjacent bands overlap at mitered corners, so when a
// point lies in several polygons the one with the smallest area wins: thin
// bands stay reachable next to wide ones.
package hittest
