// Package io reads the JSON inputs of the glyph: the station network, its
// schematic layout, the time-bucketed samples and the median transit times.
//
// # Network
//
// The network is split over two files. station-network.json lists stations
// and the links between them, with link endpoints given as indices into the
// node list:
//
//	{
//	  "nodes": [{"id": "place-alfcl", "name": "Alewife"}, ...],
//	  "links": [{"source": 0, "target": 1, "line": "red"}, ...]
//	}
//
// spider.json maps every station id to its schematic coordinates:
//
//	{"place-alfcl": [0, 0], "place-davis": [0, 1], ...}
//
// [ReadNetwork] joins the two and builds a [network.Graph]. A station
// without spider coordinates, an unknown line or an out-of-range link index
// is an error; nothing is silently dropped.
//
// # Samples
//
// [ReadSamples] decodes the array of 15 minute buckets described by
// [snapshot.Sample] and [ReadMedians] the object of median transit times
// keyed by segment key ("from|to").
//
// All Import* functions are file path wrappers around the Read* functions.
// None of the readers close their input.
package io
