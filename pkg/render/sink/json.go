package sink

import (
	"encoding/json"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/projection"
)

type jsonOutput struct {
	Generation uint64            `json:"generation"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Margin     projection.Margin `json:"margin"`
	Scale      float64           `json:"scale"`
	Day        int               `json:"day"`
	Caption    string            `json:"caption"`
	Hovered    string            `json:"hovered,omitempty"`
	Segments   []jsonSegment     `json:"segments"`
	EndDots    []glyph.EndDot    `json:"end_dots,omitempty"`
}

type jsonSegment struct {
	Key     string       `json:"key"`
	Name    string       `json:"name"`
	Line    string       `json:"line"`
	Fill    string       `json:"fill"`
	Speed   *float64     `json:"speed,omitempty"`
	Hovered bool         `json:"hovered,omitempty"`
	Points  [][2]float64 `json:"points"`
	D       string       `json:"d"`
}

// RenderJSON exports the frame as a pretty-printed JSON document with the
// polygon points and SVG path data of every segment.
func RenderJSON(f *glyph.Frame) ([]byte, error) {
	out := jsonOutput{
		Generation: f.Generation,
		Width:      f.Projector.Width,
		Height:     f.Projector.Height,
		Margin:     f.Projector.Margin,
		Scale:      f.Scale,
		Day:        f.Interaction.Day,
		Caption:    f.Interaction.Caption(),
		Hovered:    f.Interaction.Hovered,
		Segments:   make([]jsonSegment, 0, len(f.Segments)),
		EndDots:    f.EndDots,
	}
	for _, sg := range f.Segments {
		pts := make([][2]float64, len(sg.Path))
		for i, p := range sg.Path {
			pts[i] = [2]float64{p[0], p[1]}
		}
		out.Segments = append(out.Segments, jsonSegment{
			Key:     sg.Key,
			Name:    sg.Name,
			Line:    sg.Line.String(),
			Fill:    sg.Fill,
			Speed:   sg.Speed,
			Hovered: sg.Hovered,
			Points:  pts,
			D:       sg.Path.SVG(),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
