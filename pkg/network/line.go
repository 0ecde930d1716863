package network

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLine is returned when a line name has no entry in the line table.
var ErrUnknownLine = errors.New("unknown line")

// LineID identifies a transit line.
type LineID uint8

const (
	LineUnknown LineID = iota
	LineRed
	LineOrange
	LineBlue
	LineGreen
	LineSilver
)

type lineInfo struct {
	name  string
	color string
}

var lines = [...]lineInfo{
	LineUnknown: {"unknown", "#999999"},
	LineRed:     {"red", "#E12D27"},
	LineOrange:  {"orange", "#E87200"},
	LineBlue:    {"blue", "#2F5DA6"},
	LineGreen:   {"green", "#00843D"},
	LineSilver:  {"silver", "#7C878E"},
}

// ParseLine resolves a line name such as "red" (case-insensitive).
func ParseLine(s string) (LineID, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for id, info := range lines {
		if LineID(id) != LineUnknown && info.name == name {
			return LineID(id), nil
		}
	}
	return LineUnknown, fmt.Errorf("%w: %q", ErrUnknownLine, s)
}

// String returns the line name.
func (l LineID) String() string {
	if int(l) < len(lines) {
		return lines[l].name
	}
	return lines[LineUnknown].name
}

// Color returns the line's display color as a hex string.
func (l LineID) Color() string {
	if int(l) < len(lines) {
		return lines[l].color
	}
	return lines[LineUnknown].color
}

// MarshalText implements encoding.TextMarshaler.
func (l LineID) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *LineID) UnmarshalText(b []byte) error {
	id, err := ParseLine(string(b))
	if err != nil {
		return err
	}
	*l = id
	return nil
}

// Direction is the direction a link is travelled in.
type Direction uint8

const (
	// Forward runs from the link's source to its target.
	Forward Direction = iota
	// Reverse runs from the link's target to its source.
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Reverse {
		return Forward
	}
	return Reverse
}
