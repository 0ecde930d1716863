package cache

import (
	"fmt"
	"time"
)

// FrameKeyOpts are the inputs besides the network that change a rendered
// frame.
type FrameKeyOpts struct {
	Format     string        `json:"format"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Margin     [4]float64    `json:"margin"`
	Scale      string        `json:"scale"`
	MinRatio   float64       `json:"min_ratio"`
	MaxRatio   float64       `json:"max_ratio"`
	Domain     float64       `json:"domain"`
	Day        int           `json:"day"`
	Time       time.Duration `json:"time"`
	Hovered    string        `json:"hovered,omitempty"`
	EndDots    bool          `json:"end_dots,omitempty"`
	Caption    bool          `json:"caption,omitempty"`
	Background string        `json:"background,omitempty"`
	PNGScale   float64       `json:"png_scale,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// FrameKey identifies one rendered frame of the dataset with the given
	// content hash.
	FrameKey(datasetHash string, opts FrameKeyOpts) string

	// SessionKey identifies a stored interaction session.
	SessionKey(id string) string
}

// DefaultKeyer produces "kind:..." keys with a hash of the frame options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey implements Keyer.
func (DefaultKeyer) FrameKey(datasetHash string, opts FrameKeyOpts) string {
	return keyOf("frame", datasetHash, opts)
}

// SessionKey implements Keyer.
func (DefaultKeyer) SessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

var _ Keyer = DefaultKeyer{}
