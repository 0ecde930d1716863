// Package pipeline provides the load → frame → render pipeline for spiderglyph.
//
// The CLI, the HTTP server and the batch exporter all run through this
// package so they share defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the station network, spider layout and optional live data
//     into a [Dataset]
//  2. Frame: Project the network, interpolate the live data at the selected
//     day and time, and build every segment polygon ([glyph.Frame])
//  3. Render: Encode the frame as SVG, PNG, PDF, JSON, GeoJSON or a DOT
//     node-link view
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Network: "station-network.json",
//	    Spider:  "spider.json",
//	    Samples: "historical.json",
//	    Day:     1,
//	    Time:    8 * time.Hour,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	ds, err := runner.Load(ctx, opts)
//	b, err := runner.NewBuilder(ds, opts)
//	frame, snap, err := runner.Frame(ctx, ds, b, opts.Interaction())
//	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, ds, b, frame, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/subwayviz/spiderglyph/pkg/cache"
	apperr "github.com/subwayviz/spiderglyph/pkg/errors"
	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/projection"
	"github.com/subwayviz/spiderglyph/pkg/render/sink"
	"github.com/subwayviz/spiderglyph/pkg/snapshot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the default width scale kind.
	DefaultScale = ScaleLinear

	// DefaultMinRatio and DefaultMaxRatio bound the half-width as a
	// fraction of the projection scale.
	DefaultMinRatio = 0.15
	DefaultMaxRatio = 0.7

	// DefaultPNGScale is the rasterization factor for PNG output.
	DefaultPNGScale = 2.0

	// DefaultConcurrency bounds parallel frame rendering in Batch.
	DefaultConcurrency = 4
)

// Width scale kinds.
const (
	ScaleLinear = "linear"
	ScaleSqrt   = "sqrt"
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
	FormatGeoJSON  = "geojson"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatGeoJSON:  true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// ValidScales is the set of supported width scales.
var ValidScales = map[string]bool{
	ScaleLinear: true,
	ScaleSqrt:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Load options
	Network string `json:"network"`
	Spider  string `json:"spider"`
	Samples string `json:"samples,omitempty"`
	Medians string `json:"medians,omitempty"`

	// Projection options; a nil Margin uses projection.DefaultMargin
	Width  float64            `json:"width,omitempty"`
	Height float64            `json:"height,omitempty"`
	Margin *projection.Margin `json:"margin,omitempty"`

	// Width scale options; ratios are fractions of the projection scale
	Scale    string  `json:"scale,omitempty"`
	MinRatio float64 `json:"min_ratio,omitempty"`
	MaxRatio float64 `json:"max_ratio,omitempty"`
	Domain   float64 `json:"domain,omitempty"` // entries per minute at full width

	// Interaction
	Day     int           `json:"day"`
	Time    time.Duration `json:"time"`
	Hovered string        `json:"hovered,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	EndDots    bool     `json:"end_dots,omitempty"`
	Caption    bool     `json:"caption,omitempty"`
	Background string   `json:"background,omitempty"`
	PNGScale   float64  `json:"png_scale,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded network and live data.
	Dataset *Dataset

	// Frame is the computed glyph.
	Frame *glyph.Frame

	// Snapshot is the interpolated live data, nil without samples.
	Snapshot *snapshot.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	StationCount int
	LinkCount    int
	SegmentCount int
	LoadTime     time.Duration
	FrameTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, formatList())
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateScale checks that a width scale kind is valid.
func ValidateScale(scale string) error {
	if !ValidScales[scale] {
		return apperr.New(apperr.ErrCodeInvalidInput,
			"invalid scale: %q (must be one of: linear, sqrt)", scale)
	}
	return nil
}

func formatList() string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return fmt.Sprint(names)
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = projection.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = projection.DefaultHeight
	}
	if o.Margin == nil {
		m := projection.DefaultMargin
		o.Margin = &m
	}
	if o.Scale == "" {
		o.Scale = DefaultScale
	}
	if o.MinRatio == 0 && o.MaxRatio == 0 {
		o.MinRatio, o.MaxRatio = DefaultMinRatio, DefaultMaxRatio
	}
	if o.Domain == 0 {
		o.Domain = glyph.DefaultEntriesDomain
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLoad checks the input paths.
func (o *Options) ValidateForLoad() error {
	if o.Network == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "network file is required")
	}
	if o.Spider == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "spider layout file is required")
	}
	for _, p := range []string{o.Network, o.Spider, o.Samples, o.Medians} {
		if p == "" {
			continue
		}
		if err := apperr.ValidatePath(p); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForFrame sets defaults and checks projection, scale and
// interaction options.
func (o *Options) ValidateForFrame() error {
	o.SetDefaults()
	if err := o.Projector().Validate(); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "frame %gx%g", o.Width, o.Height)
	}
	if err := ValidateScale(o.Scale); err != nil {
		return err
	}
	if o.MinRatio < 0 || o.MaxRatio < o.MinRatio {
		return apperr.New(apperr.ErrCodeInvalidInput,
			"width ratios must satisfy 0 <= min <= max, got %g and %g", o.MinRatio, o.MaxRatio)
	}
	if o.Domain <= 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "domain must be positive, got %g", o.Domain)
	}
	if err := apperr.ValidateDay(o.Day); err != nil {
		return err
	}
	if err := apperr.ValidateTimeOfDay(o.Time); err != nil {
		return err
	}
	if o.Hovered != "" {
		if err := apperr.ValidateSegmentKey(o.Hovered); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForRender sets defaults and checks render options.
func (o *Options) ValidateForRender() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PNGScale <= 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "png scale must be positive, got %g", o.PNGScale)
	}
	return nil
}

// Validate checks the options for a full pipeline run.
func (o *Options) Validate() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForFrame(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// Projector returns the drawing area described by the options.
func (o *Options) Projector() projection.Projector {
	m := projection.DefaultMargin
	if o.Margin != nil {
		m = *o.Margin
	}
	return projection.Projector{Width: o.Width, Height: o.Height, Margin: m}
}

// WidthScale returns a constructor for the configured width scale at a
// given projection scale.
func (o *Options) WidthScale() func(scale float64) glyph.WidthScale {
	kind, lo, hi, domain := o.Scale, o.MinRatio, o.MaxRatio, o.Domain
	return func(scale float64) glyph.WidthScale {
		if kind == ScaleSqrt {
			return glyph.SqrtScale{DomainMax: domain, Min: lo * scale, Max: hi * scale}
		}
		return glyph.LinearScale{DomainMax: domain, Min: lo * scale, Max: hi * scale}
	}
}

// Interaction returns the view state selected by the options.
func (o *Options) Interaction() glyph.Interaction {
	return glyph.Interaction{Hovered: o.Hovered, Day: o.Day, Time: o.Time}
}

// WithInteraction returns a copy of o showing in.
func (o Options) WithInteraction(in glyph.Interaction) Options {
	o.Hovered, o.Day, o.Time = in.Hovered, in.Day, in.Time
	return o
}

// SVGOptions returns the SVG sink options.
func (o *Options) SVGOptions() []sink.SVGOption {
	var opts []sink.SVGOption
	if o.EndDots {
		opts = append(opts, sink.WithEndDots())
	}
	if o.Caption {
		opts = append(opts, sink.WithCaption())
	}
	if o.Background != "" {
		opts = append(opts, sink.WithBackground(o.Background))
	}
	return opts
}

// FrameKeyOpts returns cache key options for one rendered format.
func (o *Options) FrameKeyOpts(format string) cache.FrameKeyOpts {
	p := o.Projector()
	k := cache.FrameKeyOpts{
		Format:     format,
		Width:      p.Width,
		Height:     p.Height,
		Margin:     [4]float64{p.Margin.Top, p.Margin.Right, p.Margin.Bottom, p.Margin.Left},
		Scale:      o.Scale,
		MinRatio:   o.MinRatio,
		MaxRatio:   o.MaxRatio,
		Domain:     o.Domain,
		Day:        o.Day,
		Time:       o.Time,
		Hovered:    o.Hovered,
		EndDots:    o.EndDots,
		Caption:    o.Caption,
		Background: o.Background,
	}
	if format == FormatPNG {
		k.PNGScale = o.PNGScale
	}
	return k
}
