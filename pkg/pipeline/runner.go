package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/subwayviz/spiderglyph/pkg/cache"
	apperr "github.com/subwayviz/spiderglyph/pkg/errors"
	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/observability"
	"github.com/subwayviz/spiderglyph/pkg/projection"
	"github.com/subwayviz/spiderglyph/pkg/snapshot"
)

// Runner encapsulates pipeline execution with caching.
// The CLI and the server both use it so caching behaves the same.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → frame → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	loadStart := time.Now()
	ds, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	loadTime := time.Since(loadStart)

	b, err := r.NewBuilder(ds, opts)
	if err != nil {
		return nil, err
	}
	result, err := r.run(ctx, ds, b, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	return result, nil
}

// NewBuilder projects the dataset's network into the frame described by
// opts and returns a glyph builder for it.
func (r *Runner) NewBuilder(ds *Dataset, opts Options) (*glyph.Builder, error) {
	if err := opts.ValidateForFrame(); err != nil {
		return nil, err
	}
	p, err := projection.New(ds.Graph, opts.Projector())
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "project network")
	}
	r.Logger.Debug("projected network",
		"scale", p.Current().Scale(),
		"generation", p.Current().Generation())
	return glyph.NewBuilder(ds.Graph, p, opts.WidthScale()), nil
}

// Frame builds the glyph for one interaction. Without samples every segment
// gets the minimum width and no speed.
func (r *Runner) Frame(ctx context.Context, ds *Dataset, b *glyph.Builder, in glyph.Interaction) (*glyph.Frame, *snapshot.Snapshot, error) {
	hooks := observability.Pipeline()
	gen := b.Projection().Current().Generation()
	hooks.OnFrameStart(ctx, gen, 2*ds.Graph.LinkCount())
	start := time.Now()

	f, snap, err := r.frame(ds, b, in)
	dur := time.Since(start)
	hooks.OnFrameComplete(ctx, gen, dur, err)
	if err != nil {
		return nil, nil, err
	}

	r.Logger.Debug("built frame",
		"segments", len(f.Segments),
		"day", in.Day,
		"time", in.Time,
		"duration", dur)
	return f, snap, nil
}

func (r *Runner) frame(ds *Dataset, b *glyph.Builder, in glyph.Interaction) (*glyph.Frame, *snapshot.Snapshot, error) {
	input := glyph.Input{Interaction: in}
	var snap *snapshot.Snapshot
	if ds.Series != nil {
		s, err := ds.Series.At(in.Day, in.Time)
		if errors.Is(err, snapshot.ErrNoData) {
			return nil, nil, apperr.Wrap(apperr.ErrCodeNoData, err, "interpolate samples")
		}
		if err != nil {
			return nil, nil, err
		}
		snap = &s
		input.Volumes = glyph.Volumes(s.Entries)
		if ds.Medians != nil {
			input.Speeds = s.Speeds(ds.Medians, nil)
		}
	}

	f, err := b.Frame(input)
	if errors.Is(err, glyph.ErrStaleProjection) {
		return nil, nil, apperr.Wrap(apperr.ErrCodeStaleProjection, err, "build frame")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("build frame: %w", err)
	}
	return f, snap, nil
}

// RenderWithCacheInfo encodes f in every requested format, using the cache
// keyed by the dataset hash and the frame's options. The bool reports
// whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ds *Dataset, b *glyph.Builder, f *glyph.Frame, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	opts = opts.WithInteraction(f.Interaction)
	ch := observability.Cache()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.FrameKey(ds.Hash, opts.FrameKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				ch.OnCacheHit(ctx, key)
				artifacts[format] = data
			} else {
				ch.OnCacheMiss(ctx, key)
				break
			}
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	layout := b.Projection().Current()
	if layout.Generation() != f.Generation {
		return nil, false, apperr.Wrap(apperr.ErrCodeStaleProjection, glyph.ErrStaleProjection,
			"frame generation %d, layout %d", f.Generation, layout.Generation())
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFrame(ctx, ds.Graph, layout, f, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.FrameKey(ds.Hash, opts.FrameKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLFrame); err == nil {
			ch.OnCacheSet(ctx, key, len(data))
		}
	}
	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, ds *Dataset, b *glyph.Builder, f *glyph.Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, ds, b, f, opts)
	return artifacts, err
}

// Batch renders one result per interaction from a single load and
// projection, running at most limit frames at once. Results keep the order
// of ins. A limit below one uses DefaultConcurrency.
func (r *Runner) Batch(ctx context.Context, opts Options, ins []glyph.Interaction, limit int) ([]*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for _, in := range ins {
		frameOpts := opts.WithInteraction(in)
		if err := frameOpts.ValidateForFrame(); err != nil {
			return nil, err
		}
	}
	if limit < 1 {
		limit = DefaultConcurrency
	}

	ds, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	b, err := r.NewBuilder(ds, opts)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(ins))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, in := range ins {
		g.Go(func() error {
			res, err := r.run(gctx, ds, b, opts.WithInteraction(in))
			if err != nil {
				return fmt.Errorf("day %d %s: %w", in.Day, in.Time, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.Logger.Info("rendered batch", "frames", len(results), "formats", opts.Formats)
	return results, nil
}

// run builds and renders one frame from a loaded dataset.
func (r *Runner) run(ctx context.Context, ds *Dataset, b *glyph.Builder, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := &Result{
		Dataset: ds,
		Stats: Stats{
			StationCount: ds.Graph.StationCount(),
			LinkCount:    ds.Graph.LinkCount(),
		},
	}

	frameStart := time.Now()
	f, snap, err := r.Frame(ctx, ds, b, opts.Interaction())
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	result.Frame = f
	result.Snapshot = snap
	result.Stats.FrameTime = time.Since(frameStart)
	result.Stats.SegmentCount = len(f.Segments)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, ds, b, f, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered frame",
		"segments", result.Stats.SegmentCount,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.FrameTime+result.Stats.RenderTime)
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
