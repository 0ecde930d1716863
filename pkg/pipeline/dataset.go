package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/subwayviz/spiderglyph/pkg/cache"
	apperr "github.com/subwayviz/spiderglyph/pkg/errors"
	sgio "github.com/subwayviz/spiderglyph/pkg/io"
	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/observability"
	"github.com/subwayviz/spiderglyph/pkg/snapshot"
)

// Dataset is everything loaded from disk for one network.
type Dataset struct {
	Graph   *network.Graph
	Series  *snapshot.Series // nil without samples
	Medians snapshot.Medians // nil without medians

	// Hash identifies the input files' contents in cache keys.
	Hash string
}

// Sources holds raw input documents. Samples and Medians may be nil.
type Sources struct {
	Network []byte
	Spider  []byte
	Samples []byte
	Medians []byte
}

// ReadSources reads the files named by opts.
func ReadSources(opts Options) (Sources, error) {
	var src Sources
	files := []struct {
		path string
		dst  *[]byte
	}{
		{opts.Network, &src.Network},
		{opts.Spider, &src.Spider},
		{opts.Samples, &src.Samples},
		{opts.Medians, &src.Medians},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		data, err := os.ReadFile(f.path)
		if errors.Is(err, os.ErrNotExist) {
			return Sources{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "read %s", f.path)
		}
		if err != nil {
			return Sources{}, fmt.Errorf("read %s: %w", f.path, err)
		}
		*f.dst = data
	}
	return src, nil
}

// NewDataset decodes src.
func NewDataset(src Sources) (*Dataset, error) {
	g, err := sgio.ReadNetwork(bytes.NewReader(src.Network), bytes.NewReader(src.Spider))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidNetwork, err, "load network")
	}
	ds := &Dataset{Graph: g, Hash: src.hash()}

	if src.Samples != nil {
		samples, err := sgio.ReadSamples(bytes.NewReader(src.Samples))
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "load samples")
		}
		ds.Series = snapshot.NewSeries(samples)
	}
	if src.Medians != nil {
		m, err := sgio.ReadMedians(bytes.NewReader(src.Medians))
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "load medians")
		}
		ds.Medians = m
	}
	return ds, nil
}

func (s Sources) hash() string {
	return cache.HashParts(s.Network, s.Spider, s.Samples, s.Medians)
}

// Load reads and decodes the dataset named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*Dataset, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Network)
	start := time.Now()

	ds, err := r.load(opts)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Network, 0, 0, time.Since(start), err)
		return nil, err
	}
	dur := time.Since(start)
	hooks.OnLoadComplete(ctx, opts.Network, ds.Graph.StationCount(), ds.Graph.LinkCount(), dur, nil)

	r.Logger.Info("loaded network",
		"stations", ds.Graph.StationCount(),
		"links", ds.Graph.LinkCount(),
		"live", ds.Series != nil,
		"duration", dur)
	return ds, nil
}

func (r *Runner) load(opts Options) (*Dataset, error) {
	src, err := ReadSources(opts)
	if err != nil {
		return nil, err
	}
	return NewDataset(src)
}
