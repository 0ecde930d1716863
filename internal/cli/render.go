package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
)

// renderFlags are the output flags of render and frames.
type renderFlags struct {
	formats    string
	output     string
	noDots     bool
	noCaption  bool
	background string
	refresh    bool
}

func (f *renderFlags) register(cmd *cobra.Command, outputUsage string) {
	flags := cmd.Flags()
	flags.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, geojson, dot, nodelink (comma-separated)")
	flags.StringVarP(&f.output, "output", "o", "", outputUsage)
	flags.BoolVar(&f.noDots, "no-dots", false, "omit the line end dots")
	flags.BoolVar(&f.noCaption, "no-caption", false, "omit the time caption")
	flags.StringVar(&f.background, "background", "", "background fill (default transparent)")
	flags.BoolVar(&f.refresh, "refresh", false, "re-render even when a cached frame exists")
}

// apply copies the render flags into opts. --format replaces the configured
// formats.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(f.formats)
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if f.noDots {
		opts.EndDots = false
	}
	if f.noCaption {
		opts.Caption = false
	}
	if f.background != "" {
		opts.Background = f.background
	}
	opts.Refresh = f.refresh
	return nil
}

// renderCommand creates the render command for drawing one frame.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		in  inputFlags
		ia  interactionFlags
		out renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the glyph at one day and time",
		Long: `Render the glyph at one day and time of day.

Input files come from --network/--spider (and optionally --samples/--medians)
or from the [data] section of the config file. Without samples every segment
is drawn at the minimum width in the neutral color.

Rendered frames are cached; use --refresh to replace a cached frame.`,
		Example: `  spiderglyph render --network station-network.json --spider spider.json
  spiderglyph render -d 1 -t 17:30 -f svg,png -o rush-hour
  spiderglyph render --hover 'alewife|davis' -f geojson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := c.options(cmd, &in)
			if err != nil {
				return err
			}
			if err := out.apply(cmd, &opts); err != nil {
				return err
			}
			interaction, err := ia.interaction()
			if err != nil {
				return err
			}
			opts = opts.WithInteraction(interaction)

			runner, err := c.newRunner(cfg.Cache, in.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runRender(cmd.Context(), runner, opts, out.output)
		},
	}

	in.register(cmd)
	ia.register(cmd)
	out.register(cmd, "output file (single format) or base path (multiple); - for stdout")

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	spin := startSpinner(ctx, "Rendering "+opts.Interaction().Caption()+"...")

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.Fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spin.Stop()

	loggerFromContext(ctx).Debug("render finished",
		"segments", result.Stats.SegmentCount,
		"frame", result.Stats.FrameTime,
		"render", result.Stats.RenderTime)

	// Status lines would corrupt an artifact written to stdout.
	if output != "-" {
		printSuccess("%s", opts.Interaction().Caption())
		printStats(result.Stats, result.CacheInfo.RenderHit)
		if result.Snapshot != nil {
			printDetail("%s · %s", result.Snapshot.EntriesLabel(), result.Snapshot.DelayLabel())
		}
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		base:      defaultBase(opts.Interaction()),
		output:    output,
	})
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // used when output is empty
	output    string
}

// writeArtifacts writes one file per format. A single format goes to output
// as given; several formats share output as a base path.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 && p.output != "" {
		return writeFile(p.output, p.artifacts[p.formats[0]])
	}
	base := basePath(p.output, p.base)
	for _, format := range p.formats {
		if err := writeFile(base+"."+fileExt(format), p.artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if path != "-" {
		printFile(path)
	}
	return nil
}

// fileExt maps a format to a file extension.
func fileExt(format string) string {
	if format == pipeline.FormatNodelink {
		return "nodelink.svg"
	}
	return format
}

// basePath strips a known format extension from output, or returns
// fallback when output is empty.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	if strings.HasSuffix(output, ".nodelink.svg") {
		return strings.TrimSuffix(output, ".nodelink.svg")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// defaultBase names the output of one interaction, for example
// "spiderglyph_d1_1730".
func defaultBase(in glyph.Interaction) string {
	return fmt.Sprintf("%s_d%d_%s", appName, in.Day, clockLabel(in.Time))
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// A path of "-" writes to the status output stream.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.Create(path)
}
