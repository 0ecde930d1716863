package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/subwayviz/spiderglyph/internal/server"
	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
)

// framesCommand creates the frames command for rendering a time series.
func (c *CLI) framesCommand() *cobra.Command {
	var (
		in          inputFlags
		out         renderFlags
		days        string
		from, to    string
		step        time.Duration
		hovered     string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Render a sequence of frames across days and times",
		Long: `Render one frame per day and time step from a single load and projection.

Frames are rendered concurrently and written to the output directory as
spiderglyph_d<day>_<HHMM>.<format>, ready to be assembled into an animation.`,
		Example: `  spiderglyph frames --days 1-5 --from 06:00 --to 10:00 --step 15m -o frames
  spiderglyph frames --days all --step 1h -f png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := c.options(cmd, &in)
			if err != nil {
				return err
			}
			if err := out.apply(cmd, &opts); err != nil {
				return err
			}
			dayList, err := parseDays(days)
			if err != nil {
				return err
			}
			ins, err := timeRange(dayList, from, to, step, hovered)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cfg.Cache, in.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			dir := out.output
			if dir == "" {
				dir = "frames"
			}
			return c.runFrames(cmd.Context(), runner, opts, ins, dir, concurrency)
		},
	}

	in.register(cmd)
	out.register(cmd, "output directory (default ./frames)")
	cmd.Flags().StringVar(&days, "days", "1", "days to render: comma-separated, ranges such as 1-5, or all")
	cmd.Flags().StringVar(&from, "from", "05:00", "first time of day")
	cmd.Flags().StringVar(&to, "to", "23:45", "last time of day (inclusive)")
	cmd.Flags().DurationVar(&step, "step", 15*time.Minute, "time between frames")
	cmd.Flags().StringVar(&hovered, "hover", "", "segment key to highlight in every frame")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", pipeline.DefaultConcurrency, "frames rendered at once")

	return cmd
}

// runFrames renders every interaction and writes the frames into dir.
func (c *CLI) runFrames(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, ins []glyph.Interaction, dir string, limit int) error {
	spin := startSpinner(ctx, fmt.Sprintf("Rendering %d frames...", len(ins)))

	results, err := runner.Batch(ctx, opts, ins, limit)
	if err != nil {
		if spin.Interrupted() {
			spin.Stop()
			return ctx.Err()
		}
		spin.Fail("Batch failed")
		return fmt.Errorf("frames: %w", err)
	}
	spin.Stop()

	logger := loggerFromContext(ctx)
	cached := 0
	for i, res := range results {
		logger.Debug("writing frame", "day", ins[i].Day, "time", ins[i].Time, "cached", res.CacheInfo.RenderHit)
		if res.CacheInfo.RenderHit {
			cached++
		}
		err := writeArtifacts(artifactWriteParams{
			artifacts: res.Artifacts,
			formats:   opts.Formats,
			base:      filepath.Join(dir, defaultBase(ins[i])),
		})
		if err != nil {
			return err
		}
	}

	printSuccess("Rendered %d frames (%d cached)", len(results), cached)
	printDetail("Directory: %s", dir)
	return nil
}

// parseDays parses "1,3", "1-5" or "all" into day numbers 0-6.
func parseDays(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return []int{0, 1, 2, 3, 4, 5, 6}, nil
	}

	var days []int
	seen := make(map[int]bool)
	add := func(d int) error {
		if d < 0 || d > 6 {
			return fmt.Errorf("invalid day %d (must be 0-6)", d)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
		return nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			a, aerr := strconv.Atoi(lo)
			b, berr := strconv.Atoi(hi)
			if aerr != nil || berr != nil || b < a {
				return nil, fmt.Errorf("invalid day range %q", part)
			}
			for d := a; d <= b; d++ {
				if err := add(d); err != nil {
					return nil, err
				}
			}
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid day %q", part)
		}
		if err := add(d); err != nil {
			return nil, err
		}
	}
	return days, nil
}

// timeRange lists one interaction per day and step from "from" to "to"
// inclusive, ordered by day and then time.
func timeRange(days []int, from, to string, step time.Duration, hovered string) ([]glyph.Interaction, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %s", step)
	}
	start, err := server.ParseTimeOfDay(from)
	if err != nil {
		return nil, err
	}
	end, err := server.ParseTimeOfDay(to)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("--to %s is before --from %s", to, from)
	}

	var ins []glyph.Interaction
	for _, day := range days {
		for t := start; t <= end; t += step {
			ins = append(ins, glyph.Interaction{Hovered: hovered, Day: day, Time: t})
		}
	}
	return ins, nil
}
