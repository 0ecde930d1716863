package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apperr "github.com/subwayviz/spiderglyph/pkg/errors"
	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/hittest"
	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
)

// hoverResult is the --json output of hover.
type hoverResult struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Line    string   `json:"line"`
	Fill    string   `json:"fill"`
	Speed   *float64 `json:"speed,omitempty"`
	Caption string   `json:"caption"`
}

// hoverCommand creates the hover command, which reports the segment under a
// canvas point.
func (c *CLI) hoverCommand() *cobra.Command {
	var (
		in     inputFlags
		ia     interactionFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "hover <x> <y>",
		Short: "Show the segment under a point of the rendered frame",
		Long: `Show the segment under a point of the rendered frame.

Coordinates are canvas pixels, including the margins, as a browser would
report them for a pointer over the SVG.`,
		Example: `  spiderglyph hover 120 85 -d 1 -t 08:15
  spiderglyph hover 120 85 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q", args[0])
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q", args[1])
			}

			opts, cfg, err := c.options(cmd, &in)
			if err != nil {
				return err
			}
			interaction, err := ia.interaction()
			if err != nil {
				return err
			}
			opts = opts.WithInteraction(interaction)

			runner, err := c.newRunner(cfg.Cache, true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			res, err := c.runHover(cmd.Context(), runner, opts, x, y)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printHover(res)
			return nil
		},
	}

	in.register(cmd)
	ia.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// runHover builds the frame for opts and hit-tests canvas point (x, y).
func (c *CLI) runHover(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, x, y float64) (hoverResult, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return hoverResult{}, err
	}
	if err := opts.ValidateForFrame(); err != nil {
		return hoverResult{}, err
	}

	ds, err := runner.Load(ctx, opts)
	if err != nil {
		return hoverResult{}, err
	}
	b, err := runner.NewBuilder(ds, opts)
	if err != nil {
		return hoverResult{}, err
	}
	f, _, err := runner.Frame(ctx, ds, b, opts.Interaction())
	if err != nil {
		return hoverResult{}, err
	}

	key, ok := hittest.New(f).AtCanvas(x, y)
	if !ok {
		return hoverResult{}, apperr.New(apperr.ErrCodeNotFound, "no segment at %g,%g", x, y)
	}
	sg, _ := f.Segment(key)
	return newHoverResult(sg, opts.Interaction()), nil
}

func newHoverResult(sg glyph.SegmentGlyph, in glyph.Interaction) hoverResult {
	return hoverResult{
		Key:     sg.Key,
		Name:    sg.Name,
		Line:    sg.Line.String(),
		Fill:    sg.Fill,
		Speed:   sg.Speed,
		Caption: in.Caption(),
	}
}

func printHover(res hoverResult) {
	printSuccess("%s", res.Name)
	printKeyValue("Segment", res.Key)
	line := res.Line
	if id, err := network.ParseLine(res.Line); err == nil {
		line = lineSwatch(id)
	}
	printKeyValue("Line", line)
	speed := "unknown"
	if res.Speed != nil {
		speed = speedStyle(*res.Speed).Render(fmt.Sprintf("%.2f× median", *res.Speed))
	}
	printKeyValue("Speed", speed)
	printKeyValue("Fill", res.Fill)
	printDetail("%s", res.Caption)
}
