package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
	"github.com/subwayviz/spiderglyph/pkg/snapshot"
)

// scrubCommand creates the scrub command, an interactive time scrubber.
func (c *CLI) scrubCommand() *cobra.Command {
	var (
		in   inputFlags
		ia   interactionFlags
		step time.Duration
	)

	cmd := &cobra.Command{
		Use:   "scrub",
		Short: "Step through days and times interactively",
		Long: `Step through days and times interactively.

The scrubber shows the network-wide entries and delay and the slowest
segments at the selected moment. Press s to save the current frame as SVG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := c.options(cmd, &in)
			if err != nil {
				return err
			}
			interaction, err := ia.interaction()
			if err != nil {
				return err
			}
			opts = opts.WithInteraction(interaction)
			opts.Formats = []string{pipeline.FormatSVG}

			runner, err := c.newRunner(cfg.Cache, in.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runScrub(cmd.Context(), runner, opts, step)
		},
	}

	in.register(cmd)
	ia.register(cmd)
	cmd.Flags().DurationVar(&step, "step", snapshot.BucketSize, "time step of the arrow keys")

	return cmd
}

// runScrub loads the dataset once and hands frame computation to the TUI.
func (c *CLI) runScrub(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, step time.Duration) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	spin := startSpinner(ctx, "Loading network...")
	ds, err := runner.Load(ctx, opts)
	if err != nil {
		spin.Fail("Load failed")
		return fmt.Errorf("load: %w", err)
	}
	spin.Update(fmt.Sprintf("Projecting %d stations...", ds.Graph.StationCount()))
	b, err := runner.NewBuilder(ds, opts)
	if err != nil {
		spin.Fail("Projection failed")
		return err
	}
	spin.Stop()

	// The TUI owns the terminal; keep log lines out of it.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(LogWarn)
	defer c.Logger.SetLevel(level)

	compute := func(in glyph.Interaction) (*glyph.Frame, *snapshot.Snapshot, error) {
		return runner.Frame(ctx, ds, b, in)
	}
	save := func(f *glyph.Frame, in glyph.Interaction) (string, error) {
		artifacts, err := runner.Render(ctx, ds, b, f, opts.WithInteraction(in))
		if err != nil {
			return "", err
		}
		path := defaultBase(in) + ".svg"
		if err := os.WriteFile(path, artifacts[pipeline.FormatSVG], 0o644); err != nil {
			return "", err
		}
		return path, nil
	}

	p := tea.NewProgram(NewScrubModel(opts.Interaction(), step, compute, save), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(ScrubModel); ok {
		printDetail("Stopped at %s", m.In.Caption())
		printNextStep("Render it", fmt.Sprintf("%s render -d %d -t %s", appName, m.In.Day, clockString(m.In.Time)))
	}
	return nil
}

// clockString formats a time of day as HH:MM.
func clockString(d time.Duration) string {
	label := clockLabel(d)
	return label[:2] + ":" + label[2:]
}
