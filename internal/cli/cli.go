package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/subwayviz/spiderglyph/internal/server"
	"github.com/subwayviz/spiderglyph/pkg/buildinfo"
	"github.com/subwayviz/spiderglyph/pkg/cache"
	"github.com/subwayviz/spiderglyph/pkg/config"
	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/observability"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "spiderglyph"

	// defaultConfigFile is read from the working directory when --config is
	// not given.
	defaultConfigFile = "spiderglyph.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Spiderglyph draws transit lines as ridership-weighted glyphs",
		Long: `Spiderglyph renders a subway network as a glyph whose line thickness follows
station entries and whose color follows train speed, at any day and time of day
covered by the recorded samples.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Logger.GetLevel() <= LogDebug {
				observability.UseLogger(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+defaultConfigFile+" when present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.framesCommand())
	root.AddCommand(c.hoverCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.scrubCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the --config file, or spiderglyph.toml in the working
// directory when it exists, then the environment.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg config.CacheConfig, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Prefix)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(cfg.RedisURL)
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/spiderglyph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// inputFlags are the data, frame and cache flags shared by the commands
// that load a network. They override the config file only when set.
type inputFlags struct {
	network string
	spider  string
	samples string
	medians string
	width   float64
	height  float64
	scale   string
	noCache bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.network, "network", "", "station network JSON (nodes and links)")
	flags.StringVar(&f.spider, "spider", "", "spider layout JSON (station id to [x, y])")
	flags.StringVar(&f.samples, "samples", "", "historical samples JSON")
	flags.StringVar(&f.medians, "medians", "", "median transit times JSON")
	flags.Float64Var(&f.width, "width", 0, "frame width (default from config)")
	flags.Float64Var(&f.height, "height", 0, "frame height (default from config)")
	flags.StringVar(&f.scale, "scale", "", "width scale: linear (default), sqrt")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// apply copies the flags that were set on cmd into opts.
func (f *inputFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("network") {
		opts.Network = f.network
	}
	if flags.Changed("spider") {
		opts.Spider = f.spider
	}
	if flags.Changed("samples") {
		opts.Samples = f.samples
	}
	if flags.Changed("medians") {
		opts.Medians = f.medians
	}
	if flags.Changed("width") {
		opts.Width = f.width
	}
	if flags.Changed("height") {
		opts.Height = f.height
	}
	if flags.Changed("scale") {
		opts.Scale = f.scale
	}
}

// interactionFlags select the day, the time of day and the hovered segment.
type interactionFlags struct {
	day     int
	at      string
	hovered string
}

func (f *interactionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.day, "day", "d", 1, "day of week, 0 is Sunday")
	flags.StringVarP(&f.at, "time", "t", "08:00", "time of day as HH:MM or a duration such as 17h30m")
	flags.StringVar(&f.hovered, "hover", "", "segment key to highlight, for example alewife|davis")
}

func (f *interactionFlags) interaction() (glyph.Interaction, error) {
	tod, err := server.ParseTimeOfDay(f.at)
	if err != nil {
		return glyph.Interaction{}, err
	}
	return glyph.Interaction{Hovered: f.hovered, Day: f.day, Time: tod}, nil
}

// options builds pipeline options from the config with the flags on top.
func (c *CLI) options(cmd *cobra.Command, in *inputFlags) (pipeline.Options, config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, config.Config{}, err
	}
	opts := cfg.Options()
	in.apply(cmd, &opts)
	opts.Logger = c.Logger
	return opts, cfg, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// clockLabel formats a time of day as HHMM for file names.
func clockLabel(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%02d%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}
