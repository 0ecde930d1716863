package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subwayviz/spiderglyph/internal/server"
	"github.com/subwayviz/spiderglyph/pkg/cache"
	"github.com/subwayviz/spiderglyph/pkg/config"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
	"github.com/subwayviz/spiderglyph/pkg/session"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		in             inputFlags
		addr           string
		memorySessions bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve frames, hover lookups and sessions over HTTP",
		Long: `Serve frames, hover lookups and interaction sessions over HTTP.

The network is loaded and projected once at startup. Sessions are stored in
Redis when the cache backend is redis, in files when it is file, and in
memory otherwise (or with --memory-sessions).`,
		Example: `  spiderglyph serve --addr :9000
  SPIDERGLYPH_CACHE=redis SPIDERGLYPH_REDIS_URL=redis://localhost:6379/0 spiderglyph serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := c.options(cmd, &in)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(cfg.Cache, in.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			store, err := newSessionStore(cfg, runner.Cache, memorySessions)
			if err != nil {
				return fmt.Errorf("initialize sessions: %w", err)
			}
			return c.runServe(cmd.Context(), runner, opts, cfg.Server, store)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&memorySessions, "memory-sessions", false, "keep sessions in memory regardless of the cache backend")

	return cmd
}

// runServe loads the dataset and serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, cfg config.ServerConfig, store session.Store) error {
	load := startTimer(c.Logger)
	ds, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	load.done("dataset loaded", "stations", ds.Graph.StationCount(), "links", ds.Graph.LinkCount())

	srv, err := server.New(server.Options{
		Runner:         runner,
		Dataset:        ds,
		Pipeline:       opts,
		Sessions:       store,
		SessionTTL:     cfg.SessionTTL,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         c.Logger,
	})
	if err != nil {
		return err
	}

	printInfo("Listening on %s", StyleHighlight.Render(cfg.Addr))
	printNextStep("Try", "curl 'http://localhost"+cfg.Addr+"/api/frame?day=1&time=08:00'")
	return srv.ListenAndServe(ctx, cfg.Addr, cfg.ReadTimeout, cfg.WriteTimeout)
}

// newSessionStore picks the session backend matching the cache backend. A
// Redis store shares the cache's client, which the runner closes.
func newSessionStore(cfg config.Config, c cache.Cache, memory bool) (session.Store, error) {
	if memory {
		return session.NewMemoryStore(), nil
	}
	if rc, ok := c.(*cache.RedisCache); ok {
		var keyer cache.Keyer
		if cfg.Cache.Prefix != "" {
			keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
		}
		return session.NewRedisStore(rc.Client(), keyer), nil
	}
	if cfg.Cache.Backend == config.CacheFile {
		return session.NewFileStore("")
	}
	return session.NewMemoryStore(), nil
}
