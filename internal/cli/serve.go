package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/populationgenomics/pedviz/internal/httpd"
	"github.com/populationgenomics/pedviz/pkg/cache"
	"github.com/populationgenomics/pedviz/pkg/pipeline"
)

// serveCommand creates the serve command for the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		scope     string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve <pedigree.ped|pedigree.json>",
		Short: "Serve pedigree previews over HTTP",
		Long: `Serve pedigree previews over HTTP.

The preview server exposes the families in the input file as JSON layouts
and rendered diagrams:

  GET /families            List family summaries
  GET /families/{id}       Layout as JSON
  GET /families/{id}.svg   SVG diagram
  GET /families/{id}.png   PNG diagram
  GET /families/{id}.dot   Graphviz DOT

With --redis, layouts and artifacts are cached in a shared Redis instance
instead of the local file cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr, redisAddr, scope, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, falls back to 127.0.0.1:8080)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address (host:port) for shared caching")
	cmd.Flags().StringVar(&scope, "scope", "", "cache key prefix, for sharing one redis between projects")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the cache and runner, then serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, input, addr, redisAddr, scope string, noCache bool) error {
	if addr == "" {
		addr = c.Config.Serve.Addr
	}
	if redisAddr == "" {
		redisAddr = c.Config.Serve.Redis
	}

	store, err := c.serveCache(ctx, redisAddr, noCache)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if scope != "" {
		keyer = cache.NewScopedKeyer(nil, scope+":")
	}

	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	srv := httpd.New(addr, input, runner, c.Logger)

	c.Logger.Infof("Serving %s on http://%s", input, addr)
	return srv.ListenAndServe(ctx)
}

// serveCache picks the cache backend for the preview server: redis when
// configured, the local file cache otherwise.
func (c *CLI) serveCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		store, err := cache.NewRedisCache(ctx, redisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", redisAddr, err)
		}
		return store, nil
	}
	return newCache(false)
}
