package cli

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/texgraph/internal/server"
	"github.com/matzehuels/texgraph/pkg/cache"
	"github.com/matzehuels/texgraph/pkg/pipeline"
)

type serveOpts struct {
	addr          string
	redisURL      string
	noCache       bool
	maxSceneBytes int64
	timeout       time.Duration
	logFormat     string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render scenes over HTTP",
		Long: `Serve the render pipeline over HTTP.

POST a scene to /v1/render?format=tikz to get the rendered artifact back.
Metrics are exported at /metrics and a liveness probe at /healthz.

Renders are cached on disk by default; --redis shares the cache between
instances.`,
		Example: `  texgraph serve --addr :8080
  texgraph serve --redis redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "redis URL for a shared render cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Int64Var(&opts.maxSceneBytes, "max-scene-bytes", server.DefaultMaxSceneBytes, "largest accepted scene body")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", server.DefaultRenderTimeout, "per-request render timeout")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "text", "log record format: text, json, logfmt")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger, err := withFormat(loggerFromContext(ctx), opts.logFormat)
	if err != nil {
		return err
	}

	var (
		store cache.Cache
		keyer cache.Keyer
	)
	if opts.redisURL != "" && !opts.noCache {
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return err
		}
		logger.Info("using redis cache", "addr", rc.Addr())
		store = rc
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":serve:")
	} else if store, err = newCache(opts.noCache); err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, keyer, logger)
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	server.NewMetrics(reg).Install()

	srv := server.New(runner, logger, server.Config{
		Addr:          opts.addr,
		MaxSceneBytes: opts.maxSceneBytes,
		RenderTimeout: opts.timeout,
	}, reg)
	return srv.Run(ctx)
}
