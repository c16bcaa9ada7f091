// Package server serves the scene pipeline over HTTP.
//
// # Endpoints
//
//   - POST /v1/render?format=tikz: render the scene in the request body
//   - GET /healthz: liveness probe
//   - GET /metrics: Prometheus metrics
//
// The body is a TOML scene unless the Content-Type names YAML or the
// scene=yaml query parameter is set. Every request builds its own graphs,
// so no picture state is shared between requests.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/texgraph/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr          = ":8080"
	DefaultMaxSceneBytes = 1 << 20
	DefaultRenderTimeout = 30 * time.Second
)

// Config holds server settings. Zero values take the defaults above.
type Config struct {
	Addr          string
	MaxSceneBytes int64
	RenderTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxSceneBytes <= 0 {
		c.MaxSceneBytes = DefaultMaxSceneBytes
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = DefaultRenderTimeout
	}
}

// Server renders scenes on request.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	cfg      Config
	gatherer prometheus.Gatherer
}

// New creates a server. gatherer backs /metrics; nil uses the default
// Prometheus registry.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config, gatherer prometheus.Gatherer) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{runner: runner, logger: logger, cfg: cfg, gatherer: gatherer}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
	})
	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.RenderTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
