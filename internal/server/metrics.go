package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/texgraph/pkg/observability"
)

const namespace = "texgraph"

// Metrics exports pipeline, cache and HTTP events to Prometheus. It
// implements every hook interface in the observability package.
type Metrics struct {
	buildDuration  *prometheus.HistogramVec
	buildVertices  prometheus.Histogram
	renderDuration *prometheus.HistogramVec
	renderFormats  *prometheus.CounterVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	inFlight        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		buildDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Scene build duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}, []string{"status"}),
		buildVertices: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_vertices",
			Help:      "Vertices in the output object per build",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"status"}),
		renderFormats: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_formats_total",
			Help:      "Rendered artifacts by format",
		}, []string{"format"}),

		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses, stores and backend errors by key type",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_stored_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),

		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Error responses by route and error code",
		}, []string{"route", "code"}),
	}
}

// Install makes m the global hook implementation for all three concerns.
func (m *Metrics) Install() {
	observability.Install(observability.Hooks{Pipeline: m, Cache: m, HTTP: m})
}

func (m *Metrics) OnBuildStart(context.Context, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, vertices, _ int, d time.Duration, err error) {
	m.buildDuration.WithLabelValues(status(err)).Observe(d.Seconds())
	if err == nil {
		m.buildVertices.Observe(float64(vertices))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	m.renderDuration.WithLabelValues(status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	for _, f := range formats {
		m.renderFormats.WithLabelValues(f).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnCacheError(_ context.Context, keyType, _ string, _ error) {
	m.cacheEvents.WithLabelValues(keyType, "error").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.inFlight.Dec()
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, route, code string) {
	m.errorsTotal.WithLabelValues(route, code).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
