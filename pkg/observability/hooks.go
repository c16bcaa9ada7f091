// Package observability lets a host program watch texgraph at work without
// the libraries importing a metrics framework.
//
// The pipeline, the cache layer and the render server report events to
// whichever hooks are installed. Nothing is installed by default: every
// category starts as a no-op, so library code can call hooks freely.
//
// # Installing hooks
//
// Programs install a [Hooks] bundle once, before work starts. Nil fields
// leave the current implementation in place:
//
//	observability.Install(observability.Hooks{
//	    Pipeline: metrics,
//	    Cache:    metrics,
//	})
//
// The serve command does exactly this with its Prometheus collectors.
//
// # Emitting events
//
//	hooks := observability.Pipeline()
//	hooks.OnBuildStart(ctx, len(names))
//	res, err := s.Build()
//	hooks.OnBuildComplete(ctx, vertices, edges, time.Since(start), err)
//
// Accessors are safe for concurrent use and never return nil.
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PipelineHooks observes scene builds and artifact rendering.
type PipelineHooks interface {
	// OnBuildStart fires before a scene is built. objects counts the named
	// objects the scene declares.
	OnBuildStart(ctx context.Context, objects int)
	// OnBuildComplete reports the size of the output graph, or err.
	OnBuildComplete(ctx context.Context, vertices, edges int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes the render cache. keyType is "render" for emitted
// artifacts and "preview" for Graphviz output.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	// OnCacheSet reports a stored artifact of size bytes.
	OnCacheSet(ctx context.Context, keyType string, size int)
	// OnCacheError reports a backend failure. op is "get" or "set". The
	// pipeline degrades to uncached rendering after calling it.
	OnCacheError(ctx context.Context, keyType, op string, err error)
}

// HTTPHooks observes the render server.
type HTTPHooks interface {
	// OnRequest fires before routing, with the raw request path.
	OnRequest(ctx context.Context, method, path string)
	// OnResponse fires once the handler returns. route is the matched
	// pattern ("unmatched" for 404s) so label sets stay bounded.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	// OnError reports the error code of a failed request.
	OnError(ctx context.Context, method, route, code string)
}

// NoopPipelineHooks ignores every event. Embed it to implement a subset.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)                  {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)                 {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)             {}
func (NoopCacheHooks) OnCacheError(context.Context, string, string, error) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string)                {}

// Hooks is one implementation per event category.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func noop() *Hooks {
	return &Hooks{
		Pipeline: NoopPipelineHooks{},
		Cache:    NoopCacheHooks{},
		HTTP:     NoopHTTPHooks{},
	}
}

var (
	// installMu serializes writers; readers load current without locking.
	installMu sync.Mutex
	current   atomic.Pointer[Hooks]
)

func init() { current.Store(noop()) }

// Install replaces the non-nil fields of h and keeps the rest.
func Install(h Hooks) {
	installMu.Lock()
	defer installMu.Unlock()
	next := *current.Load()
	if h.Pipeline != nil {
		next.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		next.Cache = h.Cache
	}
	if h.HTTP != nil {
		next.HTTP = h.HTTP
	}
	current.Store(&next)
}

// SetPipelineHooks installs h for pipeline events. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) { Install(Hooks{Pipeline: h}) }

// SetCacheHooks installs h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { Install(Hooks{Cache: h}) }

// SetHTTPHooks installs h for server events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { Install(Hooks{HTTP: h}) }

// Installed returns a copy of the current bundle.
func Installed() Hooks { return *current.Load() }

func Pipeline() PipelineHooks { return current.Load().Pipeline }

func Cache() CacheHooks { return current.Load().Cache }

func HTTP() HTTPHooks { return current.Load().HTTP }

// Reset puts the no-op hooks back. Tests call it from t.Cleanup.
func Reset() {
	installMu.Lock()
	defer installMu.Unlock()
	current.Store(noop())
}
