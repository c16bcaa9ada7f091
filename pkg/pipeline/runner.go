package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/texgraph/pkg/cache"
	"github.com/matzehuels/texgraph/pkg/observability"
	"github.com/matzehuels/texgraph/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options; every run builds its own graphs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		SceneHash: cache.Hash(opts.Scene),
		Artifacts: make(map[string][]byte),
	}

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, result.SceneHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Info("served from cache", "formats", opts.Formats, "hash", result.SceneHash[:12])
			return result, nil
		}
	}

	// Stage 1: Build
	buildStart := time.Now()
	res, err := r.Build(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Scene = res
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Objects = len(res.Names)
	if g, _, err := Target(res, opts); err == nil {
		result.Stats.Vertices = g.Len()
		result.Stats.Edges = g.EdgeCount()
	}

	r.Logger.Info("built scene",
		"objects", result.Stats.Objects,
		"output", res.OutputName,
		"vertices", result.Stats.Vertices,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, res, result.SceneHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build parses and builds the scene, reporting build events.
func (r *Runner) Build(ctx context.Context, opts Options) (*scene.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	s, err := scene.Parse(opts.Scene, opts.SceneFormat)
	if err != nil {
		return nil, err
	}
	if opts.Dir != "" {
		s.SetDir(opts.Dir)
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(s.ObjectNames()))
	start := time.Now()
	res, err := s.BuildContext(ctx)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	var vertices, edges int
	if g := res.Output(); g != nil {
		vertices, edges = g.Len(), g.EdgeCount()
	}
	hooks.OnBuildComplete(ctx, vertices, edges, time.Since(start), nil)
	return res, nil
}

// Render emits every requested format and stores each artifact under its
// render key. Previews are additionally cached by DOT content, so scenes
// that differ only in TikZ-specific settings share them.
func (r *Runner) Render(ctx context.Context, res *scene.Result, sceneHash string, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dotSrc string
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, err
		}
		var data []byte
		var err error
		if isPreview(format) {
			if dotSrc == "" {
				dotSrc, err = DOT(res, opts)
			}
			if err == nil {
				data, err = r.preview(ctx, dotSrc, format, opts)
			}
		} else {
			data, err = RenderText(res, format, opts)
		}
		if err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, err
		}
		artifacts[format] = data
		r.store(ctx, "render", r.Keyer.RenderKey(sceneHash, opts.RenderKeyOpts(format)), data, cache.RenderTTL)
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, nil
}

func (r *Runner) preview(ctx context.Context, dotSrc, format string, opts Options) ([]byte, error) {
	key := r.Keyer.PreviewKey(cache.Hash([]byte(dotSrc)), opts.PreviewKeyOpts(format))
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, "preview", key); ok {
			return data, nil
		}
	}
	data, err := RenderPreview(ctx, dotSrc, format, opts.Scale)
	if err != nil {
		return nil, err
	}
	r.store(ctx, "preview", key, data, cache.PreviewTTL)
	return data, nil
}

// cached returns every requested format from the cache, or false if any
// one is missing.
func (r *Runner) cached(ctx context.Context, sceneHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok := r.lookup(ctx, "render", r.Keyer.RenderKey(sceneHash, opts.RenderKeyOpts(format)))
		if !ok {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
		observability.Cache().OnCacheError(ctx, keyType, "get", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		observability.Cache().OnCacheError(ctx, keyType, "set", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
