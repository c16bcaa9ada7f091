// Package pipeline turns scene files into rendered output.
//
// This package implements the scene → build → render flow shared by the CLI
// and the HTTP server, so both entry points cache, log and report events the
// same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Build: parse and validate the scene, then generate every object it
//     declares (see package scene)
//  2. Render: emit the selected object as TikZ, a LaTeX document, DOT, or a
//     Graphviz preview (SVG, PDF, PNG)
//
// Rendered artifacts are cached by scene content, so re-rendering an
// unchanged scene skips the build entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Scene:   data,
//	    Formats: []string{pipeline.FormatTikZ},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tikz := result.Artifacts[pipeline.FormatTikZ]
package pipeline

import (
	"time"

	"github.com/matzehuels/texgraph/pkg/cache"
	"github.com/matzehuels/texgraph/pkg/document"
	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultScale is the PNG preview scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatTikZ = "tikz"
	FormatTeX  = "tex"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// Formats lists every supported output format.
var Formats = []string{FormatTikZ, FormatTeX, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// Extension returns the file extension conventionally used for format.
func Extension(format string) string {
	if format == FormatTikZ {
		return ".tikz"
	}
	return "." + format
}

// ContentType returns the MIME type served for format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatTeX, FormatTikZ:
		return "application/x-tex; charset=utf-8"
	}
	return "application/octet-stream"
}

// isPreview reports whether format is produced by Graphviz.
func isPreview(format string) bool {
	return format == FormatSVG || format == FormatPDF || format == FormatPNG
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scene is the raw scene file.
	Scene []byte `json:"scene"`
	// SceneFormat defaults to TOML.
	SceneFormat scene.Format `json:"scene_format,omitempty"`
	// Dir resolves relative paths inside the scene, such as a catalog file.
	Dir string `json:"-"`

	// Object overrides the scene's output object.
	Object string `json:"object,omitempty"`
	// Class overrides the document class for tex output.
	Class string `json:"class,omitempty"`
	// Precision overrides the scene's coordinate precision when positive.
	Precision int `json:"precision,omitempty"`
	// ShowWeights forces edge weight labels on.
	ShowWeights bool `json:"show_weights,omitempty"`

	Formats []string `json:"formats,omitempty"`
	// Scale applies to PNG previews.
	Scale float64 `json:"scale,omitempty"`
	// Refresh ignores cached artifacts; fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the built scene. It is nil when every artifact came from
	// the cache.
	Scene *scene.Result

	// SceneHash is the content hash of the scene file.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Objects    int
	Vertices   int
	Edges      int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateClass checks a document class override.
func ValidateClass(class string) error {
	for _, c := range document.Classes() {
		if string(c) == class {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid document class %q", class).With("class", class)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Scene) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scene is required")
	}
	if o.SceneFormat == "" {
		o.SceneFormat = scene.FormatTOML
	}
	if _, err := scene.ParseFormat(string(o.SceneFormat)); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatTikZ}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Class != "" {
		if err := ValidateClass(o.Class); err != nil {
			return err
		}
	}
	if o.Precision < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "precision must not be negative").With("precision", o.Precision)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.validated = true
	return nil
}

// RenderKeyOpts returns cache key options for a rendered format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	opts := cache.RenderKeyOpts{
		Format:      format,
		Precision:   o.Precision,
		ShowWeights: o.ShowWeights,
		Object:      o.Object,
		Dir:         o.Dir,
	}
	if format == FormatTeX {
		opts.Class = o.Class
	}
	return opts
}

// PreviewKeyOpts returns cache key options for a Graphviz preview.
func (o *Options) PreviewKeyOpts(format string) cache.PreviewKeyOpts {
	opts := cache.PreviewKeyOpts{Format: format}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
