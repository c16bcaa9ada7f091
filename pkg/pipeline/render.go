package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/texgraph/pkg/document"
	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/graph"
	"github.com/matzehuels/texgraph/pkg/render/dot"
	"github.com/matzehuels/texgraph/pkg/render/tikz"
	"github.com/matzehuels/texgraph/pkg/scene"
)

// Render generates output artifacts in the requested formats without
// touching any cache.
func Render(ctx context.Context, res *scene.Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dotSrc string
	for _, format := range opts.Formats {
		var data []byte
		var err error
		if isPreview(format) {
			if dotSrc == "" {
				if dotSrc, err = DOT(res, opts); err != nil {
					return nil, fmt.Errorf("render %s: %w", format, err)
				}
			}
			data, err = RenderPreview(ctx, dotSrc, format, opts.Scale)
		} else {
			data, err = RenderText(res, format, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderText emits tikz, tex or dot output.
func RenderText(res *scene.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatTikZ:
		g, _, err := Target(res, opts)
		if err != nil {
			return nil, err
		}
		s, err := tikz.String(g, TikzOptions(res, opts))
		return []byte(s), err
	case FormatTeX:
		f, err := Document(res, opts)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := f.Write(&buf, TikzOptions(res, opts)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		s, err := DOT(res, opts)
		return []byte(s), err
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "%s is not a text format", format).With("format", format)
}

// RenderPreview runs Graphviz over DOT source.
func RenderPreview(ctx context.Context, dotSrc, format string, scale float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return dot.RenderSVG(ctx, dotSrc)
	case FormatPDF:
		return dot.RenderPDF(ctx, dotSrc)
	case FormatPNG:
		return dot.RenderPNG(ctx, dotSrc, scale)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "%s is not a preview format", format).With("format", format)
}

// DOT converts the target object to Graphviz source.
func DOT(res *scene.Result, opts Options) (string, error) {
	g, _, err := Target(res, opts)
	if err != nil {
		return "", err
	}
	return dot.ToDOT(g, dot.Options{ShowWeights: TikzOptions(res, opts).ShowWeights})
}

// Target returns the object to render: opts.Object when set, otherwise the
// scene's output.
func Target(res *scene.Result, opts Options) (*graph.Graph, string, error) {
	name := opts.Object
	if name == "" {
		name = res.OutputName
	}
	g, ok := res.Objects[name]
	if !ok {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "scene has no object %q", name).
			With("object", name).
			With("objects", res.Names)
	}
	return g, name, nil
}

// TikzOptions merges the scene's emission settings with overrides.
func TikzOptions(res *scene.Result, opts Options) tikz.Options {
	to := res.TikzOptions()
	if opts.Precision > 0 {
		to.Precision = opts.Precision
	}
	to.ShowWeights = to.ShowWeights || opts.ShowWeights
	return to
}

// Document returns the LaTeX file for the scene. Scenes without a document
// section get an article holding the target object; otherwise the declared
// figures are used as is. A class override keeps figures and metadata.
func Document(res *scene.Result, opts Options) (*document.File, error) {
	src := res.Document
	if src == nil {
		g, name, err := Target(res, opts)
		if err != nil {
			return nil, err
		}
		class := document.ClassArticle
		if opts.Class != "" {
			class = document.Class(opts.Class)
		}
		f, err := document.NewFile(class, "")
		if err != nil {
			return nil, err
		}
		f.Catalog = res.Catalog
		f.AddGraph(name, g)
		return f, nil
	}
	if opts.Class == "" || document.Class(opts.Class) == src.Class {
		return src, nil
	}
	f, err := document.NewFile(document.Class(opts.Class), src.Title)
	if err != nil {
		return nil, err
	}
	copyMeta(f, src)
	for _, fig := range src.Figures() {
		f.AddFigure(fig)
	}
	return f, nil
}

func copyMeta(dst, src *document.File) {
	dst.Author = src.Author
	dst.Date = src.Date
	dst.Institute = src.Institute
	dst.Theme = src.Theme
	dst.ColorTheme = src.ColorTheme
	dst.Catalog = src.Catalog
}
