// Package pkg provides the core libraries for texgraph picture generation.
//
// # Overview
//
// texgraph turns positioned graphs into TikZ pictures meant to be pasted
// into LaTeX: integer lattices, matrix grids, binary trees and classic
// graphs, drawn with named styles from a shared preamble. The pkg
// directory is organized into four main areas:
//
//  1. [graph] - The positioned graph model and its geometric operations
//  2. [lattice] and [generate] - Builders for structured pictures
//  3. [render] - Output formats (TikZ, Graphviz previews)
//  4. [scene], [document] and [pipeline] - Declarative input and orchestration
//
// # Architecture
//
// The typical data flow through texgraph:
//
//	Scene file (TOML or YAML)
//	         ↓
//	    [scene] package (decode, validate, build named objects)
//	         ↓
//	    [graph] package (overlay, transform, highlight)
//	         ↓
//	    [render/tikz] or [document] (picture or full LaTeX document)
//	         ↓
//	    .tikz / .tex / DOT / SVG / PDF / PNG
//
// # Quick Start
//
// Build a lattice and print it as TikZ:
//
//	cfg := lattice.DefaultConfig()
//	l, _ := lattice.New(cfg)
//	_ = l.Construct()
//	g, _ := l.Compose()
//	out, _ := tikz.String(g, tikz.Options{})
//
// Or run a scene through the cached pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{
//	    Scene:   data,
//	    Formats: []string{pipeline.FormatTikZ, pipeline.FormatSVG},
//	})
//
// # Main Packages
//
// [graph] - Vertices with 2D positions, labels and styles; weighted directed
// edges; decorations (circles, rectangles, lines, text) and clip windows.
// Graphs overlay, translate, rotate, scale and mirror as a whole.
//
// [lattice] - The integer lattice spanned by two basis vectors, closed over
// a window, with optional grid, basis arrows and fundamental cell.
//
// [generate] - Matrix grids with entries and highlighted blocks, complete
// binary trees, the Petersen graph and cycles.
//
// [render/tikz] - TikZ emission with separate node and edge layers.
//
// [render/dot] - Graphviz DOT with pinned positions, rendered to SVG for
// previews. [render] converts SVG to PDF and PNG.
//
// [document] - The style catalog, its preamble, and complete article or
// beamer documents with one section or frame per figure.
//
// [scene] - Declarative scene files naming every object, overlay,
// transform, highlight and figure.
//
// [pipeline] - Scene → build → render orchestration with caching, shared by
// the CLI and the HTTP server.
//
// [cache] - Null, file and Redis caches keyed by content hash.
//
// [observability] - Hook interfaces for build, cache and HTTP events.
//
// [errors] - Structured error codes shared by every package.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/graph
// [lattice]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/lattice
// [generate]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/generate
// [render]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/render
// [render/tikz]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/render/tikz
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/render/dot
// [document]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/document
// [scene]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/scene
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/texgraph/pkg/errors
package pkg
