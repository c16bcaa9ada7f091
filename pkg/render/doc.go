// Package render groups the output formats for texgraph pictures.
//
// # Overview
//
//   - [tikz]: the primary output, TikZ markup with node and edge layers
//   - [dot]: Graphviz DOT with pinned positions, for quick SVG previews
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert an SVG preview to other formats
// using the external rsvg-convert tool (from librsvg):
//
//	src, _ := dot.ToDOT(g, dot.Options{})
//	svg, _ := dot.RenderSVG(ctx, src)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [tikz]: github.com/matzehuels/texgraph/pkg/render/tikz
// [dot]: github.com/matzehuels/texgraph/pkg/render/dot
package render
