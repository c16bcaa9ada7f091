// Package dot exports graphs as Graphviz DOT and renders SVG previews.
//
// Every node is written with a pinned position (pos="x,y!") so the neato
// engine keeps the picture layout instead of computing its own. Node and
// edge styles are mapped to a small set of Graphviz attributes; styles
// without a mapping fall back to the defaults.
//
//	src, err := dot.ToDOT(g, dot.Options{ShowWeights: true})
//	svg, err := dot.RenderSVG(ctx, src)
package dot
