package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/texgraph/pkg/graph"
	"github.com/matzehuels/texgraph/pkg/render"
)

// PointsPerUnit converts picture units to Graphviz points (1 unit = 1 cm).
const PointsPerUnit = 28.35

// Options configures DOT export.
type Options struct {
	// ShowWeights labels edges with non-zero weights.
	ShowWeights bool
	// ShowStyles appends the resolved style to node tooltips and labels
	// unlabelled nodes with their id.
	ShowStyles bool
}

// ToDOT converts g to Graphviz DOT with every node pinned at its picture
// position, so the neato engine reproduces the TikZ layout. Decorations
// and windows are not exported.
func ToDOT(g *graph.Graph, opts Options) (string, error) {
	edges, err := g.Edges()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, id := range g.IDs() {
		v, _ := g.Vertex(id)
		attrs := nodeAttrs(id, v, g.ResolveNodeStyle(v), opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", g.NodePrefix()+id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		attrs := edgeAttrs(g.ResolveEdgeStyle(e.Style))
		if opts.ShowWeights && e.Weight != 0 {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(e.Weight, 'g', -1, 64)))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", g.NodePrefix()+e.From, g.NodePrefix()+e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeAttrs(id string, v *graph.Vertex, style graph.Style, opts Options) []string {
	p := v.Position()
	label := v.Label()
	if label == "" && opts.ShowStyles {
		label = id
	}
	attrs := []string{
		fmt.Sprintf("pos=\"%s,%s!\"", fmtPt(p.X), fmtPt(p.Y)),
		fmt.Sprintf("label=%q", label),
	}
	if opts.ShowStyles {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", string(style)))
	}
	switch {
	case style == graph.StyleNone:
		attrs = append(attrs, "shape=point", "width=0.02")
	case style == graph.StyleDark:
		attrs = append(attrs, "fillcolor=black", "fontcolor=white")
	case style == graph.StyleLittle:
		attrs = append(attrs, "fillcolor=gray", "color=gray", "width=0.1")
	default:
		if c := leadingColor(string(style)); c != "" {
			attrs = append(attrs, "fillcolor="+c)
		}
	}
	return attrs
}

func edgeAttrs(style graph.Style) []string {
	var attrs []string
	switch {
	case style == graph.StyleDotted:
		attrs = append(attrs, "style=dotted", "arrowhead=none")
	case style == graph.StyleThin:
		attrs = append(attrs, "color=lightgray", "arrowhead=none")
	case style == graph.StyleAxis, style == graph.StyleBasisArrow:
		attrs = append(attrs, "penwidth=2")
	case strings.HasPrefix(string(style), string(graph.StyleNone)):
		attrs = append(attrs, "arrowhead=none")
	}
	return attrs
}

// tikzColors maps the xcolor names used by the bundled node styles to
// Graphviz colors.
var tikzColors = map[string]string{
	"rn": "red", "gn": "green", "yn": "yellow", "wstyle": "white",
	"red": "red", "blue": "blue", "green": "green", "lime": "green",
	"yellow": "yellow", "gray": "gray", "lightgray": "lightgray", "white": "white",
	"black": "black", "orange": "orange", "cyan": "cyan", "magenta": "magenta",
}

func leadingColor(style string) string {
	head, _, _ := strings.Cut(style, ",")
	return tikzColors[strings.TrimSpace(head)]
}

func fmtPt(x float64) string {
	return strconv.FormatFloat(x*PointsPerUnit, 'f', 2, 64)
}

// RenderSVG renders DOT source to SVG with the neato engine, which honours
// the pinned node positions written by [ToDOT].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion at the given scale.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
