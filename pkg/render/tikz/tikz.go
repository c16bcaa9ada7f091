package tikz

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/graph"
)

// DefaultPrecision is the number of decimals used for coordinates.
const DefaultPrecision = 3

// Options configures emission.
type Options struct {
	// ShowWeights labels every edge with a non-zero weight at its midpoint.
	ShowWeights bool
	// Precision is the number of decimals for coordinates; 0 means
	// [DefaultPrecision].
	Precision int
	// Indent is prepended to every emitted line, for nesting the picture
	// inside a larger document.
	Indent string
	// PictureOptions is placed in brackets after \begin{tikzpicture}, e.g.
	// "scale=0.8".
	PictureOptions string
}

func (o Options) precision() int {
	if o.Precision <= 0 {
		return DefaultPrecision
	}
	return o.Precision
}

// Picture writes a complete tikzpicture environment for g: a node layer
// followed by an edge layer that also carries the decorations.
func Picture(w io.Writer, g *graph.Graph, opts Options) error {
	edges, err := g.Edges()
	if err != nil {
		return err
	}
	e := newEmitter(w, g, opts)
	if opts.PictureOptions != "" {
		e.line(0, `\begin{tikzpicture}[%s]`, opts.PictureOptions)
	} else {
		e.line(0, `\begin{tikzpicture}`)
	}
	e.layers(edges)
	e.line(0, `\end{tikzpicture}`)
	return e.close()
}

// Layers writes the node and edge layers without the surrounding
// tikzpicture, for callers that assemble their own environment.
func Layers(w io.Writer, g *graph.Graph, opts Options) error {
	edges, err := g.Edges()
	if err != nil {
		return err
	}
	e := newEmitter(w, g, opts)
	e.layers(edges)
	return e.close()
}

// Nodes writes one \node line per vertex, in insertion order.
func Nodes(w io.Writer, g *graph.Graph, opts Options) error {
	e := newEmitter(w, g, opts)
	e.nodes(0)
	return e.close()
}

// Edges writes one \draw line per directed edge, grouped by source in
// vertex insertion order.
func Edges(w io.Writer, g *graph.Graph, opts Options) error {
	edges, err := g.Edges()
	if err != nil {
		return err
	}
	e := newEmitter(w, g, opts)
	e.edges(0, edges)
	return e.close()
}

// Decorations writes the decoration shapes in list order.
func Decorations(w io.Writer, g *graph.Graph, opts Options) error {
	e := newEmitter(w, g, opts)
	e.decorations(0)
	return e.close()
}

// String renders g with [Picture] into a string.
func String(g *graph.Graph, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Picture(&buf, g, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// emitter writes lines and remembers the first write error; later writes
// become no-ops.
type emitter struct {
	w    io.Writer
	g    *graph.Graph
	opts Options
	prec int
	err  error
}

func newEmitter(w io.Writer, g *graph.Graph, opts Options) *emitter {
	return &emitter{w: w, g: g, opts: opts, prec: opts.precision()}
}

func (e *emitter) line(depth int, format string, args ...any) {
	if e.err != nil {
		return
	}
	var b strings.Builder
	b.WriteString(e.opts.Indent)
	b.WriteString(strings.Repeat("\t", depth))
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')
	_, e.err = io.WriteString(e.w, b.String())
}

func (e *emitter) close() error {
	if e.err != nil {
		return errors.Wrap(errors.ErrCodeIO, e.err, "write tikz")
	}
	return nil
}

func (e *emitter) layers(edges []graph.EdgeRef) {
	clip, hasClip := e.g.Clip()

	e.line(1, `\begin{pgfonlayer}{nodelayer}`)
	if hasClip {
		e.line(1, `\clip %s rectangle %s;`, e.pt(clip.Min), e.pt(clip.Max))
	}
	e.nodes(2)
	e.line(1, `\end{pgfonlayer}`)

	e.line(1, `\begin{pgfonlayer}{edgelayer}`)
	if hasClip {
		e.line(1, `\clip %s rectangle %s;`, e.pt(clip.Min), e.pt(clip.Max))
	}
	if grid, ok := e.g.Grid(); ok {
		e.line(1, `\draw[thick,color=gray!25!white,step=1cm,dashed] %s grid %s;`, e.pt(grid.Min), e.pt(grid.Max))
	}
	e.edges(2, edges)
	e.decorations(2)
	e.line(1, `\end{pgfonlayer}`)
}

func (e *emitter) nodes(depth int) {
	for _, id := range e.g.IDs() {
		v, _ := e.g.Vertex(id)
		style := e.g.ResolveNodeStyle(v)
		e.line(depth, `\node [style=%s] (%s) at %s {%s};`, style, e.name(id), e.pt(v.Position()), labelText(v.Label(), style))
	}
}

// labelText applies the contrast rule: labels on dark nodes are drawn white.
func labelText(label string, style graph.Style) string {
	if label == "" {
		return ""
	}
	if style == graph.StyleDark {
		return `\color{white} ` + label
	}
	return label
}

func (e *emitter) edges(depth int, edges []graph.EdgeRef) {
	for _, ed := range edges {
		style := e.g.ResolveEdgeStyle(ed.Style)
		mid := "to"
		if e.opts.ShowWeights && ed.Weight != 0 {
			mid = fmt.Sprintf("to node[midway, fill=white, inner sep=1pt] {%s}", formatWeight(ed.Weight))
		}
		e.line(depth, `\draw [style=%s] (%s) %s (%s);`, style, e.name(ed.From), mid, e.name(ed.To))
	}
}

func (e *emitter) decorations(depth int) {
	for _, d := range e.g.Decorations() {
		if len(d.Clip) > 0 {
			e.line(depth, `\begin{scope}`)
			e.line(depth+1, `\clip %s;`, e.path(d.Clip, true))
			e.shape(depth+1, d)
			e.line(depth, `\end{scope}`)
		} else {
			e.shape(depth, d)
		}
		if d.Label != "" {
			e.line(depth, `\node[style=none] at %s {%s};`, e.pt(d.LabelAt), d.Label)
		}
	}
}

func (e *emitter) shape(depth int, d graph.Decoration) {
	cmd := `\` + string(d.Mode)
	if d.Style != "" {
		cmd += "[" + d.Style + "]"
	}
	switch d.Kind {
	case graph.ShapeRectangle:
		e.line(depth, `%s %s rectangle %s;`, cmd, e.pt(d.Points[0]), e.pt(d.Points[1]))
	case graph.ShapeCircle:
		e.line(depth, `%s %s circle (%s);`, cmd, e.pt(d.Points[0]), e.num(d.Radius))
	case graph.ShapePolygon:
		e.line(depth, `%s %s;`, cmd, e.path(d.Points, true))
	case graph.ShapePolyline:
		e.line(depth, `%s %s;`, cmd, e.path(d.Points, false))
	}
}

func (e *emitter) path(pts []graph.Point, closed bool) string {
	parts := make([]string, 0, len(pts)+1)
	for _, p := range pts {
		parts = append(parts, e.pt(p))
	}
	if closed {
		parts = append(parts, "cycle")
	}
	return strings.Join(parts, " -- ")
}

func (e *emitter) name(id string) string { return e.g.NodePrefix() + id }

func (e *emitter) pt(p graph.Point) string {
	return "(" + e.num(p.X) + "," + e.num(p.Y) + ")"
}

func (e *emitter) num(x float64) string {
	s := strconv.FormatFloat(x, 'f', e.prec, 64)
	if strings.Trim(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return s
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'g', -1, 64)
}
