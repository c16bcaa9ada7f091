package graph

import (
	"slices"

	"github.com/matzehuels/texgraph/pkg/errors"
)

const (
	// DefaultNodeStyle is used when [Config.NodeStyle] is empty.
	DefaultNodeStyle = StyleNone
	// DefaultEdgeStyle is used when [Config.EdgeStyle] is empty.
	DefaultEdgeStyle = StyleNone
)

// Config holds the construction-time settings of a Graph.
type Config struct {
	// NodeStyle is the fallback for vertices without their own style.
	NodeStyle Style
	// EdgeStyle is the fallback for edges without their own style.
	EdgeStyle Style
	// NodePrefix is prepended to every node name at emission time so several
	// graphs can share one picture without anchor clashes.
	NodePrefix string
	// Clip, when set, limits the rendered extent.
	Clip *Rect
	// Grid, when set, draws a dashed background grid over this box.
	Grid *Rect
	// Validator, when set, vets every explicit style token.
	Validator StyleValidator
}

// Graph is an insertion-ordered table of named vertices plus default styles,
// decorations and optional clip/grid windows.
//
// A Graph is not safe for concurrent use. Because [Graph.Combine] returns a
// view that shares vertices with its operands, all graphs that share a
// vertex must be treated as having a single writer.
type Graph struct {
	cfg         Config
	order       []string
	vertices    map[string]*Vertex
	names       map[*Vertex]string
	count       int
	decorations []Decoration
}

// New returns an empty graph. Empty default styles fall back to
// [DefaultNodeStyle] and [DefaultEdgeStyle].
func New(cfg Config) (*Graph, error) {
	if cfg.NodeStyle.IsInherit() {
		cfg.NodeStyle = DefaultNodeStyle
	}
	if cfg.EdgeStyle.IsInherit() {
		cfg.EdgeStyle = DefaultEdgeStyle
	}
	g := &Graph{
		vertices: make(map[string]*Vertex),
		names:    make(map[*Vertex]string),
	}
	g.cfg.Validator = cfg.Validator
	if err := g.checkStyle(cfg.NodeStyle); err != nil {
		return nil, err
	}
	if err := g.checkStyle(cfg.EdgeStyle); err != nil {
		return nil, err
	}
	for _, r := range []*Rect{cfg.Clip, cfg.Grid} {
		if err := checkRect(r); err != nil {
			return nil, err
		}
	}
	g.cfg = cfg
	g.cfg.Clip = copyRect(cfg.Clip)
	g.cfg.Grid = copyRect(cfg.Grid)
	return g, nil
}

// MustNew is like New but panics on error. It is intended for package-level
// fixtures and tests.
func MustNew(cfg Config) *Graph {
	g, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return g
}

// Config returns a copy of the graph's current settings.
func (g *Graph) Config() Config {
	c := g.cfg
	c.Clip = copyRect(g.cfg.Clip)
	c.Grid = copyRect(g.cfg.Grid)
	return c
}

// VertexOption configures a vertex at insertion time.
type VertexOption func(*vertexOptions)

type vertexOptions struct {
	label string
	style Style
}

// WithLabel sets the display text drawn inside the node.
func WithLabel(label string) VertexOption {
	return func(o *vertexOptions) { o.label = label }
}

// WithStyle overrides the graph's default node style for this vertex.
func WithStyle(s Style) VertexOption {
	return func(o *vertexOptions) { o.style = s }
}

// AddVertex inserts a vertex under id. It fails with [ErrDuplicateVertex]
// when id is already present; existing vertices are never overwritten.
func (g *Graph) AddVertex(id string, pos Point, opts ...VertexOption) (*Vertex, error) {
	var o vertexOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := errors.ValidateVertexID(id); err != nil {
		return nil, err
	}
	if _, ok := g.vertices[id]; ok {
		return nil, duplicateVertex("add vertex", id)
	}
	if !pos.finite() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "add vertex: position %v is not finite", pos).
			With("id", id).With("position", pos)
	}
	if err := g.checkStyle(o.style); err != nil {
		return nil, err
	}
	if err := errors.ValidateLabel(o.label); err != nil {
		return nil, err
	}
	v := &Vertex{pos: pos, label: o.label, style: o.style}
	g.insert(id, v)
	g.count++
	return v, nil
}

func (g *Graph) insert(id string, v *Vertex) {
	g.order = append(g.order, id)
	g.vertices[id] = v
	g.names[v] = id
}

// Vertex returns the vertex stored under id, or [ErrVertexNotFound].
func (g *Graph) Vertex(id string) (*Vertex, error) {
	v, ok := g.vertices[id]
	if !ok {
		return nil, vertexNotFound("get vertex", id)
	}
	return v, nil
}

// Has reports whether id names a vertex of g.
func (g *Graph) Has(id string) bool {
	_, ok := g.vertices[id]
	return ok
}

// NameOf returns the id under which v is stored in g.
func (g *Graph) NameOf(v *Vertex) (string, bool) {
	id, ok := g.names[v]
	return id, ok
}

// IDs returns vertex ids in insertion order.
func (g *Graph) IDs() []string { return slices.Clone(g.order) }

// Vertices returns vertices in insertion order.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, len(g.order))
	for i, id := range g.order {
		out[i] = g.vertices[id]
	}
	return out
}

// Len returns the number of vertices currently in the table.
func (g *Graph) Len() int { return len(g.order) }

// Count returns the running vertex counter. It grows with every insertion
// and is summed by [Graph.Combine]; it may exceed Len when operands share
// vertices.
func (g *Graph) Count() int { return g.count }

// EdgeOption configures an edge at insertion time.
type EdgeOption func(*Edge)

// WithWeight sets the edge weight (default 0).
func WithWeight(w float64) EdgeOption {
	return func(e *Edge) { e.Weight = w }
}

// WithEdgeStyle overrides the graph's default edge style for this edge.
func WithEdgeStyle(s Style) EdgeOption {
	return func(e *Edge) { e.Style = s }
}

// AddEdge inserts or overwrites the directed edge from -> to. Both ids must
// be present. Self loops are allowed.
func (g *Graph) AddEdge(from, to string, opts ...EdgeOption) error {
	src, ok := g.vertices[from]
	if !ok {
		return vertexNotFound("add edge", from)
	}
	dst, ok := g.vertices[to]
	if !ok {
		return vertexNotFound("add edge", to)
	}
	e := Edge{To: dst}
	for _, opt := range opts {
		opt(&e)
	}
	if err := g.checkStyle(e.Style); err != nil {
		return err
	}
	src.connect(e)
	return nil
}

// HasEdge reports whether the directed edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	src, ok := g.vertices[from]
	if !ok {
		return false
	}
	dst, ok := g.vertices[to]
	if !ok {
		return false
	}
	_, ok = src.EdgeTo(dst)
	return ok
}

// EdgeRef is an edge resolved to the ids of its endpoints in one graph.
type EdgeRef struct {
	From, To string
	Weight   float64
	Style    Style
}

// Edges returns every edge, grouped by source in vertex insertion order and
// by insertion order within a source. An edge whose target is not a member
// of g (possible after vertices were added through another view of a shared
// vertex) yields [ErrVertexNotFound].
func (g *Graph) Edges() ([]EdgeRef, error) {
	var out []EdgeRef
	for _, id := range g.order {
		for _, e := range g.vertices[id].out {
			to, ok := g.names[e.To]
			if !ok {
				return nil, errors.New(errors.ErrCodeVertexNotFound,
					"edge from %q points at a vertex outside the graph", id).With("from", id)
			}
			out = append(out, EdgeRef{From: id, To: to, Weight: e.Weight, Style: e.Style})
		}
	}
	return out, nil
}

// EdgeCount returns the number of adjacency entries across all vertices.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, v := range g.vertices {
		n += len(v.out)
	}
	return n
}

// SetVertexStyle overrides the style of one vertex; [Inherit] clears it.
func (g *Graph) SetVertexStyle(id string, s Style) error {
	v, ok := g.vertices[id]
	if !ok {
		return vertexNotFound("set vertex style", id)
	}
	if err := g.checkStyle(s); err != nil {
		return err
	}
	v.style = s
	return nil
}

// SetLabel replaces the display text of one vertex.
func (g *Graph) SetLabel(id, label string) error {
	v, ok := g.vertices[id]
	if !ok {
		return vertexNotFound("set label", id)
	}
	if err := errors.ValidateLabel(label); err != nil {
		return err
	}
	v.label = label
	return nil
}

// SetEdgeStyle restyles an existing edge; [Inherit] clears the override.
func (g *Graph) SetEdgeStyle(from, to string, s Style) error {
	src, ok := g.vertices[from]
	if !ok {
		return vertexNotFound("set edge style", from)
	}
	dst, ok := g.vertices[to]
	if !ok {
		return vertexNotFound("set edge style", to)
	}
	i, ok := src.index[dst]
	if !ok {
		return errors.New(errors.ErrCodeEdgeNotFound, "set edge style: no edge %q -> %q", from, to).
			With("from", from).With("to", to)
	}
	if err := g.checkStyle(s); err != nil {
		return err
	}
	src.out[i].Style = s
	return nil
}

// SetDefaultNodeStyle changes the fallback node style. Vertices without an
// override pick it up at the next emission.
func (g *Graph) SetDefaultNodeStyle(s Style) error {
	if s.IsInherit() {
		s = DefaultNodeStyle
	}
	if err := g.checkStyle(s); err != nil {
		return err
	}
	g.cfg.NodeStyle = s
	return nil
}

// SetDefaultEdgeStyle changes the fallback edge style.
func (g *Graph) SetDefaultEdgeStyle(s Style) error {
	if s.IsInherit() {
		s = DefaultEdgeStyle
	}
	if err := g.checkStyle(s); err != nil {
		return err
	}
	g.cfg.EdgeStyle = s
	return nil
}

// NodeStyle returns the current default node style.
func (g *Graph) NodeStyle() Style { return g.cfg.NodeStyle }

// EdgeStyle returns the current default edge style.
func (g *Graph) EdgeStyle() Style { return g.cfg.EdgeStyle }

// NodePrefix returns the emission prefix for node names.
func (g *Graph) NodePrefix() string { return g.cfg.NodePrefix }

// ResolveNodeStyle returns v's own style or the graph default.
func (g *Graph) ResolveNodeStyle(v *Vertex) Style {
	if v.style.IsInherit() {
		return g.cfg.NodeStyle
	}
	return v.style
}

// ResolveEdgeStyle returns the edge's own style or the graph default.
func (g *Graph) ResolveEdgeStyle(s Style) Style {
	if s.IsInherit() {
		return g.cfg.EdgeStyle
	}
	return s
}

// SetClip sets or clears (nil) the clip window.
func (g *Graph) SetClip(r *Rect) error {
	if err := checkRect(r); err != nil {
		return err
	}
	g.cfg.Clip = copyRect(r)
	return nil
}

// SetGrid sets or clears (nil) the background grid window.
func (g *Graph) SetGrid(r *Rect) error {
	if err := checkRect(r); err != nil {
		return err
	}
	g.cfg.Grid = copyRect(r)
	return nil
}

// Clip returns the clip window, if any.
func (g *Graph) Clip() (Rect, bool) {
	if g.cfg.Clip == nil {
		return Rect{}, false
	}
	return *g.cfg.Clip, true
}

// Grid returns the grid window, if any.
func (g *Graph) Grid() (Rect, bool) {
	if g.cfg.Grid == nil {
		return Rect{}, false
	}
	return *g.cfg.Grid, true
}

// Rename re-keys the vertex stored under old to new, keeping its position in
// the emission order. Other graphs sharing the vertex keep their own names.
func (g *Graph) Rename(old, new string) error {
	v, ok := g.vertices[old]
	if !ok {
		return vertexNotFound("rename", old)
	}
	if old == new {
		return nil
	}
	if err := errors.ValidateVertexID(new); err != nil {
		return err
	}
	if _, ok := g.vertices[new]; ok {
		return duplicateVertex("rename", new)
	}
	g.rekey(old, new, v)
	return nil
}

func (g *Graph) rekey(old, new string, v *Vertex) {
	i := slices.Index(g.order, old)
	g.order[i] = new
	delete(g.vertices, old)
	g.vertices[new] = v
	g.names[v] = new
}

// Clone returns a deep copy of g: fresh vertices with the same names,
// positions, labels, styles and edges, plus copies of the decorations and
// windows. The clone shares nothing with g.
func (g *Graph) Clone() (*Graph, error) {
	c := &Graph{
		cfg:         g.Config(),
		order:       slices.Clone(g.order),
		vertices:    make(map[string]*Vertex, len(g.order)),
		names:       make(map[*Vertex]string, len(g.order)),
		count:       g.count,
		decorations: cloneDecorations(g.decorations),
	}
	remap := make(map[*Vertex]*Vertex, len(g.order))
	for _, id := range g.order {
		v := g.vertices[id]
		nv := &Vertex{pos: v.pos, label: v.label, style: v.style}
		remap[v] = nv
		c.vertices[id] = nv
		c.names[nv] = id
	}
	for _, id := range g.order {
		v := g.vertices[id]
		for _, e := range v.out {
			to, ok := remap[e.To]
			if !ok {
				return nil, errors.New(errors.ErrCodeVertexNotFound,
					"clone: edge from %q points at a vertex outside the graph", id).With("from", id)
			}
			remap[v].connect(Edge{To: to, Weight: e.Weight, Style: e.Style})
		}
	}
	return c, nil
}

// checkStyle runs the syntactic token check and the configured validator on
// explicit styles. [Inherit] always passes.
func (g *Graph) checkStyle(s Style) error {
	if s.IsInherit() {
		return nil
	}
	if err := errors.ValidateStyleToken(string(s)); err != nil {
		return err
	}
	if g.cfg.Validator == nil {
		return nil
	}
	if err := g.cfg.Validator(s); err != nil {
		if errors.GetCode(err) == errors.ErrCodeInvalidStyle {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidStyle, err, "style %q rejected", s).With("style", string(s))
	}
	return nil
}

func checkRect(r *Rect) error {
	if r == nil {
		return nil
	}
	if !r.Min.finite() || !r.Max.finite() {
		return errors.New(errors.ErrCodeInvalidInput, "window %v-%v is not finite", r.Min, r.Max)
	}
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		return errors.New(errors.ErrCodeInvalidInput, "window corners %v and %v are inverted", r.Min, r.Max).
			With("min", r.Min).With("max", r.Max)
	}
	return nil
}

func copyRect(r *Rect) *Rect {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
