package graph

// Vertex is a positioned node. It carries no name of its own: a Graph is a
// named view over vertices, and the same *Vertex may appear in several graphs
// after an overlay (see [Graph.Combine]). Changes made through any of those
// graphs (position, label, style, adjacency) are visible through all of them.
//
// Vertices are created by [Graph.AddVertex] and mutated only through Graph
// methods, which validate before they write.
type Vertex struct {
	pos   Point
	label string
	style Style
	out   []Edge
	index map[*Vertex]int
}

// Edge is a directed adjacency entry. Weight defaults to 0 and Style to
// [Inherit].
type Edge struct {
	To     *Vertex
	Weight float64
	Style  Style
}

// Position returns the vertex coordinates.
func (v *Vertex) Position() Point { return v.pos }

// Label returns the display text, or "" when unset.
func (v *Vertex) Label() string { return v.label }

// Style returns the per-vertex style override, or [Inherit].
func (v *Vertex) Style() Style { return v.style }

// Degree returns the number of outgoing edges.
func (v *Vertex) Degree() int { return len(v.out) }

// Edges returns a copy of the outgoing edges in insertion order.
func (v *Vertex) Edges() []Edge {
	out := make([]Edge, len(v.out))
	copy(out, v.out)
	return out
}

// EdgeTo returns the edge from v to u, if any.
func (v *Vertex) EdgeTo(u *Vertex) (Edge, bool) {
	i, ok := v.index[u]
	if !ok {
		return Edge{}, false
	}
	return v.out[i], true
}

// connect inserts or overwrites the entry for e.To, keeping the position of
// an existing entry so emission order stays stable.
func (v *Vertex) connect(e Edge) {
	if v.index == nil {
		v.index = make(map[*Vertex]int)
	}
	if i, ok := v.index[e.To]; ok {
		v.out[i] = e
		return
	}
	v.index[e.To] = len(v.out)
	v.out = append(v.out, e)
}
