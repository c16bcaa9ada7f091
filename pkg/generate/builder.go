package generate

import "github.com/matzehuels/texgraph/pkg/graph"

// builder adds vertices and edges and keeps the first error.
type builder struct {
	g   *graph.Graph
	err error
}

func (b *builder) vertex(id string, p graph.Point, opts ...graph.VertexOption) {
	if b.err != nil {
		return
	}
	_, b.err = b.g.AddVertex(id, p, opts...)
}

func (b *builder) edge(from, to string, style graph.Style) {
	if b.err != nil {
		return
	}
	b.err = b.g.AddEdge(from, to, graph.WithEdgeStyle(style))
}

// undirected adds the edge in both directions.
func (b *builder) undirected(u, v string, style graph.Style) {
	b.edge(u, v, style)
	b.edge(v, u, style)
}
