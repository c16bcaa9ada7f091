// Package graph provides the positioned, styled graph model that every
// texgraph picture is built from.
//
// # Overview
//
// A [Graph] is an insertion-ordered table of named [Vertex] values. Each
// vertex has a position, an optional label, an optional style, and ordered
// outgoing edges carrying a weight and an optional style. A graph also holds
// two default styles, a list of [Decoration] shapes and optional clip and
// grid windows. Rendering lives in [render/tikz]; this package only models
// and mutates.
//
// Insertion order is the emission order, so output is deterministic.
//
// # Styles
//
// A [Style] is an open string token naming something the surrounding
// document defines ("rn", "bluearrow", "red, opacity = 0.5"). Vertices and
// edges store [Inherit] unless given a style, and inheriting styles are
// resolved at emission time, so changing a default restyles every vertex
// that never set its own. A [StyleValidator] in [Config] lets callers reject
// names their template does not define.
//
// # Overlay and sharing
//
// [Graph.Combine] builds a new graph over the vertices of both operands
// without copying them:
//
//	g, _ := graph.New(graph.Config{NodeStyle: "rn"})
//	h, _ := graph.New(graph.Config{NodeStyle: "bn"})
//	// ... populate both, both with a vertex "3"
//	u, _ := g.Combine(h) // h's "3" is now "3X" in h and in u
//
// A vertex belongs to a graph under a name, and names are per graph: the
// *Vertex is the shared handle and each Graph maps names to handles. A
// rename through one graph never disturbs another graph's table, while
// position, label, style and adjacency changes are seen by every graph that
// holds the vertex. Use [Graph.Clone] to opt out of sharing.
//
// Combine mutates its right-hand operand (renames and style stamping). All
// graphs sharing vertices must have a single writer; the package does no
// locking.
//
// # Errors
//
// Operations validate before they mutate and return structured errors from
// [errors] that match the sentinels below under the standard errors.Is:
// [ErrVertexNotFound], [ErrDuplicateVertex], [ErrEdgeNotFound],
// [ErrInvalidShape], [ErrInvalidStyle], [ErrInvalidInput] and
// [ErrLimitExceeded].
//
// [render/tikz]: github.com/matzehuels/texgraph/pkg/render/tikz
// [errors]: github.com/matzehuels/texgraph/pkg/errors
package graph
