// Package lattice generates pictures of two-dimensional point lattices.
//
// # Overview
//
// A lattice is the set {n·a + m·b : n, m ∈ ℤ} for a basis a, b. A [Lattice]
// materialises the part of it that falls inside a window as a
// [graph.Graph], connecting every visible point to its four basis
// neighbours:
//
//	l, _ := lattice.New(lattice.DefaultConfig())
//	_ = l.Construct()
//	g, _ := l.Compose()          // closure + axes (+ basis arrows)
//	_ = tikz.Picture(os.Stdout, g, tikz.Options{})
//
// # Closure
//
// [Lattice.Construct] starts at the origin and works through a stack. A
// point is expanded when it lies in the window widened by the overset and
// by the smallest basis component along each axis; points outside are kept
// as leaves. New points get the ids "1", "2", ... in discovery order, so the
// output is deterministic. Construct succeeds once per lattice; a closure
// that fails leaves only the origin behind and may be retried.
//
// A zero or collinear basis is rejected by [New] with [ErrInvalidBasis].
// [Config.MaxVertices] (at most [MaxVerticesLimit]) guards against windows
// that are huge compared to the basis, and [Lattice.ConstructContext] stops
// a long closure when its context ends.
//
// # Extras
//
// [Config] can add the basis arrows, the fundamental parallelepiped, discs
// at the corners of chosen cells ([Lattice.AddCorner]), a copy of the edges
// shifted by -(a+b)/2 and a dashed background grid. They are emitted as
// decorations of the composed graph.
package lattice
