package graph

import (
	"math"

	"github.com/matzehuels/texgraph/pkg/errors"
)

// Translate moves every vertex by d. Decorations and windows hold absolute
// coordinates and are left alone; callers that care must clear or rebuild
// them.
func (g *Graph) Translate(d Point) error {
	if !d.finite() {
		return errors.New(errors.ErrCodeInvalidInput, "translate: vector %v is not finite", d).With("vector", d)
	}
	for _, id := range g.order {
		v := g.vertices[id]
		v.pos = v.pos.Add(d)
	}
	return nil
}

// Scale multiplies every vertex position by f about the origin. A zero or
// non-finite factor is rejected since it would collapse or corrupt the
// layout. As with Translate, decorations are left alone.
func (g *Graph) Scale(f float64) error {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scale: factor %v must be finite and non-zero", f).With("factor", f)
	}
	for _, id := range g.order {
		v := g.vertices[id]
		v.pos = v.pos.Mul(f)
	}
	return nil
}

// Bounds returns the smallest box containing every vertex. It reports false
// for an empty graph.
func (g *Graph) Bounds() (Rect, bool) {
	if len(g.order) == 0 {
		return Rect{}, false
	}
	first := g.vertices[g.order[0]].pos
	r := Rect{Min: first, Max: first}
	for _, id := range g.order[1:] {
		p := g.vertices[id].pos
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r, true
}

// VertexAt returns the id of a vertex whose stored position equals p
// exactly, scanning in insertion order.
func (g *Graph) VertexAt(p Point) (string, bool) {
	for _, id := range g.order {
		if g.vertices[id].pos == p {
			return id, true
		}
	}
	return "", false
}
