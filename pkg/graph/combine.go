package graph

import (
	"strings"

	"github.com/matzehuels/texgraph/pkg/errors"
)

const (
	// collisionSuffix is appended to colliding ids in the right-hand operand.
	collisionSuffix = "X"
	// maxSuffixes bounds the rename loop of a single id.
	maxSuffixes = 64
)

// Combine overlays other onto g and returns a new graph holding both vertex
// sets. The result shares vertices with the operands: no vertex is copied.
//
// Combine is destructive on other. Before the merge:
//   - every id of other that is also an id of g is renamed in other by
//     appending "X" until it is unique across both graphs;
//   - when the default node styles differ, other's default is stamped on
//     its vertices that have no style of their own;
//   - when the default edge styles differ, other's default is stamped on
//     its edges that have no style of their own.
//
// The result takes its defaults, prefix, validator and windows from g
// (windows fall back to other's when g has none). Its counter is the sum of
// both counters, its order is g's ids followed by other's, and its
// decorations are g's followed by other's. A vertex already present in g by
// identity (as happens when overlaying a previous overlay result) is not
// duplicated.
//
// Renames are planned before any mutation, so a rename that cannot be
// resolved ([ErrDuplicateVertex]) leaves other untouched.
func (g *Graph) Combine(other *Graph) (*Graph, error) {
	if other == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "combine: nil graph")
	}
	if other == g {
		return nil, errors.New(errors.ErrCodeInvalidInput, "combine: a graph cannot be overlaid onto itself")
	}

	renames, err := g.planRenames(other)
	if err != nil {
		return nil, err
	}
	for _, r := range renames {
		other.rekey(r.from, r.to, other.vertices[r.from])
	}

	own := make([]*Vertex, 0, len(other.order))
	for _, id := range other.order {
		v := other.vertices[id]
		if _, shared := g.names[v]; !shared {
			own = append(own, v)
		}
	}
	if g.cfg.NodeStyle != other.cfg.NodeStyle {
		for _, v := range own {
			if v.style.IsInherit() {
				v.style = other.cfg.NodeStyle
			}
		}
	}
	if g.cfg.EdgeStyle != other.cfg.EdgeStyle {
		for _, v := range own {
			for i := range v.out {
				if v.out[i].Style.IsInherit() {
					v.out[i].Style = other.cfg.EdgeStyle
				}
			}
		}
	}

	out := &Graph{
		cfg:      g.Config(),
		order:    make([]string, 0, len(g.order)+len(own)),
		vertices: make(map[string]*Vertex, len(g.order)+len(own)),
		names:    make(map[*Vertex]string, len(g.order)+len(own)),
		count:    g.count + other.count,
	}
	if out.cfg.Clip == nil {
		out.cfg.Clip = copyRect(other.cfg.Clip)
	}
	if out.cfg.Grid == nil {
		out.cfg.Grid = copyRect(other.cfg.Grid)
	}
	for _, id := range g.order {
		out.insert(id, g.vertices[id])
	}
	for _, v := range own {
		out.insert(other.names[v], v)
	}
	out.decorations = append(cloneDecorations(g.decorations), cloneDecorations(other.decorations)...)
	return out, nil
}

type rename struct{ from, to string }

func (g *Graph) planRenames(other *Graph) ([]rename, error) {
	taken := make(map[string]bool, len(g.order)+len(other.order))
	for _, id := range g.order {
		taken[id] = true
	}
	for _, id := range other.order {
		taken[id] = true
	}
	var out []rename
	for _, id := range other.order {
		mine, ok := g.vertices[id]
		if !ok || mine == other.vertices[id] {
			continue
		}
		next := id + collisionSuffix
		for n := 1; taken[next]; n++ {
			if n >= maxSuffixes {
				return nil, errors.New(errors.ErrCodeDuplicateVertex,
					"combine: cannot find a free id for %q after %d suffixes", id, maxSuffixes).
					With("id", id).With("tried", id+strings.Repeat(collisionSuffix, n))
			}
			next += collisionSuffix
		}
		taken[next] = true
		out = append(out, rename{from: id, to: next})
	}
	return out, nil
}

// Overlay folds [Graph.Combine] over graphs from left to right. Every graph
// after the first may be mutated as described there.
func Overlay(graphs ...*Graph) (*Graph, error) {
	if len(graphs) == 0 {
		return New(Config{})
	}
	out := graphs[0]
	for _, h := range graphs[1:] {
		next, err := out.Combine(h)
		if err != nil {
			return nil, err
		}
		out = next
	}
	if len(graphs) == 1 {
		return out.view(), nil
	}
	return out, nil
}

// view returns a new graph sharing g's vertices under the same names.
func (g *Graph) view() *Graph {
	out := &Graph{
		cfg:         g.Config(),
		order:       make([]string, 0, len(g.order)),
		vertices:    make(map[string]*Vertex, len(g.order)),
		names:       make(map[*Vertex]string, len(g.order)),
		count:       g.count,
		decorations: cloneDecorations(g.decorations),
	}
	for _, id := range g.order {
		out.insert(id, g.vertices[id])
	}
	return out
}
