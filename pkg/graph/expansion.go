package graph

import (
	"github.com/matzehuels/texgraph/pkg/errors"
)

// MaxExpansionVertices bounds [Graph.MinExpansion], which enumerates subsets.
const MaxExpansionVertices = 20

// Expansion returns the out-neighbourhood of the vertex set ids minus the
// set itself, in graph insertion order.
func (g *Graph) Expansion(ids []string) ([]string, error) {
	set := make(map[*Vertex]bool, len(ids))
	for _, id := range ids {
		v, ok := g.vertices[id]
		if !ok {
			return nil, vertexNotFound("expansion", id)
		}
		set[v] = true
	}
	reached := make(map[*Vertex]bool)
	for v := range set {
		for _, e := range v.out {
			if !set[e.To] {
				reached[e.To] = true
			}
		}
	}
	var out []string
	for _, id := range g.order {
		if reached[g.vertices[id]] {
			out = append(out, id)
		}
	}
	return out, nil
}

// ExpansionResult is the minimiser found by [Graph.MinExpansion].
type ExpansionResult struct {
	// Size is |boundary|, the quantity minimised.
	Size int
	// Ratio is |boundary| / |set|, reported for reference.
	Ratio float64
	// Set is the first subset (in enumeration order) attaining Size.
	Set []string
	// Boundary is the expansion of Set.
	Boundary []string
}

// MinExpansion finds the smallest vertex boundary
//
//	min |∂U| over subsets U with 1 <= |U| < floor(n/2) and 0 < |∂U| < n
//
// by enumerating subsets by size, then in lexicographic order of insertion
// index, keeping the first minimiser. It is exponential and refuses graphs
// with more than [MaxExpansionVertices] vertices. The result is false when
// no subset qualifies.
func (g *Graph) MinExpansion() (ExpansionResult, bool, error) {
	n := len(g.order)
	if n > MaxExpansionVertices {
		return ExpansionResult{}, false, errors.New(errors.ErrCodeLimitExceeded,
			"min expansion: %d vertices exceeds limit of %d", n, MaxExpansionVertices).
			With("vertices", n).With("limit", MaxExpansionVertices)
	}
	best := ExpansionResult{Size: n}
	found := false
	idx := make([]int, 0, n)
	var walk func(start, size int) error
	walk = func(start, size int) error {
		if len(idx) == size {
			set := make([]string, size)
			for i, j := range idx {
				set[i] = g.order[j]
			}
			boundary, err := g.Expansion(set)
			if err != nil {
				return err
			}
			t := len(boundary)
			if t == 0 || t >= n {
				return nil
			}
			if t < best.Size {
				best = ExpansionResult{Size: t, Ratio: float64(t) / float64(size), Set: set, Boundary: boundary}
				found = true
			}
			return nil
		}
		for i := start; i < n; i++ {
			idx = append(idx, i)
			if err := walk(i+1, size); err != nil {
				return err
			}
			idx = idx[:len(idx)-1]
		}
		return nil
	}
	for size := 1; size < n/2; size++ {
		if err := walk(0, size); err != nil {
			return ExpansionResult{}, false, err
		}
	}
	if !found {
		return ExpansionResult{}, false, nil
	}
	return best, true, nil
}

// HighlightExpansion restyles the vertices of ids with setStyle and their
// expansion with boundaryStyle. Either style may be [Inherit] to skip it.
func (g *Graph) HighlightExpansion(ids []string, setStyle, boundaryStyle Style) error {
	boundary, err := g.Expansion(ids)
	if err != nil {
		return err
	}
	if err := g.checkStyle(setStyle); err != nil {
		return err
	}
	if err := g.checkStyle(boundaryStyle); err != nil {
		return err
	}
	if !setStyle.IsInherit() {
		for _, id := range ids {
			g.vertices[id].style = setStyle
		}
	}
	if !boundaryStyle.IsInherit() {
		for _, id := range boundary {
			g.vertices[id].style = boundaryStyle
		}
	}
	return nil
}
