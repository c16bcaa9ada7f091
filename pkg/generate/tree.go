package generate

import (
	"math"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/graph"
)

// MaxTreeHeight keeps level widths below 1000 so level*1000+index ids
// stay unique.
const MaxTreeHeight = 9

// TreeConfig describes a complete binary tree.
type TreeConfig struct {
	Height int
	// LeafDistance is the horizontal gap between leaves; zero means 1.
	LeafDistance float64
	// Inverted draws the leaves on top and the root at the bottom.
	Inverted bool
	// NodeStyle defaults to [graph.StyleWhite].
	NodeStyle graph.Style
	EdgeStyle graph.Style
	Validator graph.StyleValidator
}

// NewTree generates a complete binary tree with 2^Height leaves. Level 0
// holds the leaves and level Height the root; vertex j of level i has id
// i*1000+j, sits at x = d/2 + j·d with d = LeafDistance·2^i, y = i (or -i
// when Inverted), and has edges to its children (i-1, 2j) and (i-1, 2j+1).
func NewTree(cfg TreeConfig) (*graph.Graph, error) {
	if cfg.Height < 0 || cfg.Height > MaxTreeHeight {
		return nil, errors.New(errors.ErrCodeLimitExceeded, "tree: height %d outside 0..%d", cfg.Height, MaxTreeHeight).
			With("height", cfg.Height)
	}
	if cfg.LeafDistance == 0 {
		cfg.LeafDistance = 1
	}
	if cfg.LeafDistance < 0 || math.IsNaN(cfg.LeafDistance) || math.IsInf(cfg.LeafDistance, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree: leaf distance %v must be positive", cfg.LeafDistance).
			With("leaf_distance", cfg.LeafDistance)
	}
	if cfg.NodeStyle.IsInherit() {
		cfg.NodeStyle = graph.StyleWhite
	}
	g, err := graph.New(graph.Config{NodeStyle: cfg.NodeStyle, EdgeStyle: cfg.EdgeStyle, Validator: cfg.Validator})
	if err != nil {
		return nil, err
	}
	b := builder{g: g}
	width := 1 << cfg.Height
	d := cfg.LeafDistance
	for i := 0; i <= cfg.Height; i++ {
		y := float64(i)
		if cfg.Inverted && i > 0 {
			y = -y
		}
		for j := 0; j < width; j++ {
			id := EntryID(i, j)
			b.vertex(id, graph.Pt(d/2+float64(j)*d, y))
			if i > 0 {
				b.edge(id, EntryID(i-1, 2*j), graph.Inherit)
				b.edge(id, EntryID(i-1, 2*j+1), graph.Inherit)
			}
		}
		d *= 2
		width /= 2
	}
	if b.err != nil {
		return nil, b.err
	}
	return g, nil
}
