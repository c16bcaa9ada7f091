package lattice

import (
	"context"

	"github.com/matzehuels/texgraph/pkg/graph"
)

// Compose overlays the closure graph with the axes and, when ShowBasis is
// set, the basis arrows, then adds the configured decorations: the
// fundamental parallelepiped, the corner discs and the shifted copy. It
// runs Construct first if needed.
//
// The returned graph shares vertices with [Lattice.Graph]; the axes and
// basis graphs are cloned first, so the lattice's own graphs keep their ids.
// Clip and grid cover the window widened once more by the overset.
func (l *Lattice) Compose() (*graph.Graph, error) {
	return l.ComposeContext(context.Background())
}

// ComposeContext is Compose with a context for the implicit Construct.
func (l *Lattice) ComposeContext(ctx context.Context) (*graph.Graph, error) {
	if !l.built {
		if err := l.ConstructContext(ctx); err != nil {
			return nil, err
		}
	}
	axes, err := l.axes.Clone()
	if err != nil {
		return nil, err
	}
	out, err := l.graph.Combine(axes)
	if err != nil {
		return nil, err
	}
	if l.cfg.ShowBasis {
		basis, err := l.basis.Clone()
		if err != nil {
			return nil, err
		}
		if out, err = out.Combine(basis); err != nil {
			return nil, err
		}
	}

	frame := l.Window().Expand(l.cfg.Overset)
	if err := out.SetClip(&frame); err != nil {
		return nil, err
	}
	if l.cfg.Grid {
		if err := out.SetGrid(&frame); err != nil {
			return nil, err
		}
	} else if err := out.SetGrid(nil); err != nil {
		return nil, err
	}

	decos, err := l.decorations()
	if err != nil {
		return nil, err
	}
	for _, d := range decos {
		if err := out.AddDecoration(d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (l *Lattice) decorations() ([]graph.Decoration, error) {
	a, b := l.cfg.A, l.cfg.B
	var out []graph.Decoration
	if l.cfg.Parallelepiped {
		p := graph.NewPolygon(graph.ModeFill, StyleParallelepiped, graph.Point{}, a, a.Add(b), b)
		p.Label = ParallelepipedLabel
		p.LabelAt = a.Add(b).Mul(0.5)
		out = append(out, p)
	}
	for _, c := range l.corners {
		cell := []graph.Point{c, c.Add(a), c.Add(a).Add(b), c.Add(b)}
		for _, centre := range cell {
			d := graph.NewCircle(graph.ModeFill, StyleCorner, centre, l.cfg.CornerRadius)
			d.Clip = cell
			out = append(out, d)
		}
	}
	if l.cfg.Shifted {
		shift := a.Add(b).Mul(-0.5)
		edges, err := l.graph.Edges()
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			from, _ := l.graph.Vertex(e.From)
			to, _ := l.graph.Vertex(e.To)
			out = append(out, graph.NewPolyline(StyleShifted, from.Position().Add(shift), to.Position().Add(shift)))
		}
	}
	return out, nil
}
