package lattice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/texgraph/pkg/graph"
	"github.com/matzehuels/texgraph/pkg/render/tikz"
)

func unitSquare(t *testing.T) *Lattice {
	t.Helper()
	l, err := New(Config{
		A:      graph.Pt(1, 0),
		B:      graph.Pt(0, 1),
		Window: graph.R(0, 0, 2, 2),
	})
	require.NoError(t, err)
	require.NoError(t, l.Construct())
	return l
}

func TestConstruct_UnitGridCoverage(t *testing.T) {
	l := unitSquare(t)
	g := l.Graph()
	w := l.Window()

	inside := map[graph.Point]string{}
	for _, id := range g.IDs() {
		v, _ := g.Vertex(id)
		if w.Contains(v.Position()) {
			inside[v.Position()] = id
		}
	}
	require.Len(t, inside, 9)
	for x := 0; x <= 2; x++ {
		for y := 0; y <= 2; y++ {
			assert.Contains(t, inside, graph.Pt(float64(x), float64(y)))
		}
	}

	for p, id := range inside {
		v, _ := g.Vertex(id)
		assert.Equal(t, 4, v.Degree(), "vertex %s at %v", id, p)
		for _, d := range []graph.Point{graph.Pt(1, 0), graph.Pt(-1, 0), graph.Pt(0, 1), graph.Pt(0, -1)} {
			nid, ok := g.VertexAt(p.Add(d))
			require.True(t, ok)
			assert.True(t, g.HasEdge(id, nid))
		}
	}

	// The twelve neighbours just outside the window remain as leaves.
	assert.Equal(t, 21, g.Len())
	for _, id := range g.IDs() {
		v, _ := g.Vertex(id)
		if !w.Contains(v.Position()) {
			assert.Zero(t, v.Degree(), "vertex %s outside the window must be a leaf", id)
		}
	}
}

func TestConstruct_IDsAreSequential(t *testing.T) {
	g := unitSquare(t).Graph()
	ids := g.IDs()
	assert.Equal(t, "0", ids[0])
	// The origin expands +a, -a, +b, -b first.
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, ids[:5])
	v, _ := g.Vertex("1")
	assert.Equal(t, graph.Pt(1, 0), v.Position())
	v, _ = g.Vertex("4")
	assert.Equal(t, graph.Pt(0, -1), v.Position())
}

func TestConstruct_NoDuplicatePositions(t *testing.T) {
	for _, cfg := range []Config{
		DefaultConfig(),
		{A: graph.Pt(0.1, 0.2), B: graph.Pt(-0.3, 0.1), Window: graph.R(-1, -1, 1, 1), Overset: 0.25},
		{A: graph.Pt(1, 1), B: graph.Pt(1, -1), Window: graph.R(-3, -2, 3, 2)},
	} {
		l, err := New(cfg)
		require.NoError(t, err)
		require.NoError(t, l.Construct())

		seen := map[graph.Point]string{}
		for _, id := range l.Graph().IDs() {
			v, _ := l.Graph().Vertex(id)
			if other, dup := seen[v.Position()]; dup {
				t.Fatalf("%s and %s share position %v", id, other, v.Position())
			}
			seen[v.Position()] = id
		}
	}
}

func TestConstruct_Twice(t *testing.T) {
	l := unitSquare(t)
	n, e := l.Graph().Len(), l.Graph().EdgeCount()
	assert.ErrorIs(t, l.Construct(), ErrAlreadyConstructed)
	assert.Equal(t, n, l.Graph().Len())
	assert.Equal(t, e, l.Graph().EdgeCount())
}

func TestNew_InvalidBasis(t *testing.T) {
	tests := []struct {
		name string
		a, b graph.Point
	}{
		{"zero a", graph.Pt(0, 0), graph.Pt(1, 0)},
		{"zero b", graph.Pt(1, 0), graph.Pt(0, 0)},
		{"collinear", graph.Pt(2, 1), graph.Pt(4, 2)},
		{"antiparallel", graph.Pt(1, 1), graph.Pt(-3, -3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.A, cfg.B = tt.a, tt.b
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrInvalidBasis)
		})
	}
}

func TestConstruct_Limit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxVertices = 10
	l, err := New(cfg)
	require.NoError(t, err)
	assert.ErrorIs(t, l.Construct(), ErrLimitExceeded)

	// A failed closure leaves the lattice as New returned it.
	assert.False(t, l.Constructed())
	assert.Equal(t, []string{"0"}, l.Graph().IDs())
	assert.Nil(t, l.Axes())

	_, err = l.Compose()
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.NotErrorIs(t, err, graph.ErrDuplicateVertex)
}

func TestNew_MaxVerticesCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxVertices = MaxVerticesLimit + 1
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	cfg.MaxVertices = MaxVerticesLimit
	_, err = New(cfg)
	assert.NoError(t, err)
}

func TestConstructContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l, err := New(Config{A: graph.Pt(1, 0), B: graph.Pt(0, 1), Window: graph.R(0, 0, 2, 2)})
	require.NoError(t, err)
	err = l.ConstructContext(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, l.Constructed())

	require.NoError(t, l.ConstructContext(context.Background()))
	assert.Equal(t, 21, l.Graph().Len())
}

func TestConstructContext_DeadlineMidClosure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window = graph.R(-200, -200, 200, 200)
	cfg.MaxVertices = MaxVerticesLimit
	l, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err = l.ComposeContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, l.Graph().Len())
}

func TestAxesAndBasis(t *testing.T) {
	l := unitSquare(t)
	axes := l.Axes()
	assert.Equal(t, []string{"-X", "+X", "-Y", "+Y"}, axes.IDs())
	assert.Equal(t, graph.StyleAxis, axes.EdgeStyle())
	assert.True(t, axes.HasEdge("-X", "+X"))

	basis := l.Basis()
	assert.Equal(t, []string{"0", "1", "3"}, basis.IDs())
	assert.Equal(t, graph.StyleBasisArrow, basis.EdgeStyle())
	v, _ := basis.Vertex("3")
	assert.Equal(t, graph.Pt(0, 1), v.Position())
}

func TestCompose(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowBasis = true
	cfg.Parallelepiped = true
	cfg.CornerRadius = 0.3
	l, err := New(cfg)
	require.NoError(t, err)
	l.AddCorner(1, 0)

	g, err := l.Compose()
	require.NoError(t, err)
	require.True(t, l.Constructed())

	for _, id := range []string{"0", "-X", "+Y", "0X", "1X", "3X"} {
		assert.True(t, g.Has(id), id)
	}
	assert.Equal(t, l.Graph().Len()+4+3, g.Len())
	assert.True(t, l.Basis().Has("0"), "lattice's own basis graph keeps its ids")

	clip, ok := g.Clip()
	require.True(t, ok)
	assert.Equal(t, graph.R(-5.5, -5.5, 5.5, 5.5), clip)
	_, ok = g.Grid()
	assert.True(t, ok)

	ds := g.Decorations()
	require.Len(t, ds, 5)
	assert.Equal(t, graph.ShapePolygon, ds[0].Kind)
	assert.Equal(t, ParallelepipedLabel, ds[0].Label)
	assert.Equal(t, graph.Pt(1.5, 2), ds[0].LabelAt)
	assert.Equal(t, graph.Pt(2, 1), ds[1].Points[0])
	assert.Len(t, ds[1].Clip, 4)

	// Composing again works on fresh copies of the axes and basis.
	again, err := l.Compose()
	require.NoError(t, err)
	assert.Equal(t, g.IDs(), again.IDs())

	out, err := tikz.String(g, tikz.Options{})
	require.NoError(t, err)
	assert.Contains(t, out, `\draw[thick,color=gray!25!white,step=1cm,dashed]`)
	assert.Contains(t, out, `$\mathcal{P}(\mathcal{B})$`)
}

func TestCompose_ShiftedAndNoGrid(t *testing.T) {
	l, err := New(Config{A: graph.Pt(1, 0), B: graph.Pt(0, 1), Window: graph.R(0, 0, 1, 1), Shifted: true})
	require.NoError(t, err)
	g, err := l.Compose()
	require.NoError(t, err)

	_, ok := g.Grid()
	assert.False(t, ok)
	ds := g.Decorations()
	assert.Len(t, ds, l.Graph().EdgeCount())
	for _, d := range ds {
		assert.Equal(t, graph.ShapePolyline, d.Kind)
		assert.Equal(t, StyleShifted, d.Style)
	}
}

func TestCompose_CornerWithoutRadius(t *testing.T) {
	l, err := New(DefaultConfig())
	require.NoError(t, err)
	l.AddCorner(0, 0)
	_, err = l.Compose()
	assert.ErrorIs(t, err, graph.ErrInvalidShape)
}
