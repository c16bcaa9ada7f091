package graph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T, cfg Config, ids ...string) *Graph {
	t.Helper()
	g := MustNew(cfg)
	for i, id := range ids {
		_, err := g.AddVertex(id, Pt(float64(i), 0))
		require.NoError(t, err)
		if i > 0 {
			require.NoError(t, g.AddEdge(ids[i-1], id))
		}
	}
	return g
}

func TestCombine_Disjoint(t *testing.T) {
	g := chain(t, Config{}, "a", "b")
	h := chain(t, Config{}, "c", "d", "e")

	u, err := g.Combine(h)
	require.NoError(t, err)
	assert.Equal(t, g.Len()+h.Len(), u.Len())
	assert.Equal(t, 5, u.Count())
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, u.IDs())

	edges, err := u.Edges()
	require.NoError(t, err)
	assert.Len(t, edges, 3)
}

func TestCombine_RenamesCollisions(t *testing.T) {
	g := chain(t, Config{}, "1", "2", "3")
	h := chain(t, Config{}, "3", "3X", "4")

	g3, _ := g.Vertex("3")
	h3, _ := h.Vertex("3")

	u, err := g.Combine(h)
	require.NoError(t, err)

	assert.Equal(t, 6, u.Len())
	got, err := u.Vertex("3")
	require.NoError(t, err)
	assert.Same(t, g3, got, "left operand keeps its id")

	got, err = u.Vertex("3XX")
	require.NoError(t, err)
	assert.Same(t, h3, got, "right operand's vertex is suffixed past every taken id")

	assert.True(t, h.Has("3XX"), "right operand is renamed in place")
	assert.False(t, h.Has("3"))
	assert.True(t, u.HasEdge("3XX", "3X"))

	for _, e := range mustEdges(t, u) {
		assert.True(t, u.Has(e.From))
		assert.True(t, u.Has(e.To))
	}
}

func TestCombine_SharesVertices(t *testing.T) {
	g := chain(t, Config{}, "a")
	h := chain(t, Config{}, "b")
	u, err := g.Combine(h)
	require.NoError(t, err)

	require.NoError(t, u.SetLabel("b", "shared"))
	v, _ := h.Vertex("b")
	assert.Equal(t, "shared", v.Label())

	require.NoError(t, u.Rename("a", "z"))
	assert.True(t, g.Has("a"), "renames are per view")
}

func TestCombine_StampsStyles(t *testing.T) {
	g := chain(t, Config{NodeStyle: "rn", EdgeStyle: "rd"}, "a", "b")
	h := MustNew(Config{NodeStyle: "bn", EdgeStyle: "bd"})
	_, _ = h.AddVertex("x", Pt(0, 0))
	_, _ = h.AddVertex("y", Pt(1, 0), WithStyle("gn"))
	require.NoError(t, h.AddEdge("x", "y"))
	require.NoError(t, h.AddEdge("y", "x", WithEdgeStyle("gd")))

	u, err := g.Combine(h)
	require.NoError(t, err)
	assert.Equal(t, Style("rn"), u.NodeStyle())
	assert.Equal(t, Style("rd"), u.EdgeStyle())

	x, _ := u.Vertex("x")
	y, _ := u.Vertex("y")
	a, _ := u.Vertex("a")
	assert.Equal(t, Style("bn"), u.ResolveNodeStyle(x))
	assert.Equal(t, Style("gn"), u.ResolveNodeStyle(y))
	assert.Equal(t, Style("rn"), u.ResolveNodeStyle(a))

	e, _ := x.EdgeTo(y)
	assert.Equal(t, Style("bd"), e.Style)
	e, _ = y.EdgeTo(x)
	assert.Equal(t, Style("gd"), e.Style)
}

func TestCombine_SameDefaultsNoStamp(t *testing.T) {
	g := chain(t, Config{NodeStyle: "rn"}, "a")
	h := chain(t, Config{NodeStyle: "rn"}, "b")
	_, err := g.Combine(h)
	require.NoError(t, err)
	v, _ := h.Vertex("b")
	assert.Equal(t, Inherit, v.Style())
}

func TestCombine_Decorations(t *testing.T) {
	g := chain(t, Config{}, "a")
	h := chain(t, Config{}, "b")
	require.NoError(t, g.AddDecoration(NewRectangle(ModeFill, "gray", Pt(0, 0), Pt(1, 1))))
	require.NoError(t, h.AddDecoration(NewCircle(ModeDraw, "red", Pt(0, 0), 2)))

	u, err := g.Combine(h)
	require.NoError(t, err)
	ds := u.Decorations()
	require.Len(t, ds, 2)
	assert.Equal(t, ShapeRectangle, ds[0].Kind)
	assert.Equal(t, ShapeCircle, ds[1].Kind)
}

func TestCombine_Self(t *testing.T) {
	g := chain(t, Config{}, "a")
	_, err := g.Combine(g)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCombine_OverlayOfOverlay(t *testing.T) {
	g := chain(t, Config{}, "a")
	h := chain(t, Config{}, "b")
	u, err := g.Combine(h)
	require.NoError(t, err)

	w, err := u.Combine(g)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Len(), "vertices already present by identity are not duplicated")
	assert.True(t, g.Has("a"))
}

func TestCombine_SuffixExhausted(t *testing.T) {
	g := MustNew(Config{})
	for i := 0; i <= maxSuffixes; i++ {
		_, err := g.AddVertex("v"+strings.Repeat("X", i), Pt(float64(i), 0))
		require.NoError(t, err)
	}
	h := chain(t, Config{}, "v")

	_, err := g.Combine(h)
	require.ErrorIs(t, err, ErrDuplicateVertex)
	assert.True(t, h.Has("v"), "failed combine leaves the operand untouched")
}

func TestOverlay(t *testing.T) {
	var gs []*Graph
	for i := 0; i < 3; i++ {
		gs = append(gs, chain(t, Config{}, "0", "1"))
	}
	u, err := Overlay(gs...)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "0X", "1X", "0XX", "1XX"}, u.IDs())

	single, err := Overlay(gs[0])
	require.NoError(t, err)
	require.NoError(t, single.Rename("0", "zero"))
	assert.True(t, gs[0].Has("0"))

	empty, err := Overlay()
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestCombine_LenProperty(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for m := 1; m <= 4; m++ {
			t.Run(fmt.Sprintf("%dx%d", n, m), func(t *testing.T) {
				g := chain(t, Config{}, ids(n)...)
				h := chain(t, Config{}, ids(m)...)
				u, err := g.Combine(h)
				require.NoError(t, err)
				assert.Equal(t, n+m, u.Len())
				assert.Equal(t, n-1+m-1, len(mustEdges(t, u)))
			})
		}
	}
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprint(i)
	}
	return out
}

func mustEdges(t *testing.T, g *Graph) []EdgeRef {
	t.Helper()
	edges, err := g.Edges()
	require.NoError(t, err)
	return edges
}
