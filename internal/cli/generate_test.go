package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/scene"
)

func TestEncodeScene_RoundTrip(t *testing.T) {
	overset := 0.5
	s := &scene.Scene{Lattices: []scene.LatticeSpec{{
		Name:      "lattice",
		A:         []float64{2, 1},
		B:         []float64{1, 3},
		Window:    []float64{-2, -2, 2, 2},
		Overset:   &overset,
		ShowBasis: true,
		Corners:   [][]int{{0, 0}, {1, 1}},
	}}}

	data, err := encodeScene(s)
	if err != nil {
		t.Fatalf("encodeScene: %v", err)
	}
	got, err := scene.Parse(data, scene.FormatTOML)
	if err != nil {
		t.Fatalf("Parse(encoded): %v\n%s", err, data)
	}
	if len(got.Lattices) != 1 {
		t.Fatalf("got %d lattices, want 1", len(got.Lattices))
	}
	l := got.Lattices[0]
	if l.Overset == nil || *l.Overset != 0.5 {
		t.Errorf("overset = %v, want 0.5", l.Overset)
	}
	if len(l.Corners) != 2 || l.Corners[1][0] != 1 {
		t.Errorf("corners = %v", l.Corners)
	}
	if l.Grid != nil {
		t.Errorf("grid = %v, want unset", *l.Grid)
	}
}

func TestLatticeCommand_PrintScene(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"lattice", "--a", "1,0", "--b", "0,1", "--no-grid", "--corner", "1,2", "--print-scene"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	s, err := scene.Parse(out.Bytes(), scene.FormatTOML)
	if err != nil {
		t.Fatalf("printed scene does not parse: %v\n%s", err, out.String())
	}
	l := s.Lattices[0]
	if l.Grid == nil || *l.Grid {
		t.Error("--no-grid not carried into the scene")
	}
	if l.Overset != nil {
		t.Error("overset set without --overset")
	}
	if len(l.Corners) != 1 || l.Corners[0][1] != 2 {
		t.Errorf("corners = %v", l.Corners)
	}
}

func TestTreeCommand_Stdout(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"tree", "--height", "2", "--no-cache"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.Count(out.String(), `\node `); got != 7 {
		t.Errorf("tree of height 2 has %d nodes, want 7:\n%s", got, out.String())
	}
}

func TestParseInts(t *testing.T) {
	got, err := parseInts(" 1, -2 ,3", 3)
	if err != nil {
		t.Fatalf("parseInts: %v", err)
	}
	if got[0] != 1 || got[1] != -2 || got[2] != 3 {
		t.Errorf("parseInts = %v", got)
	}

	for _, in := range []string{"1,2", "1,x,3"} {
		if _, err := parseInts(in, 3); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseInts(%q) error = %v, want INVALID_INPUT", in, err)
		}
	}
}

func TestMatrixCommand_BadEntry(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"matrix", "--entry", "0;1;x"})

	err := root.Execute()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
