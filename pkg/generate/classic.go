package generate

import (
	"math"
	"strconv"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/graph"
)

// MaxCycleLength bounds Cycle.
const MaxCycleLength = 10_000

// Petersen returns the Petersen graph: an outer pentagon 0..4 of radius 2,
// an inner pentagram 5..9 of radius 1 and spokes i–i+5. Every edge is
// stored in both directions.
func Petersen(cfg graph.Config) (*graph.Graph, error) {
	g, err := graph.New(cfg)
	if err != nil {
		return nil, err
	}
	b := builder{g: g}
	for i := 0; i < 5; i++ {
		b.vertex(strconv.Itoa(i), polar(2, i, 5))
	}
	for i := 0; i < 5; i++ {
		b.vertex(strconv.Itoa(i+5), polar(1, i, 5))
	}
	for i := 0; i < 5; i++ {
		b.undirected(strconv.Itoa(i), strconv.Itoa((i+1)%5), graph.Inherit)
		b.undirected(strconv.Itoa(i), strconv.Itoa(i+5), graph.Inherit)
		b.undirected(strconv.Itoa(i+5), strconv.Itoa((i+2)%5+5), graph.Inherit)
	}
	if b.err != nil {
		return nil, b.err
	}
	return g, nil
}

// Cycle returns the cycle on n vertices laid out on a circle of the given
// radius, starting at the top and going counter-clockwise. Every edge is
// stored in both directions.
func Cycle(n int, radius float64, cfg graph.Config) (*graph.Graph, error) {
	if n < 3 || n > MaxCycleLength {
		return nil, errors.New(errors.ErrCodeLimitExceeded, "cycle: length %d outside 3..%d", n, MaxCycleLength).With("n", n)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cycle: radius %v must be positive", radius).With("radius", radius)
	}
	g, err := graph.New(cfg)
	if err != nil {
		return nil, err
	}
	b := builder{g: g}
	for i := 0; i < n; i++ {
		b.vertex(strconv.Itoa(i), polar(radius, i, n))
	}
	for i := 0; i < n; i++ {
		b.undirected(strconv.Itoa(i), strconv.Itoa((i+1)%n), graph.Inherit)
	}
	if b.err != nil {
		return nil, b.err
	}
	return g, nil
}

// polar places point k of n evenly on a circle, starting at 90 degrees.
func polar(r float64, k, n int) graph.Point {
	theta := math.Pi/2 + 2*math.Pi*float64(k)/float64(n)
	return graph.Pt(round(r*math.Cos(theta)), round(r*math.Sin(theta)))
}

// round trims floating point noise so symmetric layouts emit cleanly.
func round(x float64) float64 {
	return math.Round(x*1e9) / 1e9
}
