package lattice

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/graph"
)

var (
	// ErrInvalidBasis is returned for a zero or collinear basis.
	ErrInvalidBasis = errors.Sentinel(errors.ErrCodeInvalidBasis)
	// ErrAlreadyConstructed is returned by a second call to Construct.
	ErrAlreadyConstructed = errors.Sentinel(errors.ErrCodeAlreadyConstructed)
	// ErrLimitExceeded is returned when the closure would create more than
	// Config.MaxVertices vertices.
	ErrLimitExceeded = errors.Sentinel(errors.ErrCodeLimitExceeded)
)

const (
	// DefaultOverset is the margin added around the window.
	DefaultOverset = 0.25
	// DefaultMaxVertices bounds the closure.
	DefaultMaxVertices = 50_000
	// MaxVerticesLimit is the largest MaxVertices New accepts.
	MaxVerticesLimit = 200_000
	// cancelCheckEvery is how many stack pops pass between context checks.
	cancelCheckEvery = 1024
	// collinearEpsilon is the smallest |a × b| accepted as a basis.
	collinearEpsilon = 1e-12
)

// Style tokens used by the composed picture.
const (
	StyleParallelepiped = "lightgray"
	StyleCorner         = "lime, opacity=0.5"
	StyleShifted        = "thiny, color=green!75!white"
	ParallelepipedLabel = `$\mathcal{P}(\mathcal{B})$`
)

// Config describes a lattice picture.
type Config struct {
	// A and B span the lattice.
	A, B graph.Point
	// Window is the visible region before the overset margin is applied.
	Window graph.Rect
	// Overset widens Window on every side.
	Overset float64
	// Grid draws a dashed background grid over the clip window.
	Grid bool
	// ShowBasis adds the basis arrows from the origin.
	ShowBasis bool
	// Parallelepiped fills the fundamental cell spanned by A and B.
	Parallelepiped bool
	// CornerRadius is the radius of the discs drawn by AddCorner.
	CornerRadius float64
	// Shifted overlays the lattice edges translated by -(A+B)/2.
	Shifted bool
	// MaxVertices bounds the closure; 0 means DefaultMaxVertices.
	MaxVertices int
	// Validator is passed to every graph the lattice creates.
	Validator graph.StyleValidator
}

// DefaultConfig returns the basis a=(2,1), b=(1,3) on the window
// [-5,5]×[-5,5] with a background grid.
func DefaultConfig() Config {
	return Config{
		A:       graph.Pt(2, 1),
		B:       graph.Pt(1, 3),
		Window:  graph.R(-5, -5, 5, 5),
		Overset: DefaultOverset,
		Grid:    true,
	}
}

// Lattice materialises the points {n·A + m·B} that fall inside a window.
//
// A Lattice holds three graphs: the closure result (Graph), the coordinate
// axes (Axes) and the basis arrows (Basis). [Lattice.Compose] overlays them
// into one renderable graph.
type Lattice struct {
	cfg     Config
	graph   *graph.Graph
	axes    *graph.Graph
	basis   *graph.Graph
	corners []graph.Point
	built   bool
}

// New validates cfg and returns an unconstructed lattice holding only the
// origin vertex "0".
func New(cfg Config) (*Lattice, error) {
	if err := validateBasis(cfg.A, cfg.B); err != nil {
		return nil, err
	}
	if cfg.Overset < 0 || math.IsNaN(cfg.Overset) || math.IsInf(cfg.Overset, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "lattice: overset %v must be a non-negative number", cfg.Overset).
			With("overset", cfg.Overset)
	}
	if cfg.MaxVertices <= 0 {
		cfg.MaxVertices = DefaultMaxVertices
	}
	if cfg.MaxVertices > MaxVerticesLimit {
		return nil, errors.New(errors.ErrCodeLimitExceeded, "lattice: max vertices %d exceeds %d", cfg.MaxVertices, MaxVerticesLimit).
			With("limit", MaxVerticesLimit)
	}
	w := cfg.Window.Expand(cfg.Overset)
	g, err := graph.New(graph.Config{NodeStyle: graph.StyleLittle, EdgeStyle: graph.StyleThin, Validator: cfg.Validator})
	if err != nil {
		return nil, err
	}
	if err := g.SetClip(&w); err != nil {
		return nil, err
	}
	if _, err := g.AddVertex("0", graph.Point{}); err != nil {
		return nil, err
	}
	return &Lattice{cfg: cfg, graph: g}, nil
}

func validateBasis(a, b graph.Point) error {
	bad := func(msg string) error {
		return errors.New(errors.ErrCodeInvalidBasis, "lattice: %s", msg).With("a", a).With("b", b)
	}
	for _, p := range []graph.Point{a, b} {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return bad("basis vectors must be finite")
		}
	}
	if a.IsZero() || b.IsZero() {
		return bad("basis vector is zero")
	}
	if math.Abs(a.Cross(b)) < collinearEpsilon {
		return bad("basis vectors are collinear")
	}
	return nil
}

// Config returns the lattice configuration.
func (l *Lattice) Config() Config { return l.cfg }

// Window returns the visible window including the overset margin.
func (l *Lattice) Window() graph.Rect { return l.cfg.Window.Expand(l.cfg.Overset) }

// Graph returns the closure graph. Before Construct it holds only "0".
func (l *Lattice) Graph() *graph.Graph { return l.graph }

// Axes returns the coordinate axes graph, or nil before Construct.
func (l *Lattice) Axes() *graph.Graph { return l.axes }

// Basis returns the basis arrows graph, or nil before Construct.
func (l *Lattice) Basis() *graph.Graph { return l.basis }

// Constructed reports whether Construct has run.
func (l *Lattice) Constructed() bool { return l.built }

// spacing returns the visibility slack along each axis.
func (l *Lattice) spacing() graph.Point {
	a, b := l.cfg.A, l.cfg.B
	return graph.Pt(math.Min(math.Abs(a.X), math.Abs(b.X)), math.Min(math.Abs(a.Y), math.Abs(b.Y)))
}

func (l *Lattice) visible(p graph.Point) bool {
	w := l.Window()
	s := l.spacing()
	return p.X >= w.Min.X-s.X && p.X <= w.Max.X+s.X &&
		p.Y >= w.Min.Y-s.Y && p.Y <= w.Max.Y+s.Y
}

type coeff struct{ n, m int }

// Construct runs the closure. Starting from the origin it pops vertices off
// a stack; each visible vertex gets an edge to each of its four neighbours
// p+A, p-A, p+B and p-B, creating missing neighbours with ids "1", "2", ...
// and pushing them. Vertices outside the visible window stay in the graph
// as leaves. Positions are computed as n·A + m·B from integer
// coefficients, so a lattice point is never created twice.
//
// Construct also builds the axes and basis graphs. It may run once per
// lattice; later calls return [ErrAlreadyConstructed].
func (l *Lattice) Construct() error {
	return l.ConstructContext(context.Background())
}

// ConstructContext is Construct with cancellation. The closure is built
// on a copy of the graph and installed only on success: after an error
// (limit, cancellation) the lattice still holds just "0" and may be
// constructed again.
func (l *Lattice) ConstructContext(ctx context.Context) error {
	if l.built {
		return errors.New(errors.ErrCodeAlreadyConstructed, "lattice: already constructed")
	}
	axes, err := l.buildAxes()
	if err != nil {
		return err
	}
	basis, err := l.buildBasis()
	if err != nil {
		return err
	}
	g, err := l.graph.Clone()
	if err != nil {
		return err
	}

	a, b := l.cfg.A, l.cfg.B
	at := func(c coeff) graph.Point {
		return a.Mul(float64(c.n)).Add(b.Mul(float64(c.m)))
	}
	ids := map[coeff]string{{0, 0}: "0"}
	steps := []coeff{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	stack := []coeff{{0, 0}}
	next := 1

	for pops := 0; len(stack) > 0; pops++ {
		if pops%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("lattice: closure stopped after %d vertices: %w", next, err)
			}
		}
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !l.visible(at(c)) {
			continue
		}
		from := ids[c]
		for _, s := range steps {
			nc := coeff{c.n + s.n, c.m + s.m}
			to, ok := ids[nc]
			if !ok {
				if next >= l.cfg.MaxVertices {
					return errors.New(errors.ErrCodeLimitExceeded,
						"lattice: closure exceeds %d vertices", l.cfg.MaxVertices).
						With("limit", l.cfg.MaxVertices).With("window", l.Window())
				}
				to = strconv.Itoa(next)
				next++
				if _, err := g.AddVertex(to, at(nc)); err != nil {
					return err
				}
				ids[nc] = to
				stack = append(stack, nc)
			}
			if err := g.AddEdge(from, to); err != nil {
				return err
			}
		}
	}
	l.graph, l.axes, l.basis = g, axes, basis
	l.built = true
	return nil
}

func (l *Lattice) buildAxes() (*graph.Graph, error) {
	w := l.Window()
	o := l.cfg.Overset
	g, err := graph.New(graph.Config{NodeStyle: graph.StyleNone, EdgeStyle: graph.StyleAxis, Validator: l.cfg.Validator})
	if err != nil {
		return nil, err
	}
	for _, v := range []struct {
		id  string
		pos graph.Point
	}{
		{"-X", graph.Pt(w.Min.X-o, 0)},
		{"+X", graph.Pt(w.Max.X+o, 0)},
		{"-Y", graph.Pt(0, w.Min.Y-o)},
		{"+Y", graph.Pt(0, w.Max.Y+o)},
	} {
		if _, err := g.AddVertex(v.id, v.pos); err != nil {
			return nil, err
		}
	}
	if err := g.AddEdge("-X", "+X"); err != nil {
		return nil, err
	}
	if err := g.AddEdge("-Y", "+Y"); err != nil {
		return nil, err
	}
	return g, nil
}

func (l *Lattice) buildBasis() (*graph.Graph, error) {
	g, err := graph.New(graph.Config{NodeStyle: graph.StyleLittle, EdgeStyle: graph.StyleBasisArrow, Validator: l.cfg.Validator})
	if err != nil {
		return nil, err
	}
	if _, err := g.AddVertex("0", graph.Point{}); err != nil {
		return nil, err
	}
	if _, err := g.AddVertex("1", l.cfg.A); err != nil {
		return nil, err
	}
	if _, err := g.AddVertex("3", l.cfg.B); err != nil {
		return nil, err
	}
	if err := g.AddEdge("0", "1"); err != nil {
		return nil, err
	}
	if err := g.AddEdge("0", "3"); err != nil {
		return nil, err
	}
	return g, nil
}

// AddCorner marks the lattice point na·A + nb·B; Compose draws a disc of
// Config.CornerRadius at each corner of the cell based there, clipped to
// the cell.
func (l *Lattice) AddCorner(na, nb int) {
	l.corners = append(l.corners, l.cfg.A.Mul(float64(na)).Add(l.cfg.B.Mul(float64(nb))))
}

// Corners returns the marked cell origins.
func (l *Lattice) Corners() []graph.Point {
	return append([]graph.Point(nil), l.corners...)
}
