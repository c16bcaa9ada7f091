package generate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/graph"
)

const (
	// MaxMatrixSide bounds rows and columns; entry ids are row*1000+col.
	MaxMatrixSide = 999
	// DefaultLabelShift places index labels a quarter unit outside the grid.
	DefaultLabelShift = -0.25
	// BorderStyle draws the outer rulings.
	BorderStyle graph.Style = "none, line width = 1"
	// BackgroundOpacity is used by SetBackground.
	BackgroundOpacity = 0.5
)

// Corner selects one corner of a matrix cell. The first digit steps the
// column, the second the row.
type Corner string

const (
	Corner00 Corner = "00"
	Corner01 Corner = "01"
	Corner10 Corner = "10"
	Corner11 Corner = "11"
)

// MatrixConfig describes a matrix grid.
type MatrixConfig struct {
	Rows, Cols int
	// RowLabels and ColLabels number the rows and columns.
	RowLabels, ColLabels bool
	// RowLabelShift is the x of row labels; ColLabelShift the y of column
	// labels. Zero means DefaultLabelShift.
	RowLabelShift, ColLabelShift float64
	// InfRows and InfCols, when positive, extend the outer rulings by that
	// length with dotted lines to suggest an unbounded matrix.
	InfRows, InfCols float64
	NodeStyle        graph.Style
	EdgeStyle        graph.Style
	Validator        graph.StyleValidator
}

// Matrix is a grid of entry vertices at cell centres plus ruling edges. It
// tracks the affine map applied since generation so cell corners stay
// addressable after Translate and Scale.
type Matrix struct {
	g          *graph.Graph
	rows, cols int
	offset     graph.Point
	unit       float64
	background bool
}

// NewMatrix generates a rows×cols grid. Entry (i,j) has id i*1000+j and sits
// at (j+0.5, i+0.5). Horizontal rulings are Rlx<i> -> Rdx<i>, vertical ones
// Clx<j> -> Cdx<j>; the outermost use [BorderStyle].
func NewMatrix(cfg MatrixConfig) (*Matrix, error) {
	if cfg.Rows < 1 || cfg.Cols < 1 || cfg.Rows > MaxMatrixSide || cfg.Cols > MaxMatrixSide {
		return nil, errors.New(errors.ErrCodeLimitExceeded, "matrix: %dx%d outside 1..%d", cfg.Rows, cfg.Cols, MaxMatrixSide).
			With("rows", cfg.Rows).With("cols", cfg.Cols)
	}
	for _, f := range []float64{cfg.InfRows, cfg.InfCols, cfg.RowLabelShift, cfg.ColLabelShift} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "matrix: non-finite parameter %v", f)
		}
	}
	if cfg.RowLabelShift == 0 {
		cfg.RowLabelShift = DefaultLabelShift
	}
	if cfg.ColLabelShift == 0 {
		cfg.ColLabelShift = DefaultLabelShift
	}
	g, err := graph.New(graph.Config{NodeStyle: cfg.NodeStyle, EdgeStyle: cfg.EdgeStyle, Validator: cfg.Validator})
	if err != nil {
		return nil, err
	}
	m := &Matrix{g: g, rows: cfg.Rows, cols: cfg.Cols, unit: 1}
	b := builder{g: g}
	rows, cols := float64(cfg.Rows), float64(cfg.Cols)

	for i := 0; i < cfg.Rows; i++ {
		for j := 0; j < cfg.Cols; j++ {
			b.vertex(EntryID(i, j), graph.Pt(float64(j)+0.5, float64(i)+0.5))
		}
	}
	for i := 0; i <= cfg.Rows; i++ {
		l, r := "Rlx"+strconv.Itoa(i), "Rdx"+strconv.Itoa(i)
		b.vertex(l, graph.Pt(0, float64(i)))
		b.vertex(r, graph.Pt(cols, float64(i)))
		b.edge(l, r, rulingStyle(i, cfg.Rows))
		if cfg.RowLabels && i < cfg.Rows {
			b.vertex("Lr"+strconv.Itoa(i), graph.Pt(cfg.RowLabelShift, float64(i)+0.5), graph.WithLabel(strconv.Itoa(i)))
		}
	}
	for j := 0; j <= cfg.Cols; j++ {
		l, r := "Clx"+strconv.Itoa(j), "Cdx"+strconv.Itoa(j)
		b.vertex(l, graph.Pt(float64(j), 0))
		b.vertex(r, graph.Pt(float64(j), rows))
		b.edge(l, r, rulingStyle(j, cfg.Cols))
		if cfg.ColLabels && j < cfg.Cols {
			b.vertex("Lc"+strconv.Itoa(j), graph.Pt(float64(j)+0.5, cfg.ColLabelShift), graph.WithLabel(strconv.Itoa(j)))
		}
	}
	if cfg.InfRows > 0 {
		b.vertex("A", graph.Pt(0, rows+cfg.InfRows))
		b.vertex("B", graph.Pt(cols, rows+cfg.InfRows))
		b.vertex("-A", graph.Pt(0, -cfg.InfRows))
		b.vertex("-B", graph.Pt(cols, -cfg.InfRows))
		b.edge("A", "-A", graph.StyleDotted)
		b.edge("B", "-B", graph.StyleDotted)
	}
	if cfg.InfCols > 0 {
		b.vertex("C", graph.Pt(cols+cfg.InfCols, 0))
		b.vertex("D", graph.Pt(cols+cfg.InfCols, rows))
		b.vertex("-C", graph.Pt(-cfg.InfCols, 0))
		b.vertex("-D", graph.Pt(-cfg.InfCols, rows))
		b.edge("C", "-C", graph.StyleDotted)
		b.edge("D", "-D", graph.StyleDotted)
	}
	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

func rulingStyle(i, last int) graph.Style {
	if i == 0 || i == last {
		return BorderStyle
	}
	return graph.Inherit
}

// EntryID returns the vertex id of entry (row, col).
func EntryID(row, col int) string { return strconv.Itoa(row*1000 + col) }

// Graph returns the underlying graph.
func (m *Matrix) Graph() *graph.Graph { return m.g }

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Unit returns the current cell size.
func (m *Matrix) Unit() float64 { return m.unit }

// Offset returns the current position of the grid's lower-left corner.
func (m *Matrix) Offset() graph.Point { return m.offset }

func (m *Matrix) checkEntry(row, col int) error {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return errors.New(errors.ErrCodeVertexNotFound, "matrix: entry (%d,%d) outside %dx%d", row, col, m.rows, m.cols).
			With("row", row).With("col", col)
	}
	return nil
}

// Corner returns the position of a corner of cell (row, col) under the
// current translation and scale.
func (m *Matrix) Corner(row, col int, c Corner) (graph.Point, error) {
	if err := m.checkEntry(row, col); err != nil {
		return graph.Point{}, err
	}
	i, j := row, col
	switch c {
	case Corner00:
	case Corner10:
		j++
	case Corner01:
		i++
	case Corner11:
		i++
		j++
	default:
		return graph.Point{}, errors.New(errors.ErrCodeInvalidInput, "matrix: corner must be one of 00, 01, 10, 11, got %q", c).
			With("corner", string(c))
	}
	return graph.Pt(float64(j), float64(i)).Mul(m.unit).Add(m.offset), nil
}

// WriteEntry sets the label of entry (row, col) and, unless style is
// [graph.Inherit], its style.
func (m *Matrix) WriteEntry(row, col int, text string, style graph.Style) error {
	if err := m.checkEntry(row, col); err != nil {
		return err
	}
	id := EntryID(row, col)
	if !style.IsInherit() {
		if err := m.g.SetVertexStyle(id, style); err != nil {
			return err
		}
	}
	return m.g.SetLabel(id, text)
}

// AddSubmatrix highlights the block from entry bottom to entry top
// (inclusive, each given as {row, col}). A positive opacity fills the block;
// otherwise it gets a thick dashed frame.
func (m *Matrix) AddSubmatrix(bottom, top [2]int, color string, opacity float64) error {
	p, err := m.Corner(bottom[0], bottom[1], Corner00)
	if err != nil {
		return err
	}
	q, err := m.Corner(top[0], top[1], Corner11)
	if err != nil {
		return err
	}
	if opacity > 0 {
		return m.g.AddDecoration(graph.NewRectangle(graph.ModeFill, fmt.Sprintf("%s, opacity = %g", color, opacity), p, q))
	}
	return m.g.AddDecoration(graph.NewRectangle(graph.ModeDraw, color+", line width = 2, dash pattern=on 8pt off 4pt", p, q))
}

// SetBackground fills the whole grid with color at half opacity. The fill
// is kept at decoration index 0 so it renders beneath every highlight; a
// second call replaces it.
func (m *Matrix) SetBackground(color string) error {
	p, _ := m.Corner(0, 0, Corner00)
	q, _ := m.Corner(m.rows-1, m.cols-1, Corner11)
	d := graph.NewRectangle(graph.ModeFill, fmt.Sprintf("%s, opacity = %g", color, BackgroundOpacity), p, q)
	if m.background {
		return m.g.ReplaceDecoration(0, d)
	}
	if err := m.g.PrependDecoration(d); err != nil {
		return err
	}
	m.background = true
	return nil
}

// Translate moves the matrix by d. Highlights and background are dropped
// because they hold absolute coordinates.
func (m *Matrix) Translate(d graph.Point) error {
	if err := m.g.Translate(d); err != nil {
		return err
	}
	m.g.ClearDecorations()
	m.background = false
	m.offset = m.offset.Add(d)
	return nil
}

// Scale scales the matrix by f about the origin. Highlights and background
// are dropped.
func (m *Matrix) Scale(f float64) error {
	if err := m.g.Scale(f); err != nil {
		return err
	}
	m.g.ClearDecorations()
	m.background = false
	m.unit *= f
	m.offset = m.offset.Mul(f)
	return nil
}
