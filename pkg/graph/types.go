package graph

import (
	"fmt"
	"math"
)

// Point is a position in the picture plane.
type Point struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by f.
func (p Point) Mul(f float64) Point { return Point{p.X * f, p.Y * f} }

// Neg returns -p.
func (p Point) Neg() Point { return Point{-p.X, -p.Y} }

// IsZero reports whether both coordinates are zero.
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// Cross returns the z component of the cross product p × q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// finite reports whether both coordinates are finite numbers.
func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Rect is an axis-aligned box given by its lower-left and upper-right corners.
type Rect struct {
	Min Point `json:"min" toml:"min" yaml:"min"`
	Max Point `json:"max" toml:"max" yaml:"max"`
}

// R builds a Rect from its corner coordinates.
func R(x0, y0, x1, y1 float64) Rect { return Rect{Min: Pt(x0, y0), Max: Pt(x1, y1)} }

// Contains reports whether p lies inside r, borders included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand grows r by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{Min: Pt(r.Min.X-m, r.Min.Y-m), Max: Pt(r.Max.X+m, r.Max.Y+m)}
}

// Style names a presentation defined by the surrounding document template
// (a tikzstyle such as "rn" or "bluearrow", or a raw option list such as
// "red, opacity = 0.5"). The set is open: the graph never checks that a name
// exists unless a StyleValidator is configured.
type Style string

// Inherit marks a vertex or edge that takes the owning graph's default.
const Inherit Style = ""

// Built-in style tokens used by the generators and the contrast rule.
const (
	// StyleNone is an invisible node (zero inner sep) or edge.
	StyleNone Style = "none"
	// StyleDark is the reserved filled-black node style; labels drawn on it
	// are recoloured for legibility.
	StyleDark Style = "blstyle"
	// StyleWhite is the outlined white node used by trees.
	StyleWhite Style = "wstyle"
	// StyleLittle is the small grey dot used for lattice points.
	StyleLittle Style = "little"
	// StyleThin is the light connector used for lattice edges.
	StyleThin Style = "thiny"
	// StyleAxis is the arrow used for coordinate axes.
	StyleAxis Style = "axe"
	// StyleBasisArrow is the arrow used for basis vectors.
	StyleBasisArrow Style = "bluearrow"
	// StyleDotted is the dashed ruling used for unbounded matrix borders.
	StyleDotted Style = "trat"
)

// IsInherit reports whether s defers to the graph default.
func (s Style) IsInherit() bool { return s == Inherit }

// StyleValidator accepts or rejects a style token. Graphs run it on every
// explicit token they are handed; a nil validator accepts everything that
// passes the syntactic check.
type StyleValidator func(Style) error
