package graph

import (
	"slices"

	"github.com/matzehuels/texgraph/pkg/errors"
)

// ShapeKind identifies the geometry of a decoration.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapePolygon   ShapeKind = "polygon"
	ShapePolyline  ShapeKind = "polyline"
)

// Mode selects stroke or fill rendering.
type Mode string

const (
	ModeDraw Mode = "draw"
	ModeFill Mode = "fill"
)

// Decoration is a non-graph annotation drawn over the edges.
//
// Points holds the shape data: two opposite corners for a rectangle, the
// centre for a circle (with Radius), three or more corners for a polygon
// (closed on emission), two or more points for a polyline. Clip optionally
// restricts the shape to a closed polygon. Label, when set, is placed at
// LabelAt as an unstyled node.
type Decoration struct {
	Kind    ShapeKind
	Mode    Mode
	Style   string
	Points  []Point
	Radius  float64
	Clip    []Point
	Label   string
	LabelAt Point
}

// Validate checks that the coordinate data matches Kind.
func (d Decoration) Validate() error {
	bad := func(format string, args ...any) *errors.Error {
		return errors.New(errors.ErrCodeInvalidShape, format, args...).
			With("kind", string(d.Kind)).With("points", len(d.Points))
	}
	switch d.Mode {
	case ModeDraw, ModeFill:
	default:
		return bad("%s: unknown mode %q", d.Kind, d.Mode)
	}
	switch d.Kind {
	case ShapeRectangle:
		if len(d.Points) != 2 {
			return bad("rectangle needs 2 corner points, got %d", len(d.Points))
		}
	case ShapeCircle:
		if len(d.Points) != 1 {
			return bad("circle needs 1 centre point, got %d", len(d.Points))
		}
		if !(d.Radius > 0) || !Pt(d.Radius, 0).finite() {
			return bad("circle radius must be a positive number, got %v", d.Radius).With("radius", d.Radius)
		}
	case ShapePolygon:
		if len(d.Points) < 3 {
			return bad("polygon needs at least 3 points, got %d", len(d.Points))
		}
	case ShapePolyline:
		if len(d.Points) < 2 {
			return bad("polyline needs at least 2 points, got %d", len(d.Points))
		}
	default:
		return bad("unknown shape kind %q", d.Kind)
	}
	if d.Kind != ShapeCircle && d.Radius != 0 {
		return bad("%s does not take a radius", d.Kind).With("radius", d.Radius)
	}
	if len(d.Clip) > 0 && len(d.Clip) < 3 {
		return bad("clip polygon needs at least 3 points, got %d", len(d.Clip))
	}
	for _, p := range slices.Concat(d.Points, d.Clip, []Point{d.LabelAt}) {
		if !p.finite() {
			return bad("%s has a non-finite coordinate %v", d.Kind, p).With("point", p)
		}
	}
	if err := errors.ValidateStyleToken(d.Style); err != nil {
		return err
	}
	return errors.ValidateLabel(d.Label)
}

// NewRectangle returns a rectangle decoration spanning two corners.
func NewRectangle(mode Mode, style string, p, q Point) Decoration {
	return Decoration{Kind: ShapeRectangle, Mode: mode, Style: style, Points: []Point{p, q}}
}

// NewCircle returns a circle decoration.
func NewCircle(mode Mode, style string, centre Point, radius float64) Decoration {
	return Decoration{Kind: ShapeCircle, Mode: mode, Style: style, Points: []Point{centre}, Radius: radius}
}

// NewPolygon returns a closed polygon decoration.
func NewPolygon(mode Mode, style string, pts ...Point) Decoration {
	return Decoration{Kind: ShapePolygon, Mode: mode, Style: style, Points: slices.Clone(pts)}
}

// NewPolyline returns an open polyline decoration.
func NewPolyline(style string, pts ...Point) Decoration {
	return Decoration{Kind: ShapePolyline, Mode: ModeDraw, Style: style, Points: slices.Clone(pts)}
}

// AddDecoration validates d and appends it.
func (g *Graph) AddDecoration(d Decoration) error {
	if err := g.checkDecoration(d); err != nil {
		return err
	}
	g.decorations = append(g.decorations, cloneDecoration(d))
	return nil
}

// PrependDecoration validates d and inserts it at index 0 so it renders
// beneath every other decoration.
func (g *Graph) PrependDecoration(d Decoration) error {
	if err := g.checkDecoration(d); err != nil {
		return err
	}
	g.decorations = slices.Insert(g.decorations, 0, cloneDecoration(d))
	return nil
}

// ReplaceDecoration validates d and overwrites index i.
func (g *Graph) ReplaceDecoration(i int, d Decoration) error {
	if i < 0 || i >= len(g.decorations) {
		return errors.New(errors.ErrCodeInvalidInput, "decoration index %d out of range [0,%d)", i, len(g.decorations))
	}
	if err := g.checkDecoration(d); err != nil {
		return err
	}
	g.decorations[i] = cloneDecoration(d)
	return nil
}

// checkDecoration runs Validate, then the graph's style validator on Style.
func (g *Graph) checkDecoration(d Decoration) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return g.checkStyle(Style(d.Style))
}

// Decorations returns a copy of the decoration list in emission order.
func (g *Graph) Decorations() []Decoration { return cloneDecorations(g.decorations) }

// ClearDecorations drops every decoration.
func (g *Graph) ClearDecorations() { g.decorations = nil }

func cloneDecoration(d Decoration) Decoration {
	d.Points = slices.Clone(d.Points)
	d.Clip = slices.Clone(d.Clip)
	return d
}

func cloneDecorations(ds []Decoration) []Decoration {
	if ds == nil {
		return nil
	}
	out := make([]Decoration, len(ds))
	for i, d := range ds {
		out[i] = cloneDecoration(d)
	}
	return out
}
