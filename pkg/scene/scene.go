package scene

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/texgraph/pkg/errors"
)

// Scene is a declarative description of one or more pictures.
//
// Objects (graphs, lattices, matrices, trees, classic graphs and overlays)
// share one namespace. Output names the object that `render` emits; when
// empty, the last overlay is used, or the only object if there is one.
type Scene struct {
	Output      string `toml:"output" yaml:"output"`
	Precision   int    `toml:"precision" yaml:"precision" validate:"gte=0,lte=10"`
	ShowWeights bool   `toml:"show_weights" yaml:"show_weights"`

	Document *DocumentSpec `toml:"document" yaml:"document"`

	Graphs     []GraphSpec     `toml:"graph" yaml:"graph" validate:"dive"`
	Lattices   []LatticeSpec   `toml:"lattice" yaml:"lattice" validate:"dive"`
	Matrices   []MatrixSpec    `toml:"matrix" yaml:"matrix" validate:"dive"`
	Trees      []TreeSpec      `toml:"tree" yaml:"tree" validate:"dive"`
	Classics   []ClassicSpec   `toml:"classic" yaml:"classic" validate:"dive"`
	Overlays   []OverlaySpec   `toml:"overlay" yaml:"overlay" validate:"dive"`
	Transforms []TransformSpec `toml:"transform" yaml:"transform" validate:"dive"`
	Highlights []HighlightSpec `toml:"highlight" yaml:"highlight" validate:"dive"`
	Figures    []FigureSpec    `toml:"figure" yaml:"figure" validate:"dive"`

	// dir resolves relative paths such as the catalog file.
	dir string
}

// DocumentSpec configures the LaTeX wrapper.
type DocumentSpec struct {
	Class      string `toml:"class" yaml:"class" validate:"omitempty,oneof=article beamer picture"`
	Title      string `toml:"title" yaml:"title"`
	Author     string `toml:"author" yaml:"author"`
	Date       string `toml:"date" yaml:"date"`
	Institute  string `toml:"institute" yaml:"institute"`
	Theme      string `toml:"theme" yaml:"theme"`
	ColorTheme string `toml:"color_theme" yaml:"color_theme"`
	// Catalog is an extra style catalog merged over the built-in one.
	Catalog string `toml:"catalog" yaml:"catalog"`
	// StrictStyles rejects style names missing from the catalog.
	StrictStyles bool `toml:"strict_styles" yaml:"strict_styles"`
}

// GraphSpec lists vertices and edges explicitly.
type GraphSpec struct {
	Name      string       `toml:"name" yaml:"name" validate:"required"`
	NodeStyle string       `toml:"node_style" yaml:"node_style"`
	EdgeStyle string       `toml:"edge_style" yaml:"edge_style"`
	Prefix    string       `toml:"prefix" yaml:"prefix"`
	Clip      []float64    `toml:"clip" yaml:"clip" validate:"omitempty,len=4"`
	Grid      []float64    `toml:"grid" yaml:"grid" validate:"omitempty,len=4"`
	Vertices  []VertexSpec `toml:"vertex" yaml:"vertex" validate:"dive"`
	Edges     []EdgeSpec   `toml:"edge" yaml:"edge" validate:"dive"`
	Shapes    []ShapeSpec  `toml:"shape" yaml:"shape" validate:"dive"`
}

// VertexSpec is one vertex.
type VertexSpec struct {
	ID    string    `toml:"id" yaml:"id" validate:"required"`
	At    []float64 `toml:"at" yaml:"at" validate:"len=2"`
	Label string    `toml:"label" yaml:"label"`
	Style string    `toml:"style" yaml:"style"`
}

// EdgeSpec is one directed edge; Both adds the reverse edge too.
type EdgeSpec struct {
	From   string  `toml:"from" yaml:"from" validate:"required"`
	To     string  `toml:"to" yaml:"to" validate:"required"`
	Weight float64 `toml:"weight" yaml:"weight"`
	Style  string  `toml:"style" yaml:"style"`
	Both   bool    `toml:"both" yaml:"both"`
}

// ShapeSpec is a decoration.
type ShapeSpec struct {
	Kind    string      `toml:"kind" yaml:"kind" validate:"required,oneof=rectangle circle polygon polyline"`
	Mode    string      `toml:"mode" yaml:"mode" validate:"omitempty,oneof=draw fill"`
	Style   string      `toml:"style" yaml:"style"`
	Points  [][]float64 `toml:"points" yaml:"points" validate:"required,dive,len=2"`
	Radius  float64     `toml:"radius" yaml:"radius" validate:"gte=0"`
	Clip    [][]float64 `toml:"clip" yaml:"clip" validate:"dive,len=2"`
	Label   string      `toml:"label" yaml:"label"`
	LabelAt []float64   `toml:"label_at" yaml:"label_at" validate:"omitempty,len=2"`
	// Background inserts the shape beneath all others.
	Background bool `toml:"background" yaml:"background"`
}

// LatticeSpec generates a lattice picture.
type LatticeSpec struct {
	Name    string    `toml:"name" yaml:"name" validate:"required"`
	A       []float64 `toml:"a" yaml:"a" validate:"omitempty,len=2"`
	B       []float64 `toml:"b" yaml:"b" validate:"omitempty,len=2"`
	Window  []float64 `toml:"window" yaml:"window" validate:"omitempty,len=4"`
	Overset *float64  `toml:"overset" yaml:"overset" validate:"omitempty,gte=0"`
	// Grid defaults to true.
	Grid           *bool   `toml:"grid" yaml:"grid"`
	ShowBasis      bool    `toml:"show_basis" yaml:"show_basis"`
	Parallelepiped bool    `toml:"parallelepiped" yaml:"parallelepiped"`
	CornerRadius   float64 `toml:"corner_radius" yaml:"corner_radius" validate:"gte=0"`
	Corners        [][]int `toml:"corners" yaml:"corners" validate:"dive,len=2"`
	Shifted        bool    `toml:"shifted" yaml:"shifted"`
	MaxVertices    int     `toml:"max_vertices" yaml:"max_vertices" validate:"gte=0,lte=200000"`
	// Bare skips axes and decorations and emits only the closure graph.
	Bare bool `toml:"bare" yaml:"bare"`
}

// MatrixSpec generates a matrix grid.
type MatrixSpec struct {
	Name          string          `toml:"name" yaml:"name" validate:"required"`
	Rows          int             `toml:"rows" yaml:"rows" validate:"min=1,max=999"`
	Cols          int             `toml:"cols" yaml:"cols" validate:"min=1,max=999"`
	RowLabels     bool            `toml:"row_labels" yaml:"row_labels"`
	ColLabels     bool            `toml:"col_labels" yaml:"col_labels"`
	RowLabelShift float64         `toml:"row_label_shift" yaml:"row_label_shift"`
	ColLabelShift float64         `toml:"col_label_shift" yaml:"col_label_shift"`
	InfRows       float64         `toml:"inf_rows" yaml:"inf_rows" validate:"gte=0"`
	InfCols       float64         `toml:"inf_cols" yaml:"inf_cols" validate:"gte=0"`
	NodeStyle     string          `toml:"node_style" yaml:"node_style"`
	EdgeStyle     string          `toml:"edge_style" yaml:"edge_style"`
	Scale         float64         `toml:"scale" yaml:"scale"`
	Translate     []float64       `toml:"translate" yaml:"translate" validate:"omitempty,len=2"`
	Background    string          `toml:"background" yaml:"background"`
	Entries       []EntrySpec     `toml:"entry" yaml:"entry" validate:"dive"`
	Submatrices   []SubmatrixSpec `toml:"submatrix" yaml:"submatrix" validate:"dive"`
}

// EntrySpec writes text into a matrix cell.
type EntrySpec struct {
	Row   int    `toml:"row" yaml:"row" validate:"gte=0"`
	Col   int    `toml:"col" yaml:"col" validate:"gte=0"`
	Text  string `toml:"text" yaml:"text"`
	Style string `toml:"style" yaml:"style"`
}

// SubmatrixSpec highlights the cells between two corners.
type SubmatrixSpec struct {
	Bottom  []int   `toml:"bottom" yaml:"bottom" validate:"len=2"`
	Top     []int   `toml:"top" yaml:"top" validate:"len=2"`
	Color   string  `toml:"color" yaml:"color" validate:"required"`
	Opacity float64 `toml:"opacity" yaml:"opacity" validate:"gte=0,lte=1"`
}

// TreeSpec generates a complete binary tree.
type TreeSpec struct {
	Name         string  `toml:"name" yaml:"name" validate:"required"`
	Height       int     `toml:"height" yaml:"height" validate:"gte=0,lte=9"`
	LeafDistance float64 `toml:"leaf_distance" yaml:"leaf_distance" validate:"gte=0"`
	Inverted     bool    `toml:"inverted" yaml:"inverted"`
	NodeStyle    string  `toml:"node_style" yaml:"node_style"`
	EdgeStyle    string  `toml:"edge_style" yaml:"edge_style"`
}

// ClassicSpec generates a named graph.
type ClassicSpec struct {
	Name      string  `toml:"name" yaml:"name" validate:"required"`
	Kind      string  `toml:"kind" yaml:"kind" validate:"required,oneof=petersen cycle"`
	N         int     `toml:"n" yaml:"n" validate:"required_if=Kind cycle"`
	Radius    float64 `toml:"radius" yaml:"radius" validate:"gte=0"`
	NodeStyle string  `toml:"node_style" yaml:"node_style"`
	EdgeStyle string  `toml:"edge_style" yaml:"edge_style"`
}

// OverlaySpec combines earlier objects into one picture. Vertices are
// shared with the inputs, so later transforms of the overlay move them too.
type OverlaySpec struct {
	Name string    `toml:"name" yaml:"name" validate:"required"`
	Of   []string  `toml:"of" yaml:"of" validate:"required,min=1,dive,required"`
	Clip []float64 `toml:"clip" yaml:"clip" validate:"omitempty,len=4"`
	Grid []float64 `toml:"grid" yaml:"grid" validate:"omitempty,len=4"`
	// NodeStyle and EdgeStyle replace the overlay defaults.
	NodeStyle string `toml:"node_style" yaml:"node_style"`
	EdgeStyle string `toml:"edge_style" yaml:"edge_style"`
}

// TransformSpec moves an object's vertices. Scale is applied before
// Translate; decorations and windows stay where they are.
type TransformSpec struct {
	Target    string    `toml:"target" yaml:"target" validate:"required"`
	Translate []float64 `toml:"translate" yaml:"translate" validate:"omitempty,len=2"`
	Scale     float64   `toml:"scale" yaml:"scale"`
}

// HighlightSpec restyles vertices and edges after generation, or marks the
// minimum vertex expansion of the target.
type HighlightSpec struct {
	Target        string     `toml:"target" yaml:"target" validate:"required"`
	Vertices      []string   `toml:"vertices" yaml:"vertices"`
	Style         string     `toml:"style" yaml:"style"`
	Edges         [][]string `toml:"edges" yaml:"edges" validate:"dive,len=2"`
	EdgeStyle     string     `toml:"edge_style" yaml:"edge_style"`
	MinExpansion  bool       `toml:"min_expansion" yaml:"min_expansion"`
	BoundaryStyle string     `toml:"boundary_style" yaml:"boundary_style"`
}

// FigureSpec places an object in the document.
type FigureSpec struct {
	Object   string `toml:"object" yaml:"object"`
	Style    string `toml:"style" yaml:"style" validate:"omitempty,oneof=section subsection subsubsection chapter frame"`
	Title    string `toml:"title" yaml:"title"`
	PreText  string `toml:"pretext" yaml:"pretext"`
	PostText string `toml:"posttext" yaml:"posttext"`
	Caption  string `toml:"caption" yaml:"caption"`
	Label    string `toml:"label" yaml:"label"`
}

// validate reports field errors under their TOML keys.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}()

// Validate checks field constraints and that object names are unique.
func (s *Scene) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.New(errors.ErrCodeInvalidScene, "%s fails %q", fieldPath(fe.Namespace()), ruleText(fe)).
				With("field", fieldPath(fe.Namespace())).With("rule", fe.Tag())
		}
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "validate scene")
	}

	seen := make(map[string]string)
	for _, o := range s.objects() {
		if prev, ok := seen[o.name]; ok {
			return errors.New(errors.ErrCodeInvalidScene, "object %q declared as %s and %s", o.name, prev, o.kind).
				With("name", o.name)
		}
		seen[o.name] = o.kind
	}
	if s.Output != "" {
		if _, ok := seen[s.Output]; !ok {
			return errors.New(errors.ErrCodeInvalidScene, "output %q is not declared", s.Output).With("name", s.Output)
		}
	}
	return nil
}

type objectRef struct{ name, kind string }

// ObjectNames lists the declared object names in build order.
func (s *Scene) ObjectNames() []string {
	refs := s.objects()
	names := make([]string, len(refs))
	for i, o := range refs {
		names[i] = o.name
	}
	return names
}

// objects lists declared names in build order.
func (s *Scene) objects() []objectRef {
	var out []objectRef
	for _, g := range s.Graphs {
		out = append(out, objectRef{g.Name, "graph"})
	}
	for _, c := range s.Classics {
		out = append(out, objectRef{c.Name, "classic"})
	}
	for _, l := range s.Lattices {
		out = append(out, objectRef{l.Name, "lattice"})
	}
	for _, m := range s.Matrices {
		out = append(out, objectRef{m.Name, "matrix"})
	}
	for _, t := range s.Trees {
		out = append(out, objectRef{t.Name, "tree"})
	}
	for _, o := range s.Overlays {
		out = append(out, objectRef{o.Name, "overlay"})
	}
	return out
}

// fieldPath turns "Scene.graph[0].vertex[1].at" into "graph[0].vertex[1].at".
func fieldPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}

func ruleText(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}
