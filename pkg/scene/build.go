package scene

import (
	"context"
	"fmt"

	"github.com/matzehuels/texgraph/pkg/document"
	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/generate"
	"github.com/matzehuels/texgraph/pkg/graph"
	"github.com/matzehuels/texgraph/pkg/lattice"
	"github.com/matzehuels/texgraph/pkg/render/tikz"
)

// Result holds the graphs built from a scene.
type Result struct {
	// Names lists objects in build order.
	Names      []string
	Objects    map[string]*graph.Graph
	OutputName string
	Catalog    *document.Catalog
	// Document is nil when the scene has neither a document section nor
	// figures.
	Document *document.File

	opts tikz.Options
}

// Output returns the object selected for rendering.
func (r *Result) Output() *graph.Graph { return r.Objects[r.OutputName] }

// TikzOptions returns the emission options declared by the scene.
func (r *Result) TikzOptions() tikz.Options { return r.opts }

// Build generates every object. Base objects come first, then transforms
// and highlights that target them, then overlays in declaration order, then
// the remaining transforms and highlights. Each call builds fresh graphs.
func (s *Scene) Build() (*Result, error) {
	return s.BuildContext(context.Background())
}

// BuildContext is Build with cancellation. ctx is checked between build
// steps and inside lattice closures; a cancelled build returns an error
// wrapping ctx.Err().
func (s *Scene) BuildContext(ctx context.Context) (*Result, error) {
	cat, err := s.catalog()
	if err != nil {
		return nil, err
	}
	var validator graph.StyleValidator
	if s.Document != nil && s.Document.StrictStyles {
		validator = cat.Validator()
	}

	b := &builder{
		ctx:       ctx,
		scene:     s,
		validator: validator,
		res: &Result{
			Objects: make(map[string]*graph.Graph),
			Catalog: cat,
			opts:    tikz.Options{Precision: s.Precision, ShowWeights: s.ShowWeights},
		},
	}
	steps := []func() error{
		b.graphs, b.classics, b.lattices, b.matrices, b.trees,
		func() error { return b.post(false) },
		b.overlays,
		func() error { return b.post(true) },
		b.output,
		b.document,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scene: build cancelled: %w", err)
		}
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b.res, nil
}

func (s *Scene) catalog() (*document.Catalog, error) {
	cat := document.DefaultCatalog()
	if s.Document == nil || s.Document.Catalog == "" {
		return cat, nil
	}
	extra, err := document.LoadCatalogFile(s.resolve(s.Document.Catalog))
	if err != nil {
		return nil, err
	}
	cat.Merge(extra)
	return cat, nil
}

type builder struct {
	ctx       context.Context
	scene     *Scene
	validator graph.StyleValidator
	res       *Result
	done      []bool
	doneHL    []bool
}

func (b *builder) add(name string, g *graph.Graph) {
	b.res.Names = append(b.res.Names, name)
	b.res.Objects[name] = g
}

func (b *builder) config(node, edge string) graph.Config {
	return graph.Config{NodeStyle: graph.Style(node), EdgeStyle: graph.Style(edge), Validator: b.validator}
}

func (b *builder) graphs() error {
	for _, gs := range b.scene.Graphs {
		cfg := b.config(gs.NodeStyle, gs.EdgeStyle)
		cfg.NodePrefix = gs.Prefix
		cfg.Clip = rect(gs.Clip)
		cfg.Grid = rect(gs.Grid)
		g, err := graph.New(cfg)
		if err != nil {
			return objectErr("graph", gs.Name, err)
		}
		for _, v := range gs.Vertices {
			opts := []graph.VertexOption{graph.WithLabel(v.Label), graph.WithStyle(graph.Style(v.Style))}
			if _, err := g.AddVertex(v.ID, point(v.At), opts...); err != nil {
				return objectErr("graph", gs.Name, err)
			}
		}
		for _, e := range gs.Edges {
			opts := []graph.EdgeOption{graph.WithWeight(e.Weight), graph.WithEdgeStyle(graph.Style(e.Style))}
			if err := g.AddEdge(e.From, e.To, opts...); err != nil {
				return objectErr("graph", gs.Name, err)
			}
			if e.Both {
				if err := g.AddEdge(e.To, e.From, opts...); err != nil {
					return objectErr("graph", gs.Name, err)
				}
			}
		}
		for i, sh := range gs.Shapes {
			if err := addShape(g, sh); err != nil {
				return objectErr("graph", gs.Name, fmt.Errorf("shape %d: %w", i, err))
			}
		}
		b.add(gs.Name, g)
	}
	return nil
}

func addShape(g *graph.Graph, sh ShapeSpec) error {
	d := graph.Decoration{
		Kind:   graph.ShapeKind(sh.Kind),
		Mode:   graph.ModeDraw,
		Style:  sh.Style,
		Radius: sh.Radius,
		Label:  sh.Label,
	}
	if sh.Mode == string(graph.ModeFill) {
		d.Mode = graph.ModeFill
	}
	for _, p := range sh.Points {
		d.Points = append(d.Points, point(p))
	}
	for _, p := range sh.Clip {
		d.Clip = append(d.Clip, point(p))
	}
	if len(sh.LabelAt) == 2 {
		d.LabelAt = point(sh.LabelAt)
	}
	if sh.Background {
		return g.PrependDecoration(d)
	}
	return g.AddDecoration(d)
}

func (b *builder) classics() error {
	for _, cs := range b.scene.Classics {
		cfg := b.config(cs.NodeStyle, cs.EdgeStyle)
		var (
			g   *graph.Graph
			err error
		)
		switch cs.Kind {
		case "petersen":
			g, err = generate.Petersen(cfg)
		case "cycle":
			r := cs.Radius
			if r == 0 {
				r = 1
			}
			g, err = generate.Cycle(cs.N, r, cfg)
		}
		if err != nil {
			return objectErr("classic", cs.Name, err)
		}
		b.add(cs.Name, g)
	}
	return nil
}

func (b *builder) lattices() error {
	for _, ls := range b.scene.Lattices {
		cfg := lattice.DefaultConfig()
		if len(ls.A) == 2 {
			cfg.A = point(ls.A)
		}
		if len(ls.B) == 2 {
			cfg.B = point(ls.B)
		}
		if len(ls.Window) == 4 {
			cfg.Window = *rect(ls.Window)
		}
		if ls.Overset != nil {
			cfg.Overset = *ls.Overset
		}
		if ls.Grid != nil {
			cfg.Grid = *ls.Grid
		}
		cfg.ShowBasis = ls.ShowBasis
		cfg.Parallelepiped = ls.Parallelepiped
		cfg.CornerRadius = ls.CornerRadius
		cfg.Shifted = ls.Shifted
		cfg.MaxVertices = ls.MaxVertices
		cfg.Validator = b.validator

		l, err := lattice.New(cfg)
		if err != nil {
			return objectErr("lattice", ls.Name, err)
		}
		for _, c := range ls.Corners {
			l.AddCorner(c[0], c[1])
		}
		if err := l.ConstructContext(b.ctx); err != nil {
			return objectErr("lattice", ls.Name, err)
		}
		g := l.Graph()
		if !ls.Bare {
			if g, err = l.ComposeContext(b.ctx); err != nil {
				return objectErr("lattice", ls.Name, err)
			}
		}
		b.add(ls.Name, g)
	}
	return nil
}

func (b *builder) matrices() error {
	for _, ms := range b.scene.Matrices {
		m, err := generate.NewMatrix(generate.MatrixConfig{
			Rows:          ms.Rows,
			Cols:          ms.Cols,
			RowLabels:     ms.RowLabels,
			ColLabels:     ms.ColLabels,
			RowLabelShift: ms.RowLabelShift,
			ColLabelShift: ms.ColLabelShift,
			InfRows:       ms.InfRows,
			InfCols:       ms.InfCols,
			NodeStyle:     graph.Style(ms.NodeStyle),
			EdgeStyle:     graph.Style(ms.EdgeStyle),
			Validator:     b.validator,
		})
		if err != nil {
			return objectErr("matrix", ms.Name, err)
		}
		// Transforms clear decorations, so they run before anything is drawn.
		if ms.Scale != 0 {
			if err := m.Scale(ms.Scale); err != nil {
				return objectErr("matrix", ms.Name, err)
			}
		}
		if len(ms.Translate) == 2 {
			if err := m.Translate(point(ms.Translate)); err != nil {
				return objectErr("matrix", ms.Name, err)
			}
		}
		for _, e := range ms.Entries {
			if err := m.WriteEntry(e.Row, e.Col, e.Text, graph.Style(e.Style)); err != nil {
				return objectErr("matrix", ms.Name, err)
			}
		}
		for _, sm := range ms.Submatrices {
			if err := m.AddSubmatrix([2]int{sm.Bottom[0], sm.Bottom[1]}, [2]int{sm.Top[0], sm.Top[1]}, sm.Color, sm.Opacity); err != nil {
				return objectErr("matrix", ms.Name, err)
			}
		}
		if ms.Background != "" {
			if err := m.SetBackground(ms.Background); err != nil {
				return objectErr("matrix", ms.Name, err)
			}
		}
		b.add(ms.Name, m.Graph())
	}
	return nil
}

func (b *builder) trees() error {
	for _, ts := range b.scene.Trees {
		g, err := generate.NewTree(generate.TreeConfig{
			Height:       ts.Height,
			LeafDistance: ts.LeafDistance,
			Inverted:     ts.Inverted,
			NodeStyle:    graph.Style(ts.NodeStyle),
			EdgeStyle:    graph.Style(ts.EdgeStyle),
			Validator:    b.validator,
		})
		if err != nil {
			return objectErr("tree", ts.Name, err)
		}
		b.add(ts.Name, g)
	}
	return nil
}

func (b *builder) overlays() error {
	for _, ov := range b.scene.Overlays {
		parts := make([]*graph.Graph, 0, len(ov.Of))
		for _, name := range ov.Of {
			g, ok := b.res.Objects[name]
			if !ok {
				return errors.New(errors.ErrCodeInvalidScene, "overlay %q: object %q is not declared before it", ov.Name, name).
					With("overlay", ov.Name).With("name", name)
			}
			parts = append(parts, g)
		}
		g, err := graph.Overlay(parts...)
		if err != nil {
			return objectErr("overlay", ov.Name, err)
		}
		if ov.Clip != nil {
			if err := g.SetClip(rect(ov.Clip)); err != nil {
				return objectErr("overlay", ov.Name, err)
			}
		}
		if ov.Grid != nil {
			if err := g.SetGrid(rect(ov.Grid)); err != nil {
				return objectErr("overlay", ov.Name, err)
			}
		}
		if ov.NodeStyle != "" {
			if err := g.SetDefaultNodeStyle(graph.Style(ov.NodeStyle)); err != nil {
				return objectErr("overlay", ov.Name, err)
			}
		}
		if ov.EdgeStyle != "" {
			if err := g.SetDefaultEdgeStyle(graph.Style(ov.EdgeStyle)); err != nil {
				return objectErr("overlay", ov.Name, err)
			}
		}
		b.add(ov.Name, g)
	}
	return nil
}

// post applies transforms and highlights. The first pass handles those
// targeting base objects; the second handles overlays.
func (b *builder) post(overlays bool) error {
	if b.done == nil {
		b.done = make([]bool, len(b.scene.Transforms))
		b.doneHL = make([]bool, len(b.scene.Highlights))
	}
	for i, ts := range b.scene.Transforms {
		if b.done[i] {
			continue
		}
		g, ok := b.res.Objects[ts.Target]
		if !ok {
			if overlays {
				return unknownTarget("transform", ts.Target)
			}
			continue
		}
		if ts.Scale != 0 {
			if err := g.Scale(ts.Scale); err != nil {
				return objectErr("transform", ts.Target, err)
			}
		}
		if len(ts.Translate) == 2 {
			if err := g.Translate(point(ts.Translate)); err != nil {
				return objectErr("transform", ts.Target, err)
			}
		}
		b.done[i] = true
	}
	for i, hs := range b.scene.Highlights {
		if b.doneHL[i] {
			continue
		}
		g, ok := b.res.Objects[hs.Target]
		if !ok {
			if overlays {
				return unknownTarget("highlight", hs.Target)
			}
			continue
		}
		if err := highlight(g, hs); err != nil {
			return objectErr("highlight", hs.Target, err)
		}
		b.doneHL[i] = true
	}
	return nil
}

func highlight(g *graph.Graph, hs HighlightSpec) error {
	for _, id := range hs.Vertices {
		if err := g.SetVertexStyle(id, graph.Style(hs.Style)); err != nil {
			return err
		}
	}
	for _, e := range hs.Edges {
		if err := g.SetEdgeStyle(e[0], e[1], graph.Style(hs.EdgeStyle)); err != nil {
			return err
		}
	}
	if !hs.MinExpansion {
		return nil
	}
	res, ok, err := g.MinExpansion()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	setStyle := graph.Style(hs.Style)
	if setStyle.IsInherit() {
		setStyle = "rn"
	}
	boundary := graph.Style(hs.BoundaryStyle)
	if boundary.IsInherit() {
		boundary = "yn"
	}
	return g.HighlightExpansion(res.Set, setStyle, boundary)
}

func (b *builder) output() error {
	name := b.scene.Output
	if name == "" {
		switch {
		case len(b.scene.Overlays) > 0:
			name = b.scene.Overlays[len(b.scene.Overlays)-1].Name
		case len(b.res.Names) == 1:
			name = b.res.Names[0]
		case len(b.res.Names) == 0:
			return errors.New(errors.ErrCodeInvalidScene, "scene declares no objects")
		default:
			return errors.New(errors.ErrCodeInvalidScene, "scene declares %d objects; set output to pick one", len(b.res.Names)).
				With("objects", b.res.Names)
		}
	}
	b.res.OutputName = name
	return nil
}

func (b *builder) document() error {
	ds := b.scene.Document
	if ds == nil && len(b.scene.Figures) == 0 {
		return nil
	}
	if ds == nil {
		ds = &DocumentSpec{}
	}
	class := document.Class(ds.Class)
	if class == "" {
		class = document.ClassArticle
	}
	f, err := document.NewFile(class, ds.Title)
	if err != nil {
		return err
	}
	f.Author = ds.Author
	f.Date = ds.Date
	f.Institute = ds.Institute
	f.Theme = ds.Theme
	f.ColorTheme = ds.ColorTheme
	f.Catalog = b.res.Catalog

	if len(b.scene.Figures) == 0 {
		f.AddGraph(b.res.OutputName, b.res.Output())
	}
	for _, fs := range b.scene.Figures {
		fig := document.Figure{
			Style:    document.Section(fs.Style),
			Title:    fs.Title,
			PreText:  fs.PreText,
			PostText: fs.PostText,
			Caption:  fs.Caption,
			Label:    fs.Label,
		}
		if fs.Object != "" {
			g, ok := b.res.Objects[fs.Object]
			if !ok {
				return unknownTarget("figure", fs.Object)
			}
			fig.Picture = g
		}
		f.AddFigure(fig)
	}
	b.res.Document = f
	return nil
}

func objectErr(kind, name string, err error) error {
	return fmt.Errorf("%s %q: %w", kind, name, err)
}

func unknownTarget(kind, name string) error {
	return errors.New(errors.ErrCodeInvalidScene, "%s targets unknown object %q", kind, name).With("name", name)
}

func point(v []float64) graph.Point { return graph.Pt(v[0], v[1]) }

func rect(v []float64) *graph.Rect {
	if len(v) != 4 {
		return nil
	}
	r := graph.R(v[0], v[1], v[2], v[3])
	return &r
}
