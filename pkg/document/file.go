package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/graph"
	"github.com/matzehuels/texgraph/pkg/render/tikz"
)

// Class is the LaTeX document class of a [File].
type Class string

const (
	ClassArticle Class = "article"
	ClassBeamer  Class = "beamer"
	// ClassPicture emits bare pictures cropped by the preview package.
	ClassPicture Class = "picture"
)

// Classes lists the supported document classes.
func Classes() []Class { return []Class{ClassArticle, ClassBeamer, ClassPicture} }

// Default beamer theme.
const (
	DefaultTheme      = "Berkeley"
	DefaultColorTheme = "spruce"
)

// File is a complete .tex document holding a list of figures.
type File struct {
	Class     Class
	Title     string
	Author    string
	Date      string
	Institute string // beamer only
	// Theme and ColorTheme default to [DefaultTheme] and [DefaultColorTheme].
	Theme      string
	ColorTheme string
	// Catalog supplies the preamble; nil means [DefaultCatalog].
	Catalog *Catalog

	figures []Figure
}

// NewFile returns an empty document of the given class.
func NewFile(class Class, title string) (*File, error) {
	switch class {
	case ClassArticle, ClassBeamer, ClassPicture:
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unrecognized document class %q", class).
			With("class", string(class))
	}
	return &File{Class: class, Title: title}, nil
}

// AddFigure appends a figure. Beamer documents turn every figure into a
// frame and drop the text around it.
func (f *File) AddFigure(fig Figure) {
	if f.Class == ClassBeamer {
		fig.Style = SectionFrame
		fig.PreText = ""
		fig.PostText = ""
	}
	f.figures = append(f.figures, fig)
}

// AddGraph appends g wrapped in a default figure titled title.
func (f *File) AddGraph(title string, g *graph.Graph) {
	f.AddFigure(NewFigure(title, g))
}

// SetFigureStyle changes the sectioning command of figure i. Beamer
// figures stay frames.
func (f *File) SetFigureStyle(i int, style Section) error {
	if i < 0 || i >= len(f.figures) {
		return errors.New(errors.ErrCodeInvalidInput, "no figure %d", i).With("figures", len(f.figures))
	}
	if !style.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unrecognized section style %q", style).With("style", string(style))
	}
	if f.Class != ClassBeamer {
		f.figures[i].Style = style
	}
	return nil
}

// Figures returns the figures in document order.
func (f *File) Figures() []Figure {
	out := make([]Figure, len(f.figures))
	copy(out, f.figures)
	return out
}

// Write emits the whole document. Nothing is written if any figure fails
// to render.
func (f *File) Write(w io.Writer, opts tikz.Options) error {
	var buf bytes.Buffer
	if err := f.render(&buf, opts); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write document")
	}
	return nil
}

// WriteFile writes the document to path, creating parent directories.
func (f *File) WriteFile(path string, opts tikz.Options) error {
	var buf bytes.Buffer
	if err := f.render(&buf, opts); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

func (f *File) render(buf *bytes.Buffer, opts tikz.Options) error {
	cat := f.Catalog
	if cat == nil {
		cat = DefaultCatalog()
	}

	f.header(buf)
	if err := cat.WritePreamble(buf); err != nil {
		return err
	}
	if f.Class == ClassPicture {
		buf.WriteString("\n\\usepackage[graphics,tightpage,active]{preview}\n")
		buf.WriteString("\\PreviewEnvironment{tikzpicture}\n")
	}
	buf.WriteString("\n\\begin{document}\n\n")
	if f.Class != ClassPicture {
		buf.WriteString("\\maketitle\n\n")
	}

	for i, fig := range f.figures {
		if f.Class == ClassPicture {
			if fig.Picture == nil {
				continue
			}
			pic := opts
			pic.Indent = "\t"
			if err := tikz.Picture(buf, fig.Picture, pic); err != nil {
				return fmt.Errorf("figure %d: %w", i, err)
			}
			continue
		}
		if err := fig.render(buf, opts, i); err != nil {
			return fmt.Errorf("figure %d: %w", i, err)
		}
	}

	buf.WriteString("\\end{document}\n")
	return nil
}

func (f *File) header(buf *bytes.Buffer) {
	switch f.Class {
	case ClassBeamer:
		buf.WriteString("\\documentclass{beamer}\n")
		fmt.Fprintf(buf, "\\usetheme{%s}\n", orDefault(f.Theme, DefaultTheme))
		fmt.Fprintf(buf, "\\usecolortheme{%s}\n", orDefault(f.ColorTheme, DefaultColorTheme))
	default:
		buf.WriteString("\\documentclass{article}\n")
	}
	fmt.Fprintf(buf, "\\title{%s}\n", f.Title)
	if f.Author != "" {
		fmt.Fprintf(buf, "\\author{%s}\n", f.Author)
	}
	if f.Class == ClassBeamer && f.Institute != "" {
		fmt.Fprintf(buf, "\\institute{%s}\n", f.Institute)
	}
	if f.Date != "" {
		fmt.Fprintf(buf, "\\date{%s}\n", f.Date)
	}
	buf.WriteString("\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
