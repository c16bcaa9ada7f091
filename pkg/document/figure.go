package document

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/graph"
	"github.com/matzehuels/texgraph/pkg/render/tikz"
)

// Section is the sectioning command that introduces a figure.
type Section string

const (
	SectionSection       Section = "section"
	SectionSubsection    Section = "subsection"
	SectionSubsubsection Section = "subsubsection"
	SectionChapter       Section = "chapter"
	// SectionFrame wraps the figure in a beamer frame titled with the
	// figure title.
	SectionFrame Section = "frame"
)

// Sections lists the supported sectioning styles in menu order.
func Sections() []Section {
	return []Section{SectionSection, SectionSubsection, SectionSubsubsection, SectionChapter, SectionFrame}
}

// Valid reports whether s is a supported sectioning style.
func (s Section) Valid() bool { return slices.Contains(Sections(), s) }

// labelSpace namespaces derived figure labels.
var labelSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/texgraph/figure"))

// LabelFor derives a stable \label key from a figure title and its position
// in the document.
func LabelFor(title string, n int) string {
	id := uuid.NewSHA1(labelSpace, []byte(fmt.Sprintf("%d/%s", n, title)))
	return "fig:" + id.String()[:8]
}

// Figure is one titled picture with optional text around it.
type Figure struct {
	Style    Section
	Title    string
	PreText  string
	PostText string
	Caption  string
	// Label is the \label key; empty derives one with [LabelFor].
	Label string
	// Picture may be nil for a text-only section or frame.
	Picture *graph.Graph
}

// NewFigure returns a section-style figure for g.
func NewFigure(title string, g *graph.Graph) Figure {
	return Figure{Style: SectionSection, Title: title, Picture: g}
}

// Write emits the figure. The picture is rendered before anything is
// written, so a failing graph leaves w untouched.
func (f Figure) Write(w io.Writer, opts tikz.Options) error {
	var buf bytes.Buffer
	if err := f.render(&buf, opts, 0); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write figure")
	}
	return nil
}

func (f Figure) render(buf *bytes.Buffer, opts tikz.Options, n int) error {
	if f.Style == "" {
		f.Style = SectionSection
	}
	if !f.Style.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown figure style %q", f.Style).
			With("style", string(f.Style))
	}
	const p = "\t"

	if f.Style == SectionFrame {
		fmt.Fprintf(buf, "%s\\begin{frame}{%s}\n", p, f.Title)
	} else {
		fmt.Fprintf(buf, "%s\\%s{%s}\n", p, f.Style, f.Title)
	}
	if f.PreText != "" {
		fmt.Fprintf(buf, "%s%s\n", p, f.PreText)
	}

	if f.Picture != nil {
		fmt.Fprintf(buf, "%s\\begin{figure}[H]\n", p)
		fmt.Fprintf(buf, "%s\t\\begin{center}\n", p)
		fmt.Fprintf(buf, "%s\t\t\\resizebox{0.95\\textwidth}{!}{\n", p)
		opts.Indent = p + "\t\t\t"
		if err := tikz.Picture(buf, f.Picture, opts); err != nil {
			return err
		}
		fmt.Fprintf(buf, "%s\t\t}\n", p)
		fmt.Fprintf(buf, "%s\t\\end{center}\n", p)
		if f.Caption != "" {
			fmt.Fprintf(buf, "%s\t\\caption{%s}\n", p, f.Caption)
		}
		label := f.Label
		if label == "" {
			label = LabelFor(f.Title, n)
		}
		fmt.Fprintf(buf, "%s\t\\label{%s}\n", p, label)
		fmt.Fprintf(buf, "%s\\end{figure}\n", p)
	}

	if f.PostText != "" {
		fmt.Fprintf(buf, "%s%s\n", p, f.PostText)
	}
	if f.Style == SectionFrame {
		fmt.Fprintf(buf, "%s\\end{frame}\n", p)
	}
	return nil
}
