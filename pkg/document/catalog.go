package document

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/graph"
)

//go:embed styles.toml
var defaultCatalog []byte

// StyleKind says whether a style is meant for nodes or edges.
type StyleKind string

const (
	KindNode StyleKind = "node"
	KindEdge StyleKind = "edge"
)

// StyleDef is one named TikZ style.
type StyleDef struct {
	Name        string    `toml:"name"`
	Kind        StyleKind `toml:"kind"`
	Options     string    `toml:"options"`
	Description string    `toml:"description"`
}

// Catalog is the set of styles, colors and TikZ libraries a document
// preamble declares. Graphs reference styles by name only; the catalog
// is what makes those names resolve when the document is typeset.
type Catalog struct {
	Packages  []string   `toml:"packages"`
	Libraries []string   `toml:"libraries"`
	Layers    []string   `toml:"layers"`
	Colors    []string   `toml:"colors"`
	Styles    []StyleDef `toml:"style"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := parseCatalog(defaultCatalog, "styles.toml")
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads a TOML catalog. Unknown keys are rejected.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read catalog")
	}
	return parseCatalog(data, "catalog")
}

// LoadCatalogFile reads a TOML catalog from path.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read catalog %s", path)
	}
	return parseCatalog(data, path)
}

func parseCatalog(data []byte, name string) (*Catalog, error) {
	var c Catalog
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", name)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: unknown key %q", name, undecoded[0].String()).
			With("key", undecoded[0].String())
	}
	for i, s := range c.Styles {
		if s.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: style %d has no name", name, i)
		}
		if s.Kind != KindNode && s.Kind != KindEdge {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: style %q has kind %q", name, s.Name, s.Kind).
				With("style", s.Name)
		}
		if strings.ContainsAny(s.Options, "\r\n") {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: style %q options span several lines", name, s.Name).
				With("style", s.Name)
		}
	}
	return &c, nil
}

// Merge adds the styles and colors of other. Styles with an existing name
// replace the earlier definition in place.
func (c *Catalog) Merge(other *Catalog) {
	for _, s := range other.Styles {
		if i := c.index(s.Name); i >= 0 {
			c.Styles[i] = s
			continue
		}
		c.Styles = append(c.Styles, s)
	}
	for _, list := range []struct{ dst, src *[]string }{
		{&c.Packages, &other.Packages},
		{&c.Libraries, &other.Libraries},
		{&c.Layers, &other.Layers},
		{&c.Colors, &other.Colors},
	} {
		for _, v := range *list.src {
			if !slices.Contains(*list.dst, v) {
				*list.dst = append(*list.dst, v)
			}
		}
	}
}

func (c *Catalog) index(name string) int {
	return slices.IndexFunc(c.Styles, func(s StyleDef) bool { return s.Name == name })
}

// Lookup returns the style called name.
func (c *Catalog) Lookup(name string) (StyleDef, bool) {
	if i := c.index(name); i >= 0 {
		return c.Styles[i], true
	}
	return StyleDef{}, false
}

// Names lists style names of the given kind in catalog order; an empty kind
// lists all of them.
func (c *Catalog) Names(kind StyleKind) []string {
	var out []string
	for _, s := range c.Styles {
		if kind == "" || s.Kind == kind {
			out = append(out, s.Name)
		}
	}
	return out
}

// IsColor reports whether name is a catalog color or an xcolor mix of
// catalog colors such as "green!75!white".
func (c *Catalog) IsColor(name string) bool {
	for i, part := range strings.Split(name, "!") {
		if i%2 == 1 {
			continue // mix percentage
		}
		if !slices.Contains(c.Colors, part) {
			return false
		}
	}
	return true
}

// Validator returns a [graph.StyleValidator] accepting option lists whose
// first entry is a catalog style or color, e.g. "rn", "none, line width = 1"
// or "thiny, color=green!75!white". Further entries are passed through.
func (c *Catalog) Validator() graph.StyleValidator {
	return func(s graph.Style) error {
		head, _, _ := strings.Cut(string(s), ",")
		head = strings.TrimSpace(head)
		if _, ok := c.Lookup(head); ok || c.IsColor(head) {
			return nil
		}
		return errors.New(errors.ErrCodeInvalidStyle, "style %q is not in the catalog", head).
			With("style", string(s))
	}
}

// WritePreamble writes the \usepackage lines, layer declarations and
// \tikzstyle definitions for the catalog.
func (c *Catalog) WritePreamble(w io.Writer) error {
	var b strings.Builder
	b.WriteString("% ========== Tikz setting ==========\n")
	for _, p := range c.Packages {
		fmt.Fprintf(&b, "\\usepackage{%s}\n", p)
	}
	for _, l := range c.Libraries {
		fmt.Fprintf(&b, "\\usetikzlibrary{%s}\n", l)
	}
	b.WriteString("\\pagestyle{empty}\n")

	if len(c.Layers) > 0 {
		b.WriteString("\n")
		for _, l := range c.Layers {
			fmt.Fprintf(&b, "\\pgfdeclarelayer{%s}\n", l)
		}
		fmt.Fprintf(&b, "\\pgfsetlayers{%s,main}\n", strings.Join(c.Layers, ","))
	}

	for _, kind := range []StyleKind{KindNode, KindEdge} {
		b.WriteString("\n")
		for _, s := range c.Styles {
			if s.Kind == kind {
				fmt.Fprintf(&b, "\\tikzstyle{%s}=[%s]\n", s.Name, s.Options)
			}
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write preamble")
	}
	return nil
}
