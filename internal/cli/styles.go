package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/texgraph/pkg/document"
	"github.com/matzehuels/texgraph/pkg/errors"
)

// stylesCommand lists the style catalog.
func (c *CLI) stylesCommand() *cobra.Command {
	var (
		kind     string
		extra    string
		preamble bool
	)

	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List the named TikZ styles or print their preamble",
		Example: `  texgraph styles --kind edge
  texgraph styles --catalog mystyles.toml --preamble > preamble.tex`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(extra)
			if err != nil {
				return err
			}
			if preamble {
				return cat.WritePreamble(cmd.OutOrStdout())
			}
			var kinds []document.StyleKind
			switch kind {
			case "":
				kinds = []document.StyleKind{document.KindNode, document.KindEdge}
			case string(document.KindNode), string(document.KindEdge):
				kinds = []document.StyleKind{document.StyleKind(kind)}
			default:
				return errors.New(errors.ErrCodeInvalidInput, "invalid kind %q (must be node or edge)", kind)
			}
			printStyles(cmd.OutOrStdout(), cat, kinds)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list node or edge styles")
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)
	cmd.Flags().StringVar(&extra, "catalog", "", "merge an extra style catalog (TOML)")
	cmd.Flags().BoolVar(&preamble, "preamble", false, "print the LaTeX preamble instead of the table")

	return cmd
}

// loadCatalog returns the built-in catalog, merged with path when set.
func loadCatalog(path string) (*document.Catalog, error) {
	cat := document.DefaultCatalog()
	if path == "" {
		return cat, nil
	}
	extra, err := document.LoadCatalogFile(path)
	if err != nil {
		return nil, err
	}
	cat.Merge(extra)
	return cat, nil
}

// printStyles renders one table row per style.
func printStyles(w io.Writer, cat *document.Catalog, kinds []document.StyleKind) {
	var rows [][]string
	for _, k := range kinds {
		for _, name := range cat.Names(k) {
			def, _ := cat.Lookup(name)
			rows = append(rows, []string{name, string(def.Kind), def.Options, def.Description})
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Kind", "Options", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 2:
				return StyleValue
			}
			return StyleDim
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, StyleDim.Render("colors: "+strings.Join(cat.Colors, ", ")))
}
