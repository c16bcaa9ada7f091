package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/texgraph/pkg/document"
	"github.com/matzehuels/texgraph/pkg/pipeline"
)

// documentCommand wraps a scene's figures in a LaTeX document.
func (c *CLI) documentCommand() *cobra.Command {
	var (
		opts renderOpts
		pick bool
	)

	cmd := &cobra.Command{
		Use:   "document <scene>",
		Short: "Write a scene's figures as a complete LaTeX document",
		Long: `Write the scene's document: its [[figure]] entries, or the output object
when there are none, wrapped in an article, beamer or picture class file.

With --pick an interactive table lets you choose the sectioning command of
each figure before the file is written.`,
		Example: `  texgraph document notes.toml -o notes.tex
  texgraph document notes.toml --pick --class article`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSceneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			data, format, dir, err := readScene(args[0], cmd.InOrStdin(), opts.sceneFormat)
			if err != nil {
				return err
			}
			popts := opts.pipelineOptions(data, format, dir)
			popts.Formats = []string{pipeline.FormatTeX}

			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Build(ctx, popts)
			if err != nil {
				return err
			}
			f, err := pipeline.Document(res, popts)
			if err != nil {
				return err
			}
			logger.Debug("document built", "class", f.Class, "figures", len(f.Figures()))

			if pick {
				ok, err := pickSections(f)
				if err != nil {
					return err
				}
				if !ok {
					printInfo("Cancelled")
					return nil
				}
			}

			to := pipeline.TikzOptions(res, popts)
			if opts.output == "" || opts.output == stdio {
				return f.Write(cmd.OutOrStdout(), to)
			}
			if err := f.WriteFile(opts.output, to); err != nil {
				return err
			}
			printSuccess("Wrote %s document", f.Class)
			printFile(opts.output)
			printNextStep("Typeset with", "pdflatex "+opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output .tex file (default stdout)")
	cmd.Flags().StringVar(&opts.class, "class", "", "document class: article, beamer, picture")
	cmd.Flags().IntVar(&opts.precision, "precision", 0, "coordinate decimals (default from scene)")
	cmd.Flags().BoolVar(&opts.weights, "weights", false, "label edges with their weights")
	cmd.Flags().StringVar(&opts.sceneFormat, "scene-format", "toml", "encoding of a scene read from stdin: toml, yaml")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose each figure's section style interactively")
	_ = cmd.RegisterFlagCompletionFunc("class", completeClasses)

	return cmd
}

// pickSections runs the section picker and applies the choices to f. It
// reports false if the user quit without confirming.
func pickSections(f *document.File) (bool, error) {
	switch f.Class {
	case document.ClassBeamer:
		printWarning("beamer documents always use frames; skipping picker")
		return true, nil
	case document.ClassPicture:
		printWarning("picture documents have no sections; skipping picker")
		return true, nil
	}

	final, err := tea.NewProgram(NewSectionPickerModel(f.Figures())).Run()
	if err != nil {
		return false, fmt.Errorf("section picker: %w", err)
	}
	m, ok := final.(SectionPickerModel)
	if !ok || !m.Confirmed {
		return false, nil
	}
	for i, s := range m.Styles {
		if err := f.SetFigureStyle(i, s); err != nil {
			return false, err
		}
	}
	return true, nil
}
