package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/pipeline"
	"github.com/matzehuels/texgraph/pkg/scene"
)

// stdio is the conventional path for stdin and stdout.
const stdio = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file path (or base path for multiple outputs)
	formats     []string // output formats: tikz, tex, dot, svg, pdf, png
	object      string   // object to render instead of the scene's output
	class       string   // document class override for tex
	precision   int      // coordinate decimals
	weights     bool     // draw edge weights
	scale       float64  // png scale
	sceneFormat string   // encoding of a scene read from stdin
	noCache     bool
	refresh     bool
	watch       bool
}

func (o *renderOpts) flags(cmd *cobra.Command, formatsStr *string) {
	defer func() {
		_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
		_ = cmd.RegisterFlagCompletionFunc("class", completeClasses)
		_ = cmd.RegisterFlagCompletionFunc("object", completeObjects)
	}()

	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(formatsStr, "format", "f", "", "output format(s): tikz (default), tex, dot, svg, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&o.object, "object", "", "render this object instead of the scene's output")
	cmd.Flags().StringVar(&o.class, "class", "", "document class for tex output: article, beamer, picture")
	cmd.Flags().IntVar(&o.precision, "precision", 0, "coordinate decimals (default from scene)")
	cmd.Flags().BoolVar(&o.weights, "weights", false, "label edges with their weights")
	cmd.Flags().Float64Var(&o.scale, "scale", pipeline.DefaultScale, "png scale factor")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached output")
}

// pipelineOptions converts flags into pipeline options for scene data.
func (o *renderOpts) pipelineOptions(data []byte, format scene.Format, dir string) pipeline.Options {
	return pipeline.Options{
		Scene:       data,
		SceneFormat: format,
		Dir:         dir,
		Object:      o.object,
		Class:       o.class,
		Precision:   o.precision,
		ShowWeights: o.weights,
		Formats:     o.formats,
		Scale:       o.scale,
		Refresh:     o.refresh,
	}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Render a scene file to TikZ, LaTeX or a preview",
		Long: `Render a TOML or YAML scene file.

The scene's output object is emitted in every requested format. Use - to read
the scene from stdin (see --scene-format) and -o - to write a single format to
stdout. With --watch the scene is re-rendered whenever it changes.`,
		Example: `  texgraph render lattice.toml
  texgraph render lattice.toml -f tikz,svg -o out/lattice
  texgraph render talk.yaml -f tex --class beamer -o talk.tex
  cat scene.toml | texgraph render - -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSceneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.watch && args[0] == stdio {
				return errors.New(errors.ErrCodeInvalidInput, "--watch needs a scene file")
			}

			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := cmd.Context()
			render := func() error {
				return runRender(ctx, runner, args[0], cmd.InOrStdin(), cmd.OutOrStdout(), &opts)
			}
			if !opts.watch {
				return render()
			}
			if err := render(); err != nil {
				loggerFromContext(ctx).Error("render failed", "error", err)
			}
			printInfo("Watching %s (ctrl+c to stop)", args[0])
			return watchScene(ctx, args[0], loggerFromContext(ctx), render)
		},
	}

	opts.flags(cmd, &formatsStr)
	cmd.Flags().StringVar(&opts.sceneFormat, "scene-format", "toml", "encoding of a scene read from stdin: toml, yaml")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the scene changes")

	return cmd
}

// readScene loads scene bytes and their encoding from a path or stdin.
func readScene(input string, stdin io.Reader, sceneFormat string) ([]byte, scene.Format, string, error) {
	if input == stdio {
		format, err := scene.ParseFormat(sceneFormat)
		if err != nil {
			return nil, "", "", err
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", "", errors.Wrap(errors.ErrCodeIO, err, "read stdin")
		}
		return data, format, "", nil
	}
	format, err := scene.FormatFromPath(input)
	if err != nil {
		return nil, "", "", err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, "", "", errors.Wrap(errors.ErrCodeIO, err, "read scene %s", input)
	}
	return data, format, filepath.Dir(input), nil
}

// runRender renders input and writes every artifact.
func runRender(ctx context.Context, runner *pipeline.Runner, input string, stdin io.Reader, stdout io.Writer, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	data, format, dir, err := readScene(input, stdin, opts.sceneFormat)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s scene: %d bytes", format, len(data))

	result, err := executeWithSpinner(ctx, runner, opts.pipelineOptions(data, format, dir))
	if err != nil {
		return err
	}
	return writeArtifacts(stdout, input, opts, result)
}

// executeWithSpinner shows a spinner on stderr while Graphviz previews
// render.
func executeWithSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	if !hasPreview(opts.Formats) {
		return runner.Execute(ctx, opts)
	}
	sp := newSpinner(ctx, os.Stderr, "Rendering preview")
	sp.Start()
	result, err := runner.Execute(ctx, opts)
	elapsed := sp.Stop()
	if err == nil {
		loggerFromContext(ctx).Debug("preview rendered", "elapsed", elapsed.Round(time.Millisecond), "cached", result.CacheInfo.RenderHit)
	}
	return result, err
}

func hasPreview(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatSVG || f == pipeline.FormatPDF || f == pipeline.FormatPNG {
			return true
		}
	}
	return false
}

// writeArtifacts writes each format to its output path, or the single
// format to stdout when requested.
func writeArtifacts(stdout io.Writer, input string, opts *renderOpts, result *pipeline.Result) error {
	toStdout := opts.output == stdio || (opts.output == "" && input == stdio)
	if toStdout {
		if len(opts.formats) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "stdout takes exactly one format, got %d", len(opts.formats))
		}
		_, err := stdout.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	var texPath string
	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, len(opts.formats))
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
		if format == pipeline.FormatTeX {
			texPath = path
		}
	}
	printStats(result)
	if texPath != "" && !opts.watch {
		printNextStep("Typeset with", "pdflatex "+texPath)
	}
	return nil
}

// outputPath picks the file for one format. A single format goes to output
// as given; several formats share a base path.
func outputPath(output, input, format string, n int) string {
	if output != "" && n == 1 {
		return output
	}
	return basePath(output, input) + pipeline.Extension(format)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.tikz, .svg, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == stdio {
			return "scene"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
