package cli

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/pipeline"
	"github.com/matzehuels/texgraph/pkg/scene"
)

// generateOpts are the flags shared by the single-object commands.
type generateOpts struct {
	renderOpts
	printScene bool
}

func (o *generateOpts) flags(cmd *cobra.Command, formatsStr *string) {
	o.renderOpts.flags(cmd, formatsStr)
	cmd.Flags().BoolVar(&o.printScene, "print-scene", false, "print the equivalent scene file instead of rendering")
}

// runGenerated renders a one-object scene built from flags. Output goes to
// stdout unless -o is given or several formats are requested.
func (c *CLI) runGenerated(cmd *cobra.Command, s *scene.Scene, name string, opts *generateOpts, formatsStr string) error {
	data, err := encodeScene(s)
	if err != nil {
		return err
	}
	if opts.printScene {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	opts.formats = parseFormats(formatsStr)
	if err := pipeline.ValidateFormats(opts.formats); err != nil {
		return err
	}
	if opts.output == "" && len(opts.formats) > 1 {
		opts.output = name
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := executeWithSpinner(cmd.Context(), runner, opts.pipelineOptions(data, scene.FormatTOML, ""))
	if err != nil {
		return err
	}
	return writeArtifacts(cmd.OutOrStdout(), stdio, &opts.renderOpts, result)
}

// encodeScene writes s as TOML. Scenes are rendered from their encoded
// form so generated pictures share the render cache with scene files.
func encodeScene(s *scene.Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return buf.Bytes(), nil
}

// latticeCommand generates a lattice picture.
func (c *CLI) latticeCommand() *cobra.Command {
	var (
		formatsStr string
		opts       generateOpts
		spec       = scene.LatticeSpec{Name: "lattice"}
		overset    float64
		noGrid     bool
		corners    []string
	)

	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Draw the integer lattice spanned by two basis vectors",
		Example: `  texgraph lattice --a 2,1 --b 1,3 --basis --parallelepiped
  texgraph lattice --a 1,0 --b 0,1 --window -2,-2,2,2 --corner 0,0 --corner 1,1 -f svg -o grid.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("overset") {
				spec.Overset = &overset
			}
			if noGrid {
				grid := false
				spec.Grid = &grid
			}
			for _, s := range corners {
				pair, err := parseInts(s, 2)
				if err != nil {
					return err
				}
				spec.Corners = append(spec.Corners, pair)
			}
			s := &scene.Scene{Lattices: []scene.LatticeSpec{spec}}
			return c.runGenerated(cmd, s, spec.Name, &opts, formatsStr)
		},
	}

	opts.flags(cmd, &formatsStr)
	cmd.Flags().Float64SliceVar(&spec.A, "a", nil, "first basis vector (default 2,1)")
	cmd.Flags().Float64SliceVar(&spec.B, "b", nil, "second basis vector (default 1,3)")
	cmd.Flags().Float64SliceVar(&spec.Window, "window", nil, "visible window minx,miny,maxx,maxy (default -5,-5,5,5)")
	cmd.Flags().Float64Var(&overset, "overset", 0.25, "margin added around the window")
	cmd.Flags().BoolVar(&noGrid, "no-grid", false, "omit the background grid")
	cmd.Flags().BoolVar(&spec.ShowBasis, "basis", false, "draw the basis vectors")
	cmd.Flags().BoolVar(&spec.Parallelepiped, "parallelepiped", false, "fill the fundamental parallelepiped")
	cmd.Flags().BoolVar(&spec.Shifted, "shifted", false, "add a copy shifted by (a+b)/2")
	cmd.Flags().StringArrayVar(&corners, "corner", nil, "mark the cell corner at na,nb (repeatable)")
	cmd.Flags().Float64Var(&spec.CornerRadius, "corner-radius", 0, "radius of corner marks")
	cmd.Flags().IntVar(&spec.MaxVertices, "max-vertices", 0, "abort if the closure grows past this many vertices")
	cmd.Flags().BoolVar(&spec.Bare, "bare", false, "emit only the lattice points and edges")

	return cmd
}

// matrixCommand generates a matrix grid.
func (c *CLI) matrixCommand() *cobra.Command {
	var (
		formatsStr string
		opts       generateOpts
		spec       = scene.MatrixSpec{Name: "matrix"}
		entries    []string
		highlights []string
	)

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Draw a matrix grid with optional entries and highlighted blocks",
		Example: `  texgraph matrix --rows 3 --cols 4 --row-labels --col-labels
  texgraph matrix --rows 2 --cols 2 --entry '0,1,$a$' --highlight 0,0,0,1,red`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range entries {
				parts := strings.SplitN(e, ",", 3)
				if len(parts) != 3 {
					return errors.New(errors.ErrCodeInvalidInput, "entry %q: want row,col,text", e)
				}
				rc, err := parseInts(parts[0]+","+parts[1], 2)
				if err != nil {
					return err
				}
				spec.Entries = append(spec.Entries, scene.EntrySpec{Row: rc[0], Col: rc[1], Text: parts[2]})
			}
			for _, h := range highlights {
				parts := strings.Split(h, ",")
				if len(parts) != 5 {
					return errors.New(errors.ErrCodeInvalidInput, "highlight %q: want row0,col0,row1,col1,color", h)
				}
				corners, err := parseInts(strings.Join(parts[:4], ","), 4)
				if err != nil {
					return err
				}
				spec.Submatrices = append(spec.Submatrices, scene.SubmatrixSpec{
					Bottom:  corners[:2],
					Top:     corners[2:],
					Color:   parts[4],
					Opacity: 0.3,
				})
			}
			s := &scene.Scene{Matrices: []scene.MatrixSpec{spec}}
			return c.runGenerated(cmd, s, spec.Name, &opts, formatsStr)
		},
	}

	opts.flags(cmd, &formatsStr)
	cmd.Flags().IntVar(&spec.Rows, "rows", 3, "number of rows")
	cmd.Flags().IntVar(&spec.Cols, "cols", 3, "number of columns")
	cmd.Flags().BoolVar(&spec.RowLabels, "row-labels", false, "number the rows")
	cmd.Flags().BoolVar(&spec.ColLabels, "col-labels", false, "number the columns")
	cmd.Flags().Float64Var(&spec.InfRows, "inf-rows", 0, "extend dotted row rulings by this length")
	cmd.Flags().Float64Var(&spec.InfCols, "inf-cols", 0, "extend dotted column rulings by this length")
	cmd.Flags().Float64Var(&spec.Scale, "unit", 0, "scale the grid by this factor")
	cmd.Flags().StringVar(&spec.Background, "background", "", "background color")
	cmd.Flags().StringArrayVar(&entries, "entry", nil, "write text into a cell: row,col,text (repeatable)")
	cmd.Flags().StringArrayVar(&highlights, "highlight", nil, "shade cells between two corners: row0,col0,row1,col1,color (repeatable)")

	return cmd
}

// treeCommand generates a complete binary tree.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		formatsStr string
		opts       generateOpts
		spec       = scene.TreeSpec{Name: "tree"}
	)

	cmd := &cobra.Command{
		Use:     "tree",
		Short:   "Draw a complete binary tree",
		Example: `  texgraph tree --height 3 --inverted`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &scene.Scene{Trees: []scene.TreeSpec{spec}}
			return c.runGenerated(cmd, s, spec.Name, &opts, formatsStr)
		},
	}

	opts.flags(cmd, &formatsStr)
	cmd.Flags().IntVar(&spec.Height, "height", 3, "tree height")
	cmd.Flags().Float64Var(&spec.LeafDistance, "leaf-distance", 1, "horizontal distance between leaves")
	cmd.Flags().BoolVar(&spec.Inverted, "inverted", false, "grow the tree downwards")
	cmd.Flags().StringVar(&spec.NodeStyle, "node-style", "", "default node style")
	cmd.Flags().StringVar(&spec.EdgeStyle, "edge-style", "", "default edge style")

	return cmd
}

// classicCommand generates the Petersen graph or a cycle.
func (c *CLI) classicCommand() *cobra.Command {
	var (
		formatsStr   string
		opts         generateOpts
		spec         = scene.ClassicSpec{Name: "classic"}
		minExpansion bool
	)

	cmd := &cobra.Command{
		Use:       "classic <petersen|cycle>",
		Short:     "Draw the Petersen graph or a cycle",
		Example:   `  texgraph classic petersen --min-expansion`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"petersen", "cycle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Kind = args[0]
			s := &scene.Scene{Classics: []scene.ClassicSpec{spec}}
			if minExpansion {
				s.Highlights = []scene.HighlightSpec{{Target: spec.Name, MinExpansion: true}}
			}
			return c.runGenerated(cmd, s, spec.Name, &opts, formatsStr)
		},
	}

	opts.flags(cmd, &formatsStr)
	cmd.Flags().IntVarP(&spec.N, "n", "n", 6, "number of cycle vertices")
	cmd.Flags().Float64Var(&spec.Radius, "radius", 0, "cycle radius (default 1)")
	cmd.Flags().BoolVar(&minExpansion, "min-expansion", false, "highlight a minimum vertex expansion")

	return cmd
}

// parseInts parses exactly n comma-separated integers.
func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%q: want %d comma-separated integers", s, n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%q", s)
		}
		out[i] = v
	}
	return out, nil
}
