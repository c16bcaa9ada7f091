package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/texgraph/pkg/cache"
	"github.com/matzehuels/texgraph/pkg/errors"
	"github.com/matzehuels/texgraph/pkg/pipeline"
)

const pairScene = `
[[graph]]
name = "g"
node_style = "rn"
vertex = [
  { id = "a", at = [0, 0] },
  { id = "b", at = [1, 0] },
]
edge = [{ from = "a", to = "b" }]
`

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to tikz", "", []string{"tikz"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "tikz,tex,png", []string{"tikz", "tex", "png"}},
		{"spaces trimmed", "tikz, dot", []string{"tikz", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "scenes/lattice.toml", "scenes/lattice"},
		{"", "-", "scene"},
		{"out/pic", "lattice.toml", "out/pic"},
		{"out/pic.tikz", "lattice.toml", "out/pic"},
		{"out/pic.svg", "lattice.toml", "out/pic"},
		{"out/pic.v2", "lattice.toml", "out/pic.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name                  string
		output, input, format string
		n                     int
		want                  string
	}{
		{"single format keeps output", "figure.txt", "a.toml", "tikz", 1, "figure.txt"},
		{"single format from input", "", "a.toml", "tikz", 1, "a.tikz"},
		{"multiple formats share base", "out/a.tikz", "a.toml", "svg", 2, "out/a.svg"},
		{"tex extension", "", "talk.yaml", "tex", 2, "talk.tex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format, tt.n); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadScene(t *testing.T) {
	data, format, dir, err := readScene(stdio, strings.NewReader("graph: []\n"), "yml")
	if err != nil {
		t.Fatalf("readScene(stdin): %v", err)
	}
	if format != "yaml" || dir != "" || string(data) != "graph: []\n" {
		t.Errorf("readScene(stdin) = %q, %q, %q", data, format, dir)
	}

	_, _, _, err = readScene("scene.json", nil, "")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("readScene(.json) error = %v, want INVALID_FORMAT", err)
	}

	_, _, _, err = readScene(filepath.Join(t.TempDir(), "missing.toml"), nil, "")
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("readScene(missing) error = %v, want IO_ERROR", err)
	}
}

func TestRunRender_Files(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "pair.toml")
	if err := os.WriteFile(input, []byte(pairScene), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
	opts := &renderOpts{formats: []string{"tikz", "dot"}}
	if err := runRender(context.Background(), runner, input, nil, nil, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	tikzOut, err := os.ReadFile(filepath.Join(dir, "pair.tikz"))
	if err != nil {
		t.Fatalf("read tikz: %v", err)
	}
	if !strings.Contains(string(tikzOut), `\node [style=rn] (b) at (1.000,0.000) {};`) {
		t.Errorf("unexpected tikz:\n%s", tikzOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "pair.dot")); err != nil {
		t.Errorf("dot output missing: %v", err)
	}
}

func TestRunRender_Stdout(t *testing.T) {
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
	var out bytes.Buffer

	opts := &renderOpts{formats: []string{"tex"}, sceneFormat: "toml"}
	if err := runRender(context.Background(), runner, stdio, strings.NewReader(pairScene), &out, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if !strings.Contains(out.String(), `\documentclass{article}`) {
		t.Errorf("expected a LaTeX document, got:\n%s", out.String())
	}

	opts = &renderOpts{formats: []string{"tikz", "dot"}, output: stdio, sceneFormat: "toml"}
	err := runRender(context.Background(), runner, stdio, strings.NewReader(pairScene), &out, opts)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("two formats to stdout: error = %v, want INVALID_INPUT", err)
	}
}

func TestHasPreview(t *testing.T) {
	if hasPreview([]string{"tikz", "tex", "dot"}) {
		t.Error("text formats reported as preview")
	}
	if !hasPreview([]string{"tikz", "png"}) {
		t.Error("png not reported as preview")
	}
}
