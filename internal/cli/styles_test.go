package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/texgraph/pkg/document"
)

func TestPrintStyles(t *testing.T) {
	var out bytes.Buffer
	printStyles(&out, document.DefaultCatalog(), []document.StyleKind{document.KindNode})

	text := out.String()
	if !strings.Contains(text, "rn") {
		t.Errorf("node table missing rn:\n%s", text)
	}
	if !strings.Contains(text, "colors: ") {
		t.Errorf("missing colors line:\n%s", text)
	}
}

func TestLoadCatalog_Merge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.toml")
	if err := os.WriteFile(path, []byte("[[style]]\nname = \"halo\"\nkind = \"node\"\noptions = \"circle,draw=orange\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := loadCatalog(path)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if _, ok := cat.Lookup("halo"); !ok {
		t.Error("merged style halo missing")
	}
	if _, ok := cat.Lookup("rn"); !ok {
		t.Error("built-in style rn missing after merge")
	}

	if _, err := loadCatalog(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing catalog")
	}
}

func TestStylesCommand_Preamble(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"styles", "--preamble"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), `\tikzstyle{rn}=[`) {
		t.Errorf("preamble does not define rn:\n%s", out.String())
	}
}
