// Package document wraps rendered pictures into LaTeX figures and files.
//
// A [Figure] places one picture under a sectioning command (or inside a
// beamer frame) with optional text, a caption and a label. A [File] holds
// figures and writes a complete document in one of three classes:
//
//   - article: sections with floating figures
//   - beamer: one frame per figure; text around figures is dropped
//   - picture: bare tikzpictures cropped with the preview package
//
// # Style Catalog
//
// Graphs name their styles ("rn", "blstyle", "thiny", ...) without defining
// them. The [Catalog] holds those definitions and writes them into the
// preamble. The built-in catalog is embedded from styles.toml; additional
// catalogs can be loaded with [LoadCatalogFile] and merged. A catalog also
// provides a [graph.StyleValidator] for callers that want unknown style
// names rejected at insertion time:
//
//	cat := document.DefaultCatalog()
//	g, _ := graph.New(graph.Config{Validator: cat.Validator()})
//	_, err := g.AddVertex("0", graph.Pt(0, 0), graph.WithStyle("purple-ish"))
//	// err is INVALID_STYLE
package document
