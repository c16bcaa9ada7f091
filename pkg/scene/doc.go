// Package scene loads declarative picture descriptions and builds them.
//
// A scene is a TOML or YAML file declaring named objects: explicit graphs,
// lattices, matrices, binary trees and classic graphs (Petersen, cycles).
// Overlays combine earlier objects, transforms move them, highlights
// restyle them, and an optional document section wraps the result in a
// LaTeX file.
//
//	output = "both"
//
//	[[lattice]]
//	name = "L"
//	a = [1, 0]
//	b = [0, 1]
//	window = [0, 0, 2, 2]
//
//	[[graph]]
//	name = "path"
//	node_style = "rn"
//	vertex = [{ id = "p", at = [0, 0] }, { id = "q", at = [1, 1] }]
//	edge = [{ from = "p", to = "q", style = "redarrow" }]
//
//	[[overlay]]
//	name = "both"
//	of = ["L", "path"]
//
// Unknown keys are rejected in both formats and every field is checked
// with validator tags before anything is built. [Scene.Build] returns
// fresh graphs on every call, so a parsed scene can be rendered many
// times.
package scene
