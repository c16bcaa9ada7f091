// Package generate builds structured graphs: matrix grids, complete binary
// trees and a few classic graphs.
//
// Generators are pure coordinate arithmetic on top of [graph.Graph]; they
// return ordinary graphs that can be overlaid, transformed and rendered
// like any other.
//
//	m, _ := generate.NewMatrix(generate.MatrixConfig{Rows: 3, Cols: 4, RowLabels: true})
//	_ = m.WriteEntry(1, 2, "$x$", "rn")
//	_ = m.AddSubmatrix([2]int{0, 0}, [2]int{1, 1}, "yellow", 0.5)
//	_ = tikz.Picture(os.Stdout, m.Graph(), tikz.Options{})
//
// Matrix entries and tree vertices use ids of the form row*1000+col, which
// bounds matrix sides by [MaxMatrixSide] and tree height by [MaxTreeHeight].
package generate
