// Package tikz renders a [graph.Graph] as TikZ markup for inclusion in a
// LaTeX document.
//
// # Layout
//
// [Picture] emits a tikzpicture with two pgfonlayer blocks:
//
//	\begin{tikzpicture}
//		\begin{pgfonlayer}{nodelayer}
//		\clip (x0,y0) rectangle (x1,y1);          % when a clip window is set
//			\node [style=rn] (0) at (0.000,0.000) {$v$};
//		\end{pgfonlayer}
//		\begin{pgfonlayer}{edgelayer}
//		\clip (x0,y0) rectangle (x1,y1);          % same window again
//		\draw[...,dashed] (x0,y0) grid (x1,y1);   % when a grid window is set
//			\draw [style=none] (0) to (1);
//			\fill[lightgray] (0.000,0.000) -- ... -- cycle;
//		\end{pgfonlayer}
//	\end{tikzpicture}
//
// Nodes come first in vertex insertion order, then edges grouped by source,
// then decorations in list order, so identical graphs always produce
// identical bytes.
//
// # Styles
//
// Node and edge styles resolve at emission time: an explicit style wins,
// otherwise the graph default applies. A labelled node whose resolved style
// is [graph.StyleDark] gets its label recoloured white.
//
// The style names (rn, bluearrow, thiny, ...) must be defined by the
// document preamble; see package document for the bundled catalog.
//
// # Errors
//
// An edge whose target is outside the graph fails with a VERTEX_NOT_FOUND
// error before anything is written. Write failures are reported once as
// IO_ERROR.
package tikz
