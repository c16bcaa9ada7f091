package graph

import (
	"github.com/matzehuels/texgraph/pkg/errors"
)

var (
	// ErrVertexNotFound is returned when an operation names an id that is not
	// in the graph (lookup, edge endpoint, rename source), and by emission
	// when an edge points at a vertex outside the graph.
	ErrVertexNotFound = errors.Sentinel(errors.ErrCodeVertexNotFound)

	// ErrDuplicateVertex is returned by [Graph.AddVertex] and [Graph.Rename]
	// when the id is already taken, and by [Graph.Combine] when a collision
	// cannot be resolved by suffixing.
	ErrDuplicateVertex = errors.Sentinel(errors.ErrCodeDuplicateVertex)

	// ErrEdgeNotFound is returned when restyling an edge that does not exist.
	ErrEdgeNotFound = errors.Sentinel(errors.ErrCodeEdgeNotFound)

	// ErrInvalidShape is returned for decorations whose coordinate data does
	// not match their kind.
	ErrInvalidShape = errors.Sentinel(errors.ErrCodeInvalidShape)

	// ErrInvalidStyle is returned when a style token is malformed or the
	// configured validator rejects it.
	ErrInvalidStyle = errors.Sentinel(errors.ErrCodeInvalidStyle)

	// ErrInvalidInput is returned for non-finite coordinates, bad factors and
	// malformed ids.
	ErrInvalidInput = errors.Sentinel(errors.ErrCodeInvalidInput)

	// ErrLimitExceeded is returned by the brute-force expansion search on
	// graphs that are too large.
	ErrLimitExceeded = errors.Sentinel(errors.ErrCodeLimitExceeded)
)

func vertexNotFound(op, id string) error {
	return errors.New(errors.ErrCodeVertexNotFound, "%s: vertex %q not found", op, id).With("id", id)
}

func duplicateVertex(op, id string) error {
	return errors.New(errors.ErrCodeDuplicateVertex, "%s: vertex %q already exists", op, id).With("id", id)
}
