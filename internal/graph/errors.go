package graph

import "github.com/pkg/errors"

// Construction-time sentinel errors, returned (never panicked) by
// Graph's builder methods. Every one of these corresponds to one of
// the "Construction errors (fatal)" listed in the specification's
// error-handling design.
var (
	// ErrDuplicateLoss is returned by Loss when a loss symbol has already been set.
	ErrDuplicateLoss = errors.New("graph: loss output already set")
	// ErrUnknownSymbol is returned by Op when an input wasn't produced by this graph.
	ErrUnknownSymbol = errors.New("graph: symbol not produced by this graph")
	// ErrUnregisteredOperator is returned by Op when no ResultShapeFunc is registered for the kind.
	ErrUnregisteredOperator = errors.New("graph: operator has no registered result-shape function")
	// ErrShapeMismatch is returned by Op when result-shape computation fails.
	ErrShapeMismatch = errors.New("graph: shape mismatch building node")
	// ErrUnknownAttribute is returned when an operator's ResultShapeFunc requires an attribute that's absent.
	ErrUnknownAttribute = errors.New("graph: operator requires an attribute that was not supplied")
)
