package executor

import "github.com/pkg/errors"

// Execution-time sentinel errors. Construction-time failures belong to
// internal/graph (shape mismatches, unknown symbols); these are the
// ones that can only be discovered once a Model actually runs.
var (
	// ErrNoLossRegistered is returned by Forward and Backward when the graph has no loss output.
	ErrNoLossRegistered = errors.New("executor: graph has no registered loss output")
	// ErrNoInferenceSchedule is returned by Inference when n_inference_nodes is undefined.
	ErrNoInferenceSchedule = errors.New("executor: graph has no well-defined inference node count")
	// ErrInputCountMismatch is returned when the number of tensors passed to Forward/Inference doesn't match the graph's declared inputs.
	ErrInputCountMismatch = errors.New("executor: wrong number of input tensors for this graph")
	// ErrInputShapeMismatch is returned when a supplied input tensor's shape doesn't match its declared symbol.
	ErrInputShapeMismatch = errors.New("executor: input tensor shape doesn't match its declared symbol")
)
