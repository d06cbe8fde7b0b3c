package pipeline

import "errors"

// Sentinel errors for pipeline operations, checked with errors.Is().
//
// Retrieval unavailability (knowledge.ErrUnavailable) is absorbed by the
// pipeline's degrade policy and never surfaces from Answer; see Answer.
var (
	// ErrGenerationFailed indicates the language-model call errored,
	// returned malformed output, or was rate-limited. No history entry is
	// appended when this is returned.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrTimeout indicates an I/O step exceeded its deadline. Transient and
	// retryable by the caller, distinct from ErrGenerationFailed.
	ErrTimeout = errors.New("timed out")
)
