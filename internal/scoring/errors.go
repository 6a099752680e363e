package scoring

import "fmt"

// EmptyAnswerError indicates an empty or whitespace-only answer was handed
// to the scorer. Rejected before any gateway call.
type EmptyAnswerError struct{}

func (e *EmptyAnswerError) Error() string {
	return "answer text cannot be empty"
}

// AggregationError indicates the overall assessment could not be produced.
// Unlike per-answer scoring there is no safe generic fallback for a holistic
// narrative, so callers must treat the assessment as absent.
type AggregationError struct {
	Message string
	Cause   error
}

func (e *AggregationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("aggregation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("aggregation failed: %s", e.Message)
}

func (e *AggregationError) Unwrap() error {
	return e.Cause
}
