package llm

import "fmt"

// CallError represents a network or provider failure, including timeouts.
// Callers treat every CallError the same way: fall back to a deterministic
// canned value rather than surfacing the failure to the candidate.
type CallError struct {
	Message string
	Cause   error
}

func (e *CallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("model call failed: %s", e.Message)
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// MalformedOutputError indicates the model returned non-JSON output when
// JSON was required.
type MalformedOutputError struct {
	Raw   string
	Cause error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.Cause)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}

// SchemaError indicates the model returned JSON that does not conform to the
// caller's expected shape (missing or mistyped fields).
type SchemaError struct {
	Schema string
	Cause  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model output failed %s schema: %v", e.Schema, e.Cause)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}
