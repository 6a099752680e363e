package llm

import (
	"context"
	"encoding/json"

	"github.com/jonathan/interview-screener/internal/schemas"
)

// GenerateJSON issues one generation call and decodes the output into out
// after validating it against the named embedded schema. This is the single
// validation step for structured model output: past this point the core
// trusts the decoded value.
//
// Failure modes, in order of detection: *CallError (provider/network),
// *MalformedOutputError (output is not JSON), *SchemaError (JSON missing or
// mistyping required fields).
func GenerateJSON(ctx context.Context, c Client, req Request, schema string, out any) (*Result, error) {
	req.JSONOutput = true

	result, err := c.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	raw := []byte(CleanJSONBlock(result.Text))

	if !json.Valid(raw) {
		// Surface the decode error for the log line
		err := json.Unmarshal(raw, &struct{}{})
		return nil, &MalformedOutputError{Raw: result.Text, Cause: err}
	}

	if err := schemas.Validate(schema, raw); err != nil {
		return nil, &SchemaError{Schema: schema, Cause: err}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return nil, &MalformedOutputError{Raw: result.Text, Cause: err}
	}

	return result, nil
}
