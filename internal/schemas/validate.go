// Package schemas provides JSON Schema validation for structured model
// output. Every structured gateway response is validated here, at the
// boundary, before it is trusted by the core.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Embedded schema names.
const (
	ConversationDecision = "conversation_decision"
	ResponseAnalysis     = "response_analysis"
	OverallAssessment    = "overall_assessment"
	QuestionSet          = "question_set"
)

// ValidationError reports a document that failed schema validation,
// with per-field detail.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("schema %s validation failed:\n", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// MustGet returns the embedded schema with the given name, panicking if it is
// missing. Schema names are compile-time constants, so a miss is a
// programming error.
func MustGet(name string) []byte {
	data, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		panic(fmt.Sprintf("embedded schema %s not found: %v", name, err))
	}
	return data
}

// Validate checks a JSON document against the named embedded schema.
// Returns a *ValidationError when the document does not conform, or a plain
// error when the document (or schema) cannot be parsed at all.
func Validate(name string, document []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(MustGet(name))
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema %s: %w", name, err)
	}

	if !result.Valid() {
		ve := &ValidationError{Schema: name}
		for _, desc := range result.Errors() {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return ve
	}

	return nil
}
