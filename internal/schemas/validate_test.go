package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustGet_AllSchemasEmbedded(t *testing.T) {
	for _, name := range []string{ConversationDecision, ResponseAnalysis, OverallAssessment, QuestionSet} {
		assert.NotPanics(t, func() {
			data := MustGet(name)
			assert.NotEmpty(t, data)
		}, "schema %s", name)
	}
}

func TestMustGet_UnknownSchemaPanics(t *testing.T) {
	assert.Panics(t, func() { MustGet("no_such_schema") })
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		document string
		valid    bool
	}{
		{
			name:     "valid decision",
			schema:   ConversationDecision,
			document: `{"action": "advance", "next_message": "Next up.", "question_id": "q2"}`,
			valid:    true,
		},
		{
			name:     "decision with null question id",
			schema:   ConversationDecision,
			document: `{"action": "follow_up", "next_message": "Say more?", "question_id": null}`,
			valid:    true,
		},
		{
			name:     "decision with unknown action",
			schema:   ConversationDecision,
			document: `{"action": "pause", "next_message": "hm"}`,
			valid:    false,
		},
		{
			name:     "decision with empty message",
			schema:   ConversationDecision,
			document: `{"action": "advance", "next_message": ""}`,
			valid:    false,
		},
		{
			name:     "valid analysis",
			schema:   ResponseAnalysis,
			document: `{"score": 4.0, "strengths": [], "concerns": [], "recommendation": "pass"}`,
			valid:    true,
		},
		{
			name:     "analysis missing score",
			schema:   ResponseAnalysis,
			document: `{"strengths": [], "concerns": [], "recommendation": "pass"}`,
			valid:    false,
		},
		{
			name:     "analysis with mistyped score",
			schema:   ResponseAnalysis,
			document: `{"score": "four", "strengths": [], "concerns": [], "recommendation": "pass"}`,
			valid:    false,
		},
		{
			name:     "valid assessment",
			schema:   OverallAssessment,
			document: `{"overallScore": 3.5, "summary": "Solid.", "recommendation": "consider"}`,
			valid:    true,
		},
		{
			name:     "assessment with empty summary",
			schema:   OverallAssessment,
			document: `{"overallScore": 3.5, "summary": "", "recommendation": "consider"}`,
			valid:    false,
		},
		{
			name:     "valid question set",
			schema:   QuestionSet,
			document: `{"questions": [{"text": "Tell me about X.", "type": "behavioral"}]}`,
			valid:    true,
		},
		{
			name:     "question set with no questions",
			schema:   QuestionSet,
			document: `{"questions": []}`,
			valid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.schema, []byte(tt.document))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.schema, ve.Schema)
				assert.NotEmpty(t, ve.Errors)
			}
		})
	}
}

func TestValidate_UnparsableDocument(t *testing.T) {
	err := Validate(ConversationDecision, []byte("not json"))
	assert.Error(t, err)
}
