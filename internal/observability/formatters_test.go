package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-screener/internal/types"
)

func TestPrintQuestionSet(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuestionSet(types.QuestionSet{
		{ID: "q1", Text: "Tell me about a project.", Type: types.QuestionBehavioral, Weight: 3,
			ScoringKeywords: []string{"ownership", "impact"}},
		{ID: "q2", Text: "Debug a production incident.", Type: types.QuestionTechnical, Weight: 5},
	})
	output := buf.String()

	assert.Contains(t, output, "GENERATED QUESTION SET")
	assert.Contains(t, output, "Total questions: 2")
	assert.Contains(t, output, "behavioral")
	assert.Contains(t, output, "ownership")
}

func TestPrintQuestionSet_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuestionSet(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis("Tell me about a project.", &types.ResponseAnalysis{
		Score:          4.5,
		Strengths:      []string{"Specific metrics"},
		Concerns:       []string{"No team context"},
		KeywordMatches: []string{"impact"},
		RelevanceScore: 4.0,
		DepthScore:     4.5,
		ClarityScore:   5.0,
		Recommendation: types.RecommendStrongPass,
	})
	output := buf.String()

	assert.Contains(t, output, "RESPONSE ANALYSIS")
	assert.Contains(t, output, "4.5/5")
	assert.Contains(t, output, "Specific metrics")
	assert.Contains(t, output, "strong_pass")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis("question", nil)

	assert.Empty(t, buf.String())
}

func TestPrintAssessment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment("Ada", &types.OverallAssessment{
		OverallScore:      4.2,
		Summary:           "Strong candidate overall.",
		KeyStrengths:      []string{"Technical depth", "Communication"},
		PotentialConcerns: []string{"Limited leadership examples"},
		Recommendation:    types.OverallRecommended,
	})
	output := buf.String()

	assert.Contains(t, output, "OVERALL ASSESSMENT")
	assert.Contains(t, output, "Ada")
	assert.Contains(t, output, "4.2/5")
	assert.Contains(t, output, "Technical depth")
	assert.Contains(t, output, "recommended")
}

func TestPrintTranscript(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTranscript("Ada", []types.ConversationMessage{
		{Role: types.RoleAssistant, Content: "Welcome! First question."},
		{Role: types.RoleUser, Content: "Thanks, here goes."},
	})
	output := buf.String()

	assert.Contains(t, output, "TRANSCRIPT")
	assert.Contains(t, output, "Interviewer:")
	assert.Contains(t, output, "Ada:")
}
