package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/prompts"
	"github.com/jonathan/interview-screener/internal/schemas"
	"github.com/jonathan/interview-screener/internal/types"
)

// AssessmentResult is the session-level assessment plus call accounting
type AssessmentResult struct {
	Assessment types.OverallAssessment
	TokensUsed int
	Latency    time.Duration
}

// Aggregate summarizes a candidate's full session from its scored answers
// via one structured gateway call. There is no safe generic fallback for a
// holistic narrative: any failure is returned as *AggregationError and the
// caller must treat the assessment as absent.
func (s *Scorer) Aggregate(ctx context.Context, candidateName, jobTitle string, responses []types.ScoredAnswer) (*AssessmentResult, error) {
	if len(responses) == 0 {
		return nil, &AggregationError{Message: "no scored answers to aggregate"}
	}

	prompt := prompts.Format(prompts.MustGet("scoring.json", "overall-assessment"), map[string]string{
		"CandidateName":   candidateName,
		"JobTitle":        jobTitle,
		"ResponseSummary": formatResponseSummary(responses),
	})

	var assessment types.OverallAssessment
	result, err := llm.GenerateJSON(ctx, s.client, llm.Request{
		System:      prompts.MustGet("scoring.json", "system"),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Tier:        llm.TierAdvanced,
		MaxTokens:   assessmentMaxTokens,
		Temperature: scoringTemperature,
	}, schemas.OverallAssessment, &assessment)
	if err != nil {
		s.log.Error("overall assessment generation failed", zap.Error(err))
		return nil, &AggregationError{Message: "assessment generation failed", Cause: err}
	}

	assessment.OverallScore = Clamp(assessment.OverallScore)
	if !assessment.Recommendation.Valid() {
		assessment.Recommendation = types.OverallConsider
	}
	if assessment.KeyStrengths == nil {
		assessment.KeyStrengths = []string{}
	}
	if assessment.PotentialConcerns == nil {
		assessment.PotentialConcerns = []string{}
	}

	return &AssessmentResult{
		Assessment: assessment,
		TokensUsed: result.TokensUsed(),
		Latency:    result.Latency,
	}, nil
}

// WeightedAverage computes the session's numeric score from its scored
// answers, weighting each answer's score by its question weight. Weights
// below 1 count as 1. Returns 0 for an empty slice.
func WeightedAverage(responses []types.ScoredAnswer) float64 {
	if len(responses) == 0 {
		return 0
	}

	var sum, weights float64
	for _, r := range responses {
		w := float64(r.Question.Weight)
		if w < 1 {
			w = 1
		}
		sum += r.Analysis.Score * w
		weights += w
	}

	return Clamp(sum / weights)
}

// formatResponseSummary renders the per-question assessments for the
// aggregation prompt.
func formatResponseSummary(responses []types.ScoredAnswer) string {
	var sb strings.Builder
	for i, r := range responses {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("Q%d: %s\n", i+1, r.Question.Text))
		sb.WriteString(fmt.Sprintf("Answer Score: %.1f/5\n", r.Analysis.Score))
		sb.WriteString(fmt.Sprintf("Strengths: %s\n", strings.Join(r.Analysis.Strengths, ", ")))
		sb.WriteString(fmt.Sprintf("Concerns: %s", strings.Join(r.Analysis.Concerns, ", ")))
	}
	return sb.String()
}
