package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/types"
)

func scoredAnswer(id string, score float64, weight int) types.ScoredAnswer {
	return types.ScoredAnswer{
		Question: types.Question{ID: id, Text: "Question " + id, Weight: weight},
		Answer:   "Answer to " + id,
		Analysis: types.ResponseAnalysis{
			Score:          score,
			Strengths:      []string{"strength"},
			Concerns:       []string{},
			Recommendation: types.RecommendPass,
		},
	}
}

func TestAggregate_Success(t *testing.T) {
	client := jsonClient(`{
		"overallScore": 4.2,
		"summary": "Strong technical candidate with clear communication.",
		"keyStrengths": ["Technical depth"],
		"potentialConcerns": ["Limited leadership examples"],
		"recommendation": "recommended"
	}`)
	scorer := NewScorer(client, nil)

	result, err := scorer.Aggregate(context.Background(), "Ada", "Backend Engineer",
		[]types.ScoredAnswer{scoredAnswer("q1", 4.0, 3), scoredAnswer("q2", 4.5, 5)})

	require.NoError(t, err)
	assert.InDelta(t, 4.2, result.Assessment.OverallScore, 0.001)
	assert.Equal(t, types.OverallRecommended, result.Assessment.Recommendation)
	assert.Equal(t, 30, result.TokensUsed)

	require.Len(t, client.Requests, 1)
	assert.Equal(t, llm.TierAdvanced, client.Requests[0].Tier)
}

func TestAggregate_ClampsOverallScore(t *testing.T) {
	client := jsonClient(`{
		"overallScore": 11.0,
		"summary": "Off the charts.",
		"recommendation": "highly_recommended"
	}`)
	scorer := NewScorer(client, nil)

	result, err := scorer.Aggregate(context.Background(), "Ada", "Backend Engineer",
		[]types.ScoredAnswer{scoredAnswer("q1", 5.0, 1)})

	require.NoError(t, err)
	assert.InDelta(t, 5.0, result.Assessment.OverallScore, 0.001)
	assert.NotNil(t, result.Assessment.KeyStrengths)
	assert.NotNil(t, result.Assessment.PotentialConcerns)
}

func TestAggregate_NoAnswers(t *testing.T) {
	scorer := NewScorer(jsonClient(`{}`), nil)

	result, err := scorer.Aggregate(context.Background(), "Ada", "Backend Engineer", nil)

	assert.Nil(t, result)
	var target *AggregationError
	require.ErrorAs(t, err, &target)
}

func TestAggregate_GatewayFailureSurfacesError(t *testing.T) {
	scorer := NewScorer(failingClient(), nil)

	result, err := scorer.Aggregate(context.Background(), "Ada", "Backend Engineer",
		[]types.ScoredAnswer{scoredAnswer("q1", 3.0, 1)})

	assert.Nil(t, result, "aggregation has no fallback")
	var target *AggregationError
	require.ErrorAs(t, err, &target)
	var cause *llm.CallError
	assert.ErrorAs(t, err, &cause, "gateway cause must stay inspectable")
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name      string
		responses []types.ScoredAnswer
		want      float64
	}{
		{
			name:      "empty",
			responses: nil,
			want:      0.0,
		},
		{
			name:      "single answer",
			responses: []types.ScoredAnswer{scoredAnswer("q1", 4.0, 3)},
			want:      4.0,
		},
		{
			name: "weights bias the average",
			responses: []types.ScoredAnswer{
				scoredAnswer("q1", 5.0, 4),
				scoredAnswer("q2", 0.0, 1),
			},
			want: 4.0,
		},
		{
			name: "zero weight counts as one",
			responses: []types.ScoredAnswer{
				scoredAnswer("q1", 2.0, 0),
				scoredAnswer("q2", 4.0, 1),
			},
			want: 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WeightedAverage(tt.responses), 0.0001)
		})
	}
}
