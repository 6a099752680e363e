// Package scoring turns answered interview questions into structured
// evaluations: a per-answer ResponseAnalysis via one model call, and an
// OverallAssessment aggregating a whole session.
//
// Per-answer scoring never fails the candidate-facing flow: a gateway
// failure degrades to a neutral analysis with an explicit "could not
// analyze" marker for reviewers. Aggregation is the one operation with no
// safe fallback and surfaces an error instead.
package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/logger"
	"github.com/jonathan/interview-screener/internal/prompts"
	"github.com/jonathan/interview-screener/internal/schemas"
	"github.com/jonathan/interview-screener/internal/types"
)

const (
	analysisMaxTokens   = 2048
	assessmentMaxTokens = 1024

	// Low temperature favors consistent analysis over creativity
	scoringTemperature = 0.3
)

// fallbackScore is the neutral score used when analysis is unavailable
const fallbackScore = 3.0

// couldNotAnalyze is the reviewer-facing marker on degraded analyses
const couldNotAnalyze = "Could not analyze response automatically"

// ScoreResult is one scored answer plus call accounting
type ScoreResult struct {
	Analysis   types.ResponseAnalysis
	TokensUsed int
	Latency    time.Duration
	// Degraded is true when the analysis is the deterministic fallback
	// rather than a model evaluation.
	Degraded bool
}

// Scorer evaluates candidate answers through the model gateway
type Scorer struct {
	client llm.Client
	log    *zap.Logger
}

// NewScorer creates a scorer using the given gateway client
func NewScorer(client llm.Client, log *zap.Logger) *Scorer {
	return &Scorer{
		client: client,
		log:    logger.OrNop(log),
	}
}

// ScoreAnswer evaluates one (question, answer) pair. The only error it
// returns is *EmptyAnswerError, rejected before any gateway call; gateway
// failures degrade to a neutral analysis instead of an error. All score
// fields on the returned analysis are clamped into [0, 5].
func (s *Scorer) ScoreAnswer(ctx context.Context, question types.Question, answerText string) (*ScoreResult, error) {
	if strings.TrimSpace(answerText) == "" {
		return nil, &EmptyAnswerError{}
	}

	prompt := buildAnalysisPrompt(question, answerText)

	var analysis types.ResponseAnalysis
	result, err := llm.GenerateJSON(ctx, s.client, llm.Request{
		System:      prompts.MustGet("scoring.json", "system"),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Tier:        llm.TierStandard,
		MaxTokens:   analysisMaxTokens,
		Temperature: scoringTemperature,
	}, schemas.ResponseAnalysis, &analysis)
	if err != nil {
		s.log.Warn("answer analysis failed, returning neutral fallback",
			zap.String("question_id", question.ID),
			zap.Error(err))
		return &ScoreResult{
			Analysis: fallbackAnalysis(question, answerText),
			Degraded: true,
		}, nil
	}

	validateAnalysis(&analysis, question, answerText)

	return &ScoreResult{
		Analysis:   analysis,
		TokensUsed: result.TokensUsed(),
		Latency:    result.Latency,
	}, nil
}

// validateAnalysis applies the defensive boundary rules to a model-produced
// analysis: clamp every score, default an unknown recommendation to neutral,
// and recompute keyword matches locally so they are a true subset of the
// question's scoring keywords.
func validateAnalysis(a *types.ResponseAnalysis, question types.Question, answerText string) {
	a.Score = Clamp(a.Score)
	a.RelevanceScore = Clamp(a.RelevanceScore)
	a.DepthScore = Clamp(a.DepthScore)
	a.ClarityScore = Clamp(a.ClarityScore)

	if !a.Recommendation.Valid() {
		a.Recommendation = types.RecommendNeutral
	}
	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.Concerns == nil {
		a.Concerns = []string{}
	}
	if a.RedFlags == nil {
		a.RedFlags = []string{}
	}

	a.KeywordMatches = MatchKeywords(answerText, question.ScoringKeywords)
}

// fallbackAnalysis is the deterministic neutral analysis for when the model
// is unavailable. Keyword matches are lexical, so they survive the outage.
func fallbackAnalysis(question types.Question, answerText string) types.ResponseAnalysis {
	return types.ResponseAnalysis{
		Score:          fallbackScore,
		Strengths:      []string{"Provided a response"},
		Concerns:       []string{couldNotAnalyze},
		RedFlags:       []string{},
		KeywordMatches: MatchKeywords(answerText, question.ScoringKeywords),
		RelevanceScore: fallbackScore,
		DepthScore:     fallbackScore,
		ClarityScore:   fallbackScore,
		Recommendation: types.RecommendNeutral,
	}
}

// buildAnalysisPrompt renders the analysis prompt for one answer
func buildAnalysisPrompt(question types.Question, answerText string) string {
	var lookingFor strings.Builder
	for i, point := range question.LookingFor {
		if i > 0 {
			lookingFor.WriteString("\n")
		}
		lookingFor.WriteString(fmt.Sprintf("%d. %s", i+1, point))
	}
	if lookingFor.Len() == 0 {
		lookingFor.WriteString("Not specified")
	}

	keywords := strings.Join(question.ScoringKeywords, ", ")
	if keywords == "" {
		keywords = "Not specified"
	}

	weight := question.Weight
	if weight < 1 {
		weight = 1
	}

	return prompts.Format(prompts.MustGet("scoring.json", "analyze-response"), map[string]string{
		"QuestionText":      question.Text,
		"QuestionType":      string(question.Type),
		"QuestionWeight":    fmt.Sprintf("%d", weight),
		"LookingFor":        lookingFor.String(),
		"ScoringKeywords":   keywords,
		"CandidateResponse": answerText,
	})
}
