// Package questions generates interview question sets for a job via one
// structured gateway call. Generation happens before a session starts; the
// resulting set is immutable for the session's lifetime.
package questions

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
	// DefaultCount is the number of questions generated when unspecified
	DefaultCount = 8

	generateMaxTokens = 4096

	// Slightly higher temperature for variety in generated questions
	generateTemperature = 0.8

	defaultWeight = 3
)

// JobContext describes the position questions are generated for
type JobContext struct {
	JobTitle        string
	Industry        string
	ExperienceLevel string
	Department      string
	Description     string
	Requirements    []string
}

// Result is a generated question set plus call accounting
type Result struct {
	Questions  types.QuestionSet
	TokensUsed int
	Latency    time.Duration
}

// questionSetResponse is the structured response expected from the model,
// validated against the question_set schema.
type questionSetResponse struct {
	Questions []types.Question `json:"questions"`
}

// Generate produces a question set for the given job. Unlike conversational
// turns there is no candidate waiting on this call, so failures are returned
// rather than degraded.
func Generate(ctx context.Context, client llm.Client, log *zap.Logger, job JobContext, count int) (*Result, error) {
	log = logger.OrNop(log)
	if count <= 0 {
		count = DefaultCount
	}

	prompt := buildGeneratePrompt(job, count)

	var response questionSetResponse
	result, err := llm.GenerateJSON(ctx, client, llm.Request{
		System:      prompts.MustGet("questions.json", "system"),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Tier:        llm.TierAdvanced,
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	}, schemas.QuestionSet, &response)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	questions := normalizeQuestions(response.Questions)

	log.Info("generated question set",
		zap.String("job_title", job.JobTitle),
		zap.Int("count", len(questions)))

	return &Result{
		Questions:  questions,
		TokensUsed: result.TokensUsed(),
		Latency:    result.Latency,
	}, nil
}

// normalizeQuestions fills defaults the model may omit: ids in q1..qN form,
// weight 3, empty signal lists, general type for anything unknown.
func normalizeQuestions(raw []types.Question) types.QuestionSet {
	questions := make(types.QuestionSet, 0, len(raw))
	for i, q := range raw {
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if !q.Type.Valid() {
			q.Type = types.QuestionGeneral
		}
		if q.LookingFor == nil {
			q.LookingFor = []string{}
		}
		if q.ScoringKeywords == nil {
			q.ScoringKeywords = []string{}
		}
		if q.Weight < 1 || q.Weight > 5 {
			q.Weight = defaultWeight
		}
		questions = append(questions, q)
	}
	return questions
}

// buildGeneratePrompt renders the generation prompt for a job
func buildGeneratePrompt(job JobContext, count int) string {
	description := ""
	if job.Description != "" {
		description = fmt.Sprintf("- Job Description: %s\n", job.Description)
	}
	requirements := ""
	if len(job.Requirements) > 0 {
		requirements = fmt.Sprintf("- Key Requirements: %s\n", strings.Join(job.Requirements, ", "))
	}

	return prompts.Format(prompts.MustGet("questions.json", "generate-questions"), map[string]string{
		"QuestionCount":   fmt.Sprintf("%d", count),
		"JobTitle":        job.JobTitle,
		"Industry":        job.Industry,
		"ExperienceLevel": job.ExperienceLevel,
		"Department":      job.Department,
		"JobDescription":  description,
		"Requirements":    requirements,
	})
}
