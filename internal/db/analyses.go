package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-screener/internal/types"
)

// saveResponseAnalysis stores one per-answer evaluation. Analyses are only
// written through SaveTurn so the insert and the revision-checked session
// update commit or roll back together.
func saveResponseAnalysis(ctx context.Context, q querier, rec *ResponseAnalysisRecord) error {
	analysisJSON, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	err = q.QueryRow(ctx,
		`INSERT INTO response_analyses
		   (session_id, question_id, question_text, question_weight, answer, analysis, score, degraded)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		rec.SessionID, rec.QuestionID, rec.QuestionText, rec.QuestionWeight, rec.Answer,
		analysisJSON, rec.Score, rec.Degraded,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save response analysis: %w", err)
	}
	return nil
}

// ListSessionAnalyses lists a session's per-answer evaluations in the order
// they were recorded.
func (db *DB) ListSessionAnalyses(ctx context.Context, sessionID uuid.UUID) ([]ResponseAnalysisRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, session_id, question_id, question_text, question_weight, answer, analysis, score, degraded, created_at
		 FROM response_analyses
		 WHERE session_id = $1
		 ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []ResponseAnalysisRecord
	for rows.Next() {
		var rec ResponseAnalysisRecord
		var analysisJSON []byte
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.QuestionID, &rec.QuestionText,
			&rec.QuestionWeight, &rec.Answer, &analysisJSON, &rec.Score, &rec.Degraded, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if err := json.Unmarshal(analysisJSON, &rec.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// SaveAssessment stores (or replaces) a session's overall assessment
func (db *DB) SaveAssessment(ctx context.Context, rec *AssessmentRecord) error {
	assessmentJSON, err := json.Marshal(rec.Assessment)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO overall_assessments (session_id, assessment, tokens_used)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id) DO UPDATE SET assessment = $2, tokens_used = $3, created_at = NOW()
		 RETURNING created_at`,
		rec.SessionID, assessmentJSON, rec.TokensUsed,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// GetAssessment retrieves a session's overall assessment, or nil when absent
func (db *DB) GetAssessment(ctx context.Context, sessionID uuid.UUID) (*AssessmentRecord, error) {
	var rec AssessmentRecord
	var assessmentJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT session_id, assessment, tokens_used, created_at
		 FROM overall_assessments WHERE session_id = $1`,
		sessionID,
	).Scan(&rec.SessionID, &assessmentJSON, &rec.TokensUsed, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	if err := json.Unmarshal(assessmentJSON, &rec.Assessment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
	}
	return &rec, nil
}

// ScoredAnswers assembles a session's scored answers (question, answer,
// analysis) for aggregation. Records carry the question text and weight they
// were scored against, so no question set lookup is needed.
func ScoredAnswers(records []ResponseAnalysisRecord) []types.ScoredAnswer {
	answers := make([]types.ScoredAnswer, 0, len(records))
	for _, rec := range records {
		answers = append(answers, types.ScoredAnswer{
			Question: types.Question{ID: rec.QuestionID, Text: rec.QuestionText, Weight: rec.QuestionWeight},
			Answer:   rec.Answer,
			Analysis: rec.Analysis,
		})
	}
	return answers
}
