package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-screener/internal/types"
)

// SaveQuestionSet stores (or replaces) the generated question set for a job
func (db *DB) SaveQuestionSet(ctx context.Context, jobID uuid.UUID, questions types.QuestionSet) error {
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("failed to marshal question set: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO question_sets (job_id, questions)
		 VALUES ($1, $2)
		 ON CONFLICT (job_id) DO UPDATE SET questions = $2, created_at = NOW()`,
		jobID, questionsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save question set: %w", err)
	}
	return nil
}

// GetQuestionSet retrieves the question set for a job, or nil when none exists
func (db *DB) GetQuestionSet(ctx context.Context, jobID uuid.UUID) (types.QuestionSet, error) {
	var questionsJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT questions FROM question_sets WHERE job_id = $1`,
		jobID,
	).Scan(&questionsJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question set: %w", err)
	}

	var questions types.QuestionSet
	if err := json.Unmarshal(questionsJSON, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question set: %w", err)
	}
	return questions, nil
}
