package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-screener/internal/types"
)

// ConflictError indicates a session update raced with another writer: the
// caller's revision no longer matches the stored one. The caller should
// reload the session and retry the turn.
type ConflictError struct {
	SessionID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session %s was modified concurrently", e.SessionID)
}

// CreateSession creates a new interview session with its opening state
func (db *DB) CreateSession(ctx context.Context, applicationID uuid.UUID, candidateName, jobTitle string, state types.ConversationState) (*Session, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session state: %w", err)
	}

	s := Session{
		ApplicationID: applicationID,
		CandidateName: candidateName,
		JobTitle:      jobTitle,
		Status:        SessionInProgress,
		State:         state,
		Revision:      1,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO interview_sessions
		   (application_id, candidate_name, job_title, status, current_question_index, total_score, state, revision)
		 VALUES ($1, $2, $3, $4, 0, 0, $5, 1)
		 RETURNING id, created_at`,
		applicationID, candidateName, jobTitle, SessionInProgress, stateJSON,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &s, nil
}

// GetSession retrieves a session by id, or nil when not found
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	var s Session
	var stateJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, application_id, candidate_name, job_title, status,
		        current_question_index, total_score, state, revision,
		        created_at, completed_at
		 FROM interview_sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.ApplicationID, &s.CandidateName, &s.JobTitle, &s.Status,
		&s.CurrentQuestionIndex, &s.TotalScore, &stateJSON, &s.Revision,
		&s.CreatedAt, &s.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal(stateJSON, &s.State); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}

	return &s, nil
}

// UpdateSessionState persists the state after a turn. The update is
// revision-checked: two racing submissions to the same session can never
// both apply, because remaining-question removal is not commutative.
func (db *DB) UpdateSessionState(ctx context.Context, s *Session) error {
	return updateSessionState(ctx, db.pool, s)
}

// SaveTurn persists a turn that finalized an answer: the response analysis
// and the revision-checked session update commit in one transaction, so a
// losing writer's analysis row can never outlive its rejected state change.
func (db *DB) SaveTurn(ctx context.Context, s *Session, rec *ResponseAnalysisRecord) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := saveResponseAnalysis(ctx, tx, rec); err != nil {
		return err
	}
	if err := updateSessionState(ctx, tx, s); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit turn: %w", err)
	}
	return nil
}

func updateSessionState(ctx context.Context, q querier, s *Session) error {
	stateJSON, err := json.Marshal(s.State)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	tag, err := q.Exec(ctx,
		`UPDATE interview_sessions
		 SET status = $1, current_question_index = $2, total_score = $3,
		     state = $4, revision = revision + 1,
		     completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		 WHERE id = $5 AND revision = $6`,
		s.Status, s.CurrentQuestionIndex, s.TotalScore, stateJSON, s.ID, s.Revision,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &ConflictError{SessionID: s.ID}
	}

	s.Revision++
	return nil
}

// ListSessionsByApplication lists sessions for one application, newest first
func (db *DB) ListSessionsByApplication(ctx context.Context, applicationID uuid.UUID) ([]Session, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, application_id, candidate_name, job_title, status,
		        current_question_index, total_score, state, revision,
		        created_at, completed_at
		 FROM interview_sessions
		 WHERE application_id = $1
		 ORDER BY created_at DESC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var stateJSON []byte
		if err := rows.Scan(&s.ID, &s.ApplicationID, &s.CandidateName, &s.JobTitle, &s.Status,
			&s.CurrentQuestionIndex, &s.TotalScore, &stateJSON, &s.Revision,
			&s.CreatedAt, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if err := json.Unmarshal(stateJSON, &s.State); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}
