package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-screener/internal/types"
)

// Session status values. These are caller-owned metadata; the conversation
// manager itself only knows whether its question queue is empty.
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// Session is one candidate's interview session record. The State column
// stores the conversation manager's state verbatim; the remaining fields are
// session-level metadata owned by this layer.
type Session struct {
	ID                   uuid.UUID               `json:"id"`
	ApplicationID        uuid.UUID               `json:"application_id"`
	CandidateName        string                  `json:"candidate_name"`
	JobTitle             string                  `json:"job_title"`
	Status               string                  `json:"status"`
	CurrentQuestionIndex int                     `json:"current_question_index"`
	TotalScore           float64                 `json:"total_score"`
	State                types.ConversationState `json:"state"`
	Revision             int                     `json:"revision"`
	CreatedAt            time.Time               `json:"created_at"`
	CompletedAt          *time.Time              `json:"completed_at,omitempty"`
}

// ResponseAnalysisRecord is one persisted per-answer evaluation
type ResponseAnalysisRecord struct {
	ID             uuid.UUID              `json:"id"`
	SessionID      uuid.UUID              `json:"session_id"`
	QuestionID     string                 `json:"question_id"`
	QuestionText   string                 `json:"question_text"`
	QuestionWeight int                    `json:"question_weight"`
	Answer         string                 `json:"answer"`
	Analysis       types.ResponseAnalysis `json:"analysis"`
	Score          float64                `json:"score"`
	Degraded       bool                   `json:"degraded"`
	CreatedAt      time.Time              `json:"created_at"`
}

// AssessmentRecord is the persisted overall assessment for a session
type AssessmentRecord struct {
	SessionID  uuid.UUID               `json:"session_id"`
	Assessment types.OverallAssessment `json:"assessment"`
	TokensUsed int                     `json:"tokens_used"`
	CreatedAt  time.Time               `json:"created_at"`
}
