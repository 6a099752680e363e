package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-screener/internal/types"
)

// CreateSessionRequest opens a new interview session for an application.
// The job must already have a generated question set.
type CreateSessionRequest struct {
	ApplicationID uuid.UUID `json:"application_id" validate:"required"`
	JobID         uuid.UUID `json:"job_id" validate:"required"`
	CandidateName string    `json:"candidate_name" validate:"required,min=1,max=200"`
	JobTitle      string    `json:"job_title" validate:"required,min=1,max=200"`
}

// SubmitAnswerRequest carries one candidate answer for the current question.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// GenerateQuestionsRequest describes the job a question set is generated for.
type GenerateQuestionsRequest struct {
	JobTitle        string   `json:"job_title" validate:"required,min=1,max=200"`
	Industry        string   `json:"industry" validate:"omitempty,max=200"`
	ExperienceLevel string   `json:"experience_level" validate:"omitempty,max=100"`
	Department      string   `json:"department" validate:"omitempty,max=200"`
	Description     string   `json:"description" validate:"omitempty,max=20000"`
	Requirements    []string `json:"requirements" validate:"omitempty,dive,max=500"`
	Count           int      `json:"count" validate:"omitempty,min=1,max=20"`
}

// TurnResponse is the assistant's side of one conversation turn.
type TurnResponse struct {
	SessionID  uuid.UUID `json:"session_id"`
	Message    string    `json:"message"`
	QuestionID string    `json:"question_id,omitempty"`
	IsFollowUp bool      `json:"is_follow_up"`
	IsComplete bool      `json:"is_complete"`
	Progress   int       `json:"progress"`
}

// OpenSessionResponse is returned when a session is created: the new record's
// id, the assistant's opening turn, and a signed invite token for the
// candidate link.
type OpenSessionResponse struct {
	SessionID   uuid.UUID `json:"session_id"`
	Message     string    `json:"message"`
	QuestionID  string    `json:"question_id,omitempty"`
	InviteToken string    `json:"invite_token"`
	ExpiresAt   time.Time `json:"invite_expires_at"`
}

// SessionResponse is the public view of a session record.
type SessionResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	ApplicationID        uuid.UUID                   `json:"application_id"`
	CandidateName        string                      `json:"candidate_name"`
	JobTitle             string                      `json:"job_title"`
	Status               string                      `json:"status"`
	CurrentQuestionIndex int                         `json:"current_question_index"`
	TotalScore           float64                     `json:"total_score"`
	Progress             int                         `json:"progress"`
	History              []types.ConversationMessage `json:"history"`
	CreatedAt            time.Time                   `json:"created_at"`
	CompletedAt          *time.Time                  `json:"completed_at,omitempty"`
}

// QuestionSetResponse is a stored question set plus generation accounting.
type QuestionSetResponse struct {
	JobID      uuid.UUID         `json:"job_id"`
	Questions  types.QuestionSet `json:"questions"`
	TokensUsed int               `json:"tokens_used,omitempty"`
}

// AssessmentResponse is the overall assessment for a completed session.
type AssessmentResponse struct {
	SessionID  uuid.UUID               `json:"session_id"`
	Assessment types.OverallAssessment `json:"assessment"`
	TokensUsed int                     `json:"tokens_used"`
}

// InviteResponse carries a signed candidate invite token.
type InviteResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
