// Package server provides the HTTP REST API for the interview screener.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-screener/internal/db"
	"github.com/jonathan/interview-screener/internal/interview"
	"github.com/jonathan/interview-screener/internal/scoring"
)

// ErrSessionNotFound indicates the interview session was not found
type ErrSessionNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrQuestionSetNotFound indicates no question set exists for the job
type ErrQuestionSetNotFound struct {
	JobID uuid.UUID
}

func (e *ErrQuestionSetNotFound) Error() string {
	return fmt.Sprintf("no question set for job: %s", e.JobID)
}

// ErrAssessmentNotFound indicates no assessment has been computed yet
type ErrAssessmentNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrAssessmentNotFound) Error() string {
	return fmt.Sprintf("no assessment for session: %s", e.SessionID)
}

// ErrInvalidInvite indicates the invite token failed validation
type ErrInvalidInvite struct {
	Reason string
}

func (e *ErrInvalidInvite) Error() string {
	return fmt.Sprintf("invalid invite token: %s", e.Reason)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrSessionNotFound, *ErrQuestionSetNotFound, *ErrAssessmentNotFound:
		return http.StatusNotFound
	case *ErrInvalidInvite:
		return http.StatusUnauthorized
	case *ErrValidation, *interview.EmptyAnswerError, *interview.EmptyQuestionSetError, *scoring.EmptyAnswerError:
		return http.StatusBadRequest
	case *interview.SessionCompleteError, *db.ConflictError:
		return http.StatusConflict
	case *scoring.AggregationError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
