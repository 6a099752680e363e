package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-screener/internal/db"
	"github.com/jonathan/interview-screener/internal/interview"
	"github.com/jonathan/interview-screener/internal/scoring"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"session not found", &ErrSessionNotFound{SessionID: uuid.New()}, http.StatusNotFound},
		{"question set not found", &ErrQuestionSetNotFound{JobID: uuid.New()}, http.StatusNotFound},
		{"assessment not found", &ErrAssessmentNotFound{SessionID: uuid.New()}, http.StatusNotFound},
		{"invalid invite", &ErrInvalidInvite{Reason: "expired"}, http.StatusUnauthorized},
		{"validation", &ErrValidation{Field: "answer", Message: "required"}, http.StatusBadRequest},
		{"empty answer", &interview.EmptyAnswerError{}, http.StatusBadRequest},
		{"empty question set", &interview.EmptyQuestionSetError{}, http.StatusBadRequest},
		{"scoring empty answer", &scoring.EmptyAnswerError{}, http.StatusBadRequest},
		{"session complete", &interview.SessionCompleteError{}, http.StatusConflict},
		{"revision conflict", &db.ConflictError{SessionID: uuid.New()}, http.StatusConflict},
		{"aggregation failure", &scoring.AggregationError{Message: "no answers"}, http.StatusBadGateway},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
