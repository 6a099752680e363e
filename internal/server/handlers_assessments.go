package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-screener/internal/db"
)

// ---------------------------------------------------------------------
// Assessment Handlers
// ---------------------------------------------------------------------

func (s *Server) handleComputeAssessment(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "id", Message: "invalid session ID"})
		return
	}

	sess, err := s.db.GetSession(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sess == nil {
		s.errorFor(w, &ErrSessionNotFound{SessionID: sessionID})
		return
	}

	records, err := s.db.ListSessionAnalyses(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	answers := db.ScoredAnswers(records)
	result, err := s.scorer.Aggregate(r.Context(), sess.CandidateName, sess.JobTitle, answers)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	rec := &db.AssessmentRecord{
		SessionID:  sessionID,
		Assessment: result.Assessment,
		TokensUsed: result.TokensUsed,
	}
	if err := s.db.SaveAssessment(r.Context(), rec); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, AssessmentResponse{
		SessionID:  sessionID,
		Assessment: result.Assessment,
		TokensUsed: result.TokensUsed,
	})
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "id", Message: "invalid session ID"})
		return
	}

	rec, err := s.db.GetAssessment(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if rec == nil {
		s.errorFor(w, &ErrAssessmentNotFound{SessionID: sessionID})
		return
	}

	s.jsonResponse(w, http.StatusOK, AssessmentResponse{
		SessionID:  rec.SessionID,
		Assessment: rec.Assessment,
		TokensUsed: rec.TokensUsed,
	})
}
