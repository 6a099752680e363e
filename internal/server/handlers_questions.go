package server

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/questions"
)

// ---------------------------------------------------------------------
// Question Set Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "id", Message: "invalid job ID"})
		return
	}

	var req GenerateQuestionsRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}

	count := req.Count
	if count == 0 {
		count = questions.DefaultCount
	}

	result, err := questions.Generate(r.Context(), s.client, s.log, questions.JobContext{
		JobTitle:        req.JobTitle,
		Industry:        req.Industry,
		ExperienceLevel: req.ExperienceLevel,
		Department:      req.Department,
		Description:     req.Description,
		Requirements:    req.Requirements,
	}, count)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Question generation failed: "+err.Error())
		return
	}

	if err := s.db.SaveQuestionSet(r.Context(), jobID, result.Questions); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.log.Info("question set generated",
		zap.String("job_id", jobID.String()),
		zap.Int("questions", len(result.Questions)),
		zap.Int("tokens", result.TokensUsed))

	s.jsonResponse(w, http.StatusCreated, QuestionSetResponse{
		JobID:      jobID,
		Questions:  result.Questions,
		TokensUsed: result.TokensUsed,
	})
}

func (s *Server) handleGetQuestionSet(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "id", Message: "invalid job ID"})
		return
	}

	set, err := s.db.GetQuestionSet(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if len(set) == 0 {
		s.errorFor(w, &ErrQuestionSetNotFound{JobID: jobID})
		return
	}

	s.jsonResponse(w, http.StatusOK, QuestionSetResponse{JobID: jobID, Questions: set})
}
