package server

import (
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/db"
	"github.com/jonathan/interview-screener/internal/interview"
	"github.com/jonathan/interview-screener/internal/scoring"
	"github.com/jonathan/interview-screener/internal/types"
)

// ---------------------------------------------------------------------
// Session Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}

	questions, err := s.db.GetQuestionSet(r.Context(), req.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if len(questions) == 0 {
		s.errorFor(w, &ErrQuestionSetNotFound{JobID: req.JobID})
		return
	}

	mgr := interview.New(s.client, s.log, req.CandidateName, questions)
	turn, err := mgr.Open(r.Context())
	if err != nil {
		s.errorFor(w, err)
		return
	}

	sess, err := s.db.CreateSession(r.Context(), req.ApplicationID, req.CandidateName, req.JobTitle, mgr.State())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	token, expiresAt, err := s.invites.GenerateToken(sess.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate invite: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, OpenSessionResponse{
		SessionID:   sess.ID,
		Message:     turn.Message,
		QuestionID:  turn.QuestionID,
		InviteToken: token,
		ExpiresAt:   expiresAt,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
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

	s.jsonResponse(w, http.StatusOK, sessionResponse(sess))
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "id", Message: "invalid session ID"})
		return
	}

	var req SubmitAnswerRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}

	if err := s.authorizeInvite(r, sessionID); err != nil {
		s.errorFor(w, err)
		return
	}

	// Serialize turns per session so two racing submits cannot both read
	// the same revision.
	release, err := s.locks.acquire(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Session busy")
		return
	}
	defer release()

	sess, err := s.db.GetSession(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sess == nil {
		s.errorFor(w, &ErrSessionNotFound{SessionID: sessionID})
		return
	}

	total := sess.CurrentQuestionIndex + len(sess.State.RemainingQuestions)

	// Snapshot the in-flight question before the turn mutates the queue.
	var current *types.Question
	if q := sess.State.RemainingQuestions.ByID(sess.State.CurrentQuestionID); q != nil {
		copied := *q
		current = &copied
	}

	mgr := interview.Resume(s.client, s.log, sess.CandidateName, sess.State)
	turn, err := mgr.SubmitAnswer(r.Context(), req.Answer)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	sess.State = mgr.State()

	// A question leaves the queue exactly when its answer is final.
	var rec *db.ResponseAnalysisRecord
	if current != nil && sess.State.RemainingQuestions.ByID(current.ID) == nil {
		rec, err = s.analyzeCompletedQuestion(r, sess, *current, req.Answer)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to record score: "+err.Error())
			return
		}
		sess.CurrentQuestionIndex++
	}

	if mgr.IsComplete() {
		sess.Status = db.SessionCompleted
	}

	// The analysis row and the session update must commit together: a
	// revision conflict rolls back both, so a losing submit leaves no
	// phantom analysis behind to skew the weighted score.
	if rec != nil {
		err = s.db.SaveTurn(r.Context(), sess, rec)
	} else {
		err = s.db.UpdateSessionState(r.Context(), sess)
	}
	if err != nil {
		s.errorFor(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, TurnResponse{
		SessionID:  sess.ID,
		Message:    turn.Message,
		QuestionID: turn.QuestionID,
		IsFollowUp: turn.IsFollowUp,
		IsComplete: mgr.IsComplete(),
		Progress:   mgr.Progress(total),
	})
}

// analyzeCompletedQuestion evaluates a finalized answer and folds it into
// the session's running weighted score. The caller persists the returned
// record together with the session update in one transaction.
func (s *Server) analyzeCompletedQuestion(r *http.Request, sess *db.Session, question types.Question, answer string) (*db.ResponseAnalysisRecord, error) {
	result, err := s.scorer.ScoreAnswer(r.Context(), question, answer)
	if err != nil {
		return nil, err
	}

	rec := &db.ResponseAnalysisRecord{
		SessionID:      sess.ID,
		QuestionID:     question.ID,
		QuestionText:   question.Text,
		QuestionWeight: question.Weight,
		Answer:         strings.TrimSpace(answer),
		Analysis:       result.Analysis,
		Score:          result.Analysis.Score,
		Degraded:       result.Degraded,
	}

	// Prior analyses are read outside the turn transaction; a writer that
	// slips in between also bumps the session revision, which fails the
	// transaction and discards this total along with the record.
	prior, err := s.db.ListSessionAnalyses(r.Context(), sess.ID)
	if err != nil {
		return nil, err
	}
	sess.TotalScore = scoring.WeightedAverage(db.ScoredAnswers(append(prior, *rec)))

	if result.Degraded {
		s.log.Warn("answer scored with fallback analysis",
			zap.String("session_id", sess.ID.String()),
			zap.String("question_id", question.ID))
	}
	return rec, nil
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	applicationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "id", Message: "invalid application ID"})
		return
	}

	sessions, err := s.db.ListSessionsByApplication(r.Context(), applicationID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	out := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessionResponse(&sessions[i]))
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
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

	token, expiresAt, err := s.invites.GenerateToken(sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate invite: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, InviteResponse{
		SessionID: sessionID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// authorizeInvite checks the Bearer invite token against the session. When
// invite enforcement is off, a missing header is allowed but a present one is
// still validated.
func (s *Server) authorizeInvite(r *http.Request, sessionID uuid.UUID) error {
	header := r.Header.Get("Authorization")
	if header == "" {
		if s.requireInvite {
			return &ErrInvalidInvite{Reason: "missing Authorization header"}
		}
		return nil
	}

	token := strings.TrimPrefix(header, "Bearer ")
	claims, err := s.invites.ValidateToken(token)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return &ErrInvalidInvite{Reason: "token is for a different session"}
	}
	return nil
}

func sessionResponse(sess *db.Session) SessionResponse {
	total := sess.CurrentQuestionIndex + len(sess.State.RemainingQuestions)
	progress := 0
	if total > 0 {
		progress = int(math.Round(float64(sess.CurrentQuestionIndex) / float64(total) * 100))
	}
	return SessionResponse{
		ID:                   sess.ID,
		ApplicationID:        sess.ApplicationID,
		CandidateName:        sess.CandidateName,
		JobTitle:             sess.JobTitle,
		Status:               sess.Status,
		CurrentQuestionIndex: sess.CurrentQuestionIndex,
		TotalScore:           sess.TotalScore,
		Progress:             progress,
		History:              sess.State.ConversationHistory,
		CreatedAt:            sess.CreatedAt,
		CompletedAt:          sess.CompletedAt,
	}
}
