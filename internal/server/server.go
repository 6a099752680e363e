package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/db"
	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/scoring"
	"github.com/jonathan/interview-screener/internal/types"
)

// Store is the persistence surface the handlers depend on, implemented by
// *db.DB. Turns that finalize an answer go through SaveTurn so the analysis
// row and the revision-checked session update are atomic.
type Store interface {
	SaveQuestionSet(ctx context.Context, jobID uuid.UUID, questions types.QuestionSet) error
	GetQuestionSet(ctx context.Context, jobID uuid.UUID) (types.QuestionSet, error)
	CreateSession(ctx context.Context, applicationID uuid.UUID, candidateName, jobTitle string, state types.ConversationState) (*db.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*db.Session, error)
	UpdateSessionState(ctx context.Context, s *db.Session) error
	SaveTurn(ctx context.Context, s *db.Session, rec *db.ResponseAnalysisRecord) error
	ListSessionsByApplication(ctx context.Context, applicationID uuid.UUID) ([]db.Session, error)
	ListSessionAnalyses(ctx context.Context, sessionID uuid.UUID) ([]db.ResponseAnalysisRecord, error)
	SaveAssessment(ctx context.Context, rec *db.AssessmentRecord) error
	GetAssessment(ctx context.Context, sessionID uuid.UUID) (*db.AssessmentRecord, error)
	Close()
}

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	db            Store
	client        llm.Client
	scorer        *scoring.Scorer
	invites       *InviteService
	locks         *sessionLocks
	validate      *validator.Validate
	requireInvite bool
	log           *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port           int
	DatabaseURL    string
	APIKey         string
	InviteSecret   string
	InviteTTLHours int
	LLM            *llm.Config
	RequireInvite  bool
}

// New creates a new server instance
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmConfig := cfg.LLM
	if llmConfig == nil {
		llmConfig = llm.DefaultConfig()
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey, log)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	ttl := time.Duration(cfg.InviteTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}

	s := &Server{
		db:            database,
		client:        client,
		scorer:        scoring.NewScorer(client, log),
		invites:       NewInviteService(cfg.InviteSecret, ttl),
		locks:         newSessionLocks(),
		validate:      validator.New(),
		requireInvite: cfg.RequireInvite,
		log:           log,
	}

	mux := http.NewServeMux()

	// Question set endpoints
	mux.HandleFunc("POST /jobs/{id}/questions", s.handleGenerateQuestions)
	mux.HandleFunc("GET /jobs/{id}/questions", s.handleGetQuestionSet)

	// Session endpoints
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /sessions/{id}/answers", s.handleSubmitAnswer)
	mux.HandleFunc("POST /sessions/{id}/invite", s.handleCreateInvite)
	mux.HandleFunc("GET /applications/{id}/sessions", s.handleListSessions)

	// Assessment endpoints
	mux.HandleFunc("POST /sessions/{id}/assessment", s.handleComputeAssessment)
	mux.HandleFunc("GET /sessions/{id}/assessment", s.handleGetAssessment)

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // turns include a model round trip
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.client.Close(); err != nil {
		s.log.Warn("model client close failed", zap.Error(err))
	}
	s.db.Close()
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encoding JSON response failed", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFor maps a typed error to its HTTP status and writes the response.
func (s *Server) errorFor(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// decodeAndValidate decodes a JSON request body and runs struct validation.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(dst); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &ErrValidation{Field: errs[0].Field(), Message: "failed " + errs[0].Tag() + " validation"}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}
