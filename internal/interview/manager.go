// Package interview implements the per-session state machine that drives a
// conversational interview: delivering questions, deciding follow-up versus
// advance on each candidate turn, and detecting completion.
//
// Model failures never abort a turn. Every gateway call has a deterministic
// fallback, so the interview always makes forward progress even under a full
// provider outage.
package interview

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/logger"
	"github.com/jonathan/interview-screener/internal/prompts"
	"github.com/jonathan/interview-screener/internal/schemas"
	"github.com/jonathan/interview-screener/internal/types"
)

const (
	openingMaxTokens  = 512
	decisionMaxTokens = 512
	closingMaxTokens  = 256

	conversationTemperature = 0.7
)

// fallbackTransition is the generic transition used when the model cannot
// provide a tailored one. The next question's text is appended to it.
const fallbackTransition = "Thank you for sharing. Let's move on to the next question:"

// TurnResult is the outcome of one manager operation: the assistant message
// to display, the question now in play (empty once the session is complete),
// and token accounting for the turn.
type TurnResult struct {
	Message    string
	QuestionID string
	IsFollowUp bool
	TokensUsed int
}

// Manager is the conversation state machine for a single session. It owns
// the session's ConversationState exclusively; callers persist snapshots via
// State and reconstruct managers via Resume. A Manager is not safe for
// concurrent use; the caller serializes turns per session.
type Manager struct {
	client        llm.Client
	log           *zap.Logger
	candidateName string
	state         types.ConversationState
}

// New creates a manager for a fresh session over the given question set.
func New(client llm.Client, log *zap.Logger, candidateName string, questions types.QuestionSet) *Manager {
	remaining := make(types.QuestionSet, len(questions))
	copy(remaining, questions)

	return &Manager{
		client:        client,
		log:           logger.OrNop(log),
		candidateName: candidateName,
		state: types.ConversationState{
			RemainingQuestions: remaining,
		},
	}
}

// Resume reconstructs a manager from previously persisted state, for
// stateless-server continuation across requests.
func Resume(client llm.Client, log *zap.Logger, candidateName string, saved types.ConversationState) *Manager {
	return &Manager{
		client:        client,
		log:           logger.OrNop(log),
		candidateName: candidateName,
		state:         saved.Clone(),
	}
}

// Open starts the session: it produces the opening message (warm greeting
// plus the first question) and marks the first question as in play.
// Fails only when the question set is empty.
func (m *Manager) Open(ctx context.Context) (*TurnResult, error) {
	if len(m.state.RemainingQuestions) == 0 {
		return nil, &EmptyQuestionSetError{}
	}

	first := m.state.RemainingQuestions[0]

	prompt := prompts.Format(prompts.MustGet("interview.json", "opening"), map[string]string{
		"CandidateName": m.candidateName,
		"FirstQuestion": first.Text,
	})

	message := ""
	tokens := 0
	result, err := m.client.Generate(ctx, llm.Request{
		System:      prompts.MustGet("interview.json", "system"),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Tier:        llm.TierLite,
		MaxTokens:   openingMaxTokens,
		Temperature: conversationTemperature,
	})
	if err != nil {
		m.log.Warn("opening message generation failed, using fallback", zap.Error(err))
		message = fmt.Sprintf(
			"Hi %s! Thanks for taking the time to interview with us today. I'll ask you a few questions to learn more about your experience; take your time with each answer. Let's get started: %s",
			m.candidateName, first.Text)
	} else {
		message = strings.TrimSpace(result.Text)
		tokens = result.TokensUsed()
	}

	m.appendMessage(types.RoleAssistant, message, first.ID)
	m.state.CurrentQuestionID = first.ID
	m.state.IsFollowUp = false

	return &TurnResult{
		Message:    message,
		QuestionID: first.ID,
		TokensUsed: tokens,
	}, nil
}

// SubmitAnswer consumes the candidate's answer and produces the next
// assistant message: a follow-up, a transition to the next question, or the
// closing message once the last question has been answered.
//
// The question being answered is removed from the remaining queue before the
// follow-up decision is made, so a follow-up never re-queues it. At most one
// follow-up is asked per question: an answer to a follow-up always advances.
func (m *Manager) SubmitAnswer(ctx context.Context, answerText string) (*TurnResult, error) {
	if m.IsComplete() {
		return nil, &SessionCompleteError{}
	}
	if strings.TrimSpace(answerText) == "" {
		return nil, &EmptyAnswerError{}
	}

	m.appendMessage(types.RoleUser, answerText, m.state.CurrentQuestionID)

	wasFollowUp := m.state.IsFollowUp
	if m.state.CurrentQuestionID != "" && !wasFollowUp {
		m.state.RemainingQuestions = removeQuestion(m.state.RemainingQuestions, m.state.CurrentQuestionID)
	}

	if len(m.state.RemainingQuestions) == 0 {
		return m.closeSession(ctx), nil
	}

	// One follow-up per question: after a follow-up answer the model is told
	// to advance, and a disobedient decision is coerced.
	return m.decideNext(ctx, !wasFollowUp), nil
}

// decideNext asks the model, in a single structured call, whether to follow
// up or advance, and applies the decision. Any gateway failure degrades to a
// deterministic advance.
func (m *Manager) decideNext(ctx context.Context, allowFollowUp bool) *TurnResult {
	prompt := prompts.Format(prompts.MustGet("interview.json", "turn-decision"), map[string]string{
		"CandidateName":      m.candidateName,
		"Transcript":         m.formatTranscript(),
		"RemainingQuestions": m.formatRemainingQuestions(),
	})
	if !allowFollowUp {
		prompt += "\n\n" + prompts.MustGet("interview.json", "no-follow-up-note")
	}

	var decision turnDecision
	result, err := llm.GenerateJSON(ctx, m.client, llm.Request{
		System:      prompts.MustGet("interview.json", "system"),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Tier:        llm.TierStandard,
		MaxTokens:   decisionMaxTokens,
		Temperature: conversationTemperature,
	}, schemas.ConversationDecision, &decision)
	if err != nil {
		m.log.Warn("turn decision failed, advancing with generic transition", zap.Error(err))
		return m.advanceFallback(0)
	}

	tokens := result.TokensUsed()

	if decision.Action == actionFollowUp && !allowFollowUp {
		return m.advanceFallback(tokens)
	}

	if decision.Action == actionFollowUp {
		m.state.IsFollowUp = true
		returnedID := ""
		if decision.QuestionID != nil && *decision.QuestionID != "" {
			// The model may echo the question being probed; keep it only
			// when it refers to the question actually in play.
			if *decision.QuestionID == m.state.CurrentQuestionID {
				returnedID = *decision.QuestionID
			}
		}
		m.appendMessage(types.RoleAssistant, decision.NextMessage, m.state.CurrentQuestionID)
		return &TurnResult{
			Message:    decision.NextMessage,
			QuestionID: returnedID,
			IsFollowUp: true,
			TokensUsed: tokens,
		}
	}

	// Advance: the chosen question must be one still in the queue.
	next := m.state.RemainingQuestions[0]
	if decision.QuestionID != nil {
		if q := m.state.RemainingQuestions.ByID(*decision.QuestionID); q != nil {
			next = *q
		}
	}

	m.state.IsFollowUp = false
	m.state.CurrentQuestionID = next.ID
	m.appendMessage(types.RoleAssistant, decision.NextMessage, next.ID)

	return &TurnResult{
		Message:    decision.NextMessage,
		QuestionID: next.ID,
		TokensUsed: tokens,
	}
}

// advanceFallback moves to the next queued question with generic transition
// text. Used when the model is unavailable and when a follow-up answer must
// force an advance.
func (m *Manager) advanceFallback(tokens int) *TurnResult {
	next := m.state.RemainingQuestions[0]
	message := fmt.Sprintf("%s %s", fallbackTransition, next.Text)

	m.state.IsFollowUp = false
	m.state.CurrentQuestionID = next.ID
	m.appendMessage(types.RoleAssistant, message, next.ID)

	return &TurnResult{
		Message:    message,
		QuestionID: next.ID,
		TokensUsed: tokens,
	}
}

// closeSession produces the closing message once no questions remain.
func (m *Manager) closeSession(ctx context.Context) *TurnResult {
	prompt := prompts.Format(prompts.MustGet("interview.json", "closing"), map[string]string{
		"CandidateName": m.candidateName,
	})

	message := ""
	tokens := 0
	result, err := m.client.Generate(ctx, llm.Request{
		System:      prompts.MustGet("interview.json", "system"),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Tier:        llm.TierLite,
		MaxTokens:   closingMaxTokens,
		Temperature: conversationTemperature,
	})
	if err != nil {
		m.log.Warn("closing message generation failed, using fallback", zap.Error(err))
		message = fmt.Sprintf(
			"Thank you so much for your time today, %s. We really appreciate you sharing your experiences with us. We'll review your responses and get back to you within the next few days. Best of luck!",
			m.candidateName)
	} else {
		message = strings.TrimSpace(result.Text)
		tokens = result.TokensUsed()
	}

	m.state.IsFollowUp = false
	m.state.CurrentQuestionID = ""
	m.appendMessage(types.RoleAssistant, message, "")

	return &TurnResult{
		Message:    message,
		TokensUsed: tokens,
	}
}

// IsComplete reports whether all questions have been answered
func (m *Manager) IsComplete() bool {
	return len(m.state.RemainingQuestions) == 0
}

// Progress returns the percentage of questions consumed, rounded to the
// nearest integer. Reads 0 at session open and 100 once the queue is empty.
func (m *Manager) Progress(totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	answered := totalQuestions - len(m.state.RemainingQuestions)
	return int(math.Round(float64(answered) / float64(totalQuestions) * 100))
}

// RemainingCount returns the number of questions not yet fully answered
func (m *Manager) RemainingCount() int {
	return len(m.state.RemainingQuestions)
}

// CandidateName returns the candidate this session belongs to
func (m *Manager) CandidateName() string {
	return m.candidateName
}

// State returns a snapshot of the conversation state for persistence
func (m *Manager) State() types.ConversationState {
	return m.state.Clone()
}

// History returns a copy of the transcript
func (m *Manager) History() []types.ConversationMessage {
	out := make([]types.ConversationMessage, len(m.state.ConversationHistory))
	copy(out, m.state.ConversationHistory)
	return out
}

// appendMessage appends one transcript entry, linking it to a question when
// questionID is non-empty.
func (m *Manager) appendMessage(role types.MessageRole, content, questionID string) {
	msg := types.ConversationMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if questionID != "" {
		msg.Metadata = &types.MessageMetadata{QuestionID: questionID}
	}
	m.state.ConversationHistory = append(m.state.ConversationHistory, msg)
}

// formatTranscript renders the conversation history for the turn prompt
func (m *Manager) formatTranscript() string {
	var sb strings.Builder
	for i, msg := range m.state.ConversationHistory {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		speaker := m.candidateName
		if msg.Role == types.RoleAssistant {
			speaker = "You"
		}
		sb.WriteString(speaker)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
	}
	return sb.String()
}

// formatRemainingQuestions renders the queue for the turn prompt, including
// ids so the model can name the question it advances to.
func (m *Manager) formatRemainingQuestions() string {
	var sb strings.Builder
	for i, q := range m.state.RemainingQuestions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d. [%s] %s (id: %s)", i+1, q.Type, q.Text, q.ID))
	}
	return sb.String()
}

// removeQuestion filters one question out of the queue. A removed id is
// never re-added.
func removeQuestion(questions types.QuestionSet, id string) types.QuestionSet {
	out := make(types.QuestionSet, 0, len(questions))
	for _, q := range questions {
		if q.ID != id {
			out = append(out, q)
		}
	}
	return out
}
