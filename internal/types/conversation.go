package types

import "time"

// MessageRole identifies the author of a transcript entry
type MessageRole string

// Message role constants
const (
	RoleAssistant MessageRole = "assistant"
	RoleUser      MessageRole = "user"
)

// MessageMetadata carries optional links from a transcript entry to the
// question being addressed.
type MessageMetadata struct {
	QuestionID string `json:"question_id,omitempty"`
}

// ConversationMessage is one transcript entry. The transcript is a strictly
// ordered, append-only sequence; entries are never mutated after append.
type ConversationMessage struct {
	Role      MessageRole      `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// ConversationState is the conversation manager's working state for one
// session. It is created empty at session start, mutated exclusively by the
// manager, and persisted verbatim by the storage layer after each turn.
type ConversationState struct {
	ConversationHistory []ConversationMessage `json:"conversationHistory"`
	RemainingQuestions  QuestionSet           `json:"remainingQuestions"` // FIFO, not yet fully answered
	CurrentQuestionID   string                `json:"currentQuestionId"`  // empty when no question is in play
	IsFollowUp          bool                  `json:"isFollowUp"`         // next answer replies to a follow-up
}

// Clone returns a deep copy of the state. Callers receive copies so the
// manager's internal state cannot be mutated from outside.
func (s ConversationState) Clone() ConversationState {
	out := ConversationState{
		CurrentQuestionID: s.CurrentQuestionID,
		IsFollowUp:        s.IsFollowUp,
	}
	if s.ConversationHistory != nil {
		out.ConversationHistory = make([]ConversationMessage, len(s.ConversationHistory))
		copy(out.ConversationHistory, s.ConversationHistory)
		for i, msg := range out.ConversationHistory {
			if msg.Metadata != nil {
				copied := *msg.Metadata
				out.ConversationHistory[i].Metadata = &copied
			}
		}
	}
	if s.RemainingQuestions != nil {
		out.RemainingQuestions = make(QuestionSet, len(s.RemainingQuestions))
		copy(out.RemainingQuestions, s.RemainingQuestions)
	}
	return out
}
