package interview

// decisionAction is the tag of the model's per-turn decision
type decisionAction string

const (
	actionFollowUp decisionAction = "follow_up"
	actionAdvance  decisionAction = "advance"
)

// turnDecision is the structured response expected from the model on each
// conversational turn: whether to probe the current question further or
// advance, the message to show the candidate, and (when advancing) which
// question to surface next. Validated against the conversation_decision
// schema before use.
type turnDecision struct {
	Action      decisionAction `json:"action"`
	NextMessage string         `json:"next_message"`
	QuestionID  *string        `json:"question_id"`
}
