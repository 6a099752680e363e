package interview

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/types"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateFunc func(ctx context.Context, req llm.Request) (*llm.Result, error)
	Requests     []llm.Request
}

func (m *MockLLMClient) Generate(ctx context.Context, req llm.Request) (*llm.Result, error) {
	m.Requests = append(m.Requests, req)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &llm.Result{Text: "ok", InputTokens: 10, OutputTokens: 5}, nil
}

func (m *MockLLMClient) Close() error { return nil }

// scriptedClient returns each response in order, then repeats the last one.
func scriptedClient(responses ...string) *MockLLMClient {
	i := 0
	client := &MockLLMClient{}
	client.GenerateFunc = func(_ context.Context, _ llm.Request) (*llm.Result, error) {
		text := responses[len(responses)-1]
		if i < len(responses) {
			text = responses[i]
		}
		i++
		return &llm.Result{Text: text, InputTokens: 10, OutputTokens: 5}, nil
	}
	return client
}

func failingClient() *MockLLMClient {
	client := &MockLLMClient{}
	client.GenerateFunc = func(_ context.Context, _ llm.Request) (*llm.Result, error) {
		return nil, &llm.CallError{Message: "provider unavailable", Cause: errors.New("timeout")}
	}
	return client
}

func advanceDecision(message, questionID string) string {
	if questionID == "" {
		return fmt.Sprintf(`{"action": "advance", "next_message": %q, "question_id": null}`, message)
	}
	return fmt.Sprintf(`{"action": "advance", "next_message": %q, "question_id": %q}`, message, questionID)
}

func followUpDecision(message, questionID string) string {
	if questionID == "" {
		return fmt.Sprintf(`{"action": "follow_up", "next_message": %q, "question_id": null}`, message)
	}
	return fmt.Sprintf(`{"action": "follow_up", "next_message": %q, "question_id": %q}`, message, questionID)
}

func testQuestions() types.QuestionSet {
	return types.QuestionSet{
		{ID: "q1", Text: "Tell me about a recent project.", Type: types.QuestionBehavioral, Weight: 3},
		{ID: "q2", Text: "How do you debug a production incident?", Type: types.QuestionTechnical, Weight: 5},
		{ID: "q3", Text: "Describe a disagreement with a teammate.", Type: types.QuestionSituational, Weight: 2},
	}
}

func TestOpen_UsesModelGreeting(t *testing.T) {
	client := scriptedClient("Hi Ada! Welcome. First up: tell me about a recent project.")
	mgr := New(client, nil, "Ada", testQuestions())

	turn, err := mgr.Open(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Hi Ada! Welcome. First up: tell me about a recent project.", turn.Message)
	assert.Equal(t, "q1", turn.QuestionID)
	assert.False(t, turn.IsFollowUp)
	assert.Equal(t, 15, turn.TokensUsed)

	require.Len(t, client.Requests, 1)
	assert.Equal(t, llm.TierLite, client.Requests[0].Tier)

	state := mgr.State()
	assert.Equal(t, "q1", state.CurrentQuestionID)
	assert.False(t, state.IsFollowUp)
	assert.Len(t, state.ConversationHistory, 1)
	assert.Equal(t, types.RoleAssistant, state.ConversationHistory[0].Role)
}

func TestOpen_FallsBackOnGatewayFailure(t *testing.T) {
	mgr := New(failingClient(), nil, "Ada", testQuestions())

	turn, err := mgr.Open(context.Background())

	require.NoError(t, err)
	assert.Contains(t, turn.Message, "Hi Ada!")
	assert.Contains(t, turn.Message, "Tell me about a recent project.")
	assert.Equal(t, "q1", turn.QuestionID)
	assert.Zero(t, turn.TokensUsed)
}

func TestOpen_EmptyQuestionSet(t *testing.T) {
	mgr := New(scriptedClient("unused"), nil, "Ada", types.QuestionSet{})

	turn, err := mgr.Open(context.Background())

	assert.Nil(t, turn)
	var target *EmptyQuestionSetError
	require.ErrorAs(t, err, &target)
}

func TestSubmitAnswer_AdvancesToNextQuestion(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		advanceDecision("Great. Next: how do you debug a production incident?", "q2"),
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	turn, err := mgr.SubmitAnswer(context.Background(), "I built a scheduling service.")

	require.NoError(t, err)
	assert.Equal(t, "q2", turn.QuestionID)
	assert.False(t, turn.IsFollowUp)

	state := mgr.State()
	assert.Equal(t, "q2", state.CurrentQuestionID)
	assert.Nil(t, state.RemainingQuestions.ByID("q1"), "answered question must leave the queue")
	assert.Equal(t, 2, mgr.RemainingCount())
}

func TestSubmitAnswer_AdvanceDecisionCanPickLaterQuestion(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		advanceDecision("Let's talk about conflict next.", "q3"),
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	turn, err := mgr.SubmitAnswer(context.Background(), "Answer one.")

	require.NoError(t, err)
	assert.Equal(t, "q3", turn.QuestionID)
	assert.Equal(t, "q3", mgr.State().CurrentQuestionID)
}

func TestSubmitAnswer_AdvanceDecisionWithUnknownIDUsesQueueHead(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		advanceDecision("Moving on.", "q999"),
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	turn, err := mgr.SubmitAnswer(context.Background(), "Answer one.")

	require.NoError(t, err)
	assert.Equal(t, "q2", turn.QuestionID)
}

func TestSubmitAnswer_FollowUpKeepsQuestionInPlay(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		followUpDecision("Interesting. What was your specific role?", "q1"),
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	turn, err := mgr.SubmitAnswer(context.Background(), "We built a scheduling service.")

	require.NoError(t, err)
	assert.True(t, turn.IsFollowUp)
	assert.Equal(t, "q1", turn.QuestionID, "echoed id matches the question in play")

	state := mgr.State()
	assert.True(t, state.IsFollowUp)
	assert.Equal(t, "q1", state.CurrentQuestionID)
	// The answered question is already off the queue; a follow-up never
	// re-queues it.
	assert.Nil(t, state.RemainingQuestions.ByID("q1"))
	assert.Equal(t, 2, mgr.RemainingCount())
}

func TestSubmitAnswer_FollowUpWithMismatchedIDReturnsEmpty(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		followUpDecision("Could you expand on that?", "q2"),
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	turn, err := mgr.SubmitAnswer(context.Background(), "Short answer.")

	require.NoError(t, err)
	assert.True(t, turn.IsFollowUp)
	assert.Empty(t, turn.QuestionID)
}

func TestSubmitAnswer_OneFollowUpPerQuestion(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		followUpDecision("Tell me more.", "q1"),
		// The model disobeys the advance instruction; the manager coerces.
		followUpDecision("And more still?", "q1"),
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	_, err = mgr.SubmitAnswer(context.Background(), "First answer.")
	require.NoError(t, err)

	turn, err := mgr.SubmitAnswer(context.Background(), "Follow-up answer.")

	require.NoError(t, err)
	assert.False(t, turn.IsFollowUp)
	assert.Equal(t, "q2", turn.QuestionID)
	assert.Contains(t, turn.Message, fallbackTransition)
	assert.False(t, mgr.State().IsFollowUp)
}

func TestSubmitAnswer_EmptyAnswerRejectedWithoutMutation(t *testing.T) {
	client := scriptedClient("Welcome!")
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)
	before := mgr.State()
	calls := len(client.Requests)

	turn, err := mgr.SubmitAnswer(context.Background(), "   \n\t ")

	assert.Nil(t, turn)
	var target *EmptyAnswerError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, before, mgr.State(), "rejected turn must not mutate state")
	assert.Len(t, client.Requests, calls, "rejected turn must not call the model")
}

func TestSubmitAnswer_CompleteSessionRejected(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		"Thanks, goodbye!",
	)
	mgr := New(client, nil, "Ada", testQuestions()[:1])
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	_, err = mgr.SubmitAnswer(context.Background(), "Only answer.")
	require.NoError(t, err)
	require.True(t, mgr.IsComplete())

	turn, err := mgr.SubmitAnswer(context.Background(), "One more thing...")

	assert.Nil(t, turn)
	var target *SessionCompleteError
	require.ErrorAs(t, err, &target)
}

func TestSubmitAnswer_LastAnswerClosesSession(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		"Thanks so much for your time, Ada. We'll be in touch!",
	)
	mgr := New(client, nil, "Ada", testQuestions()[:1])
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	turn, err := mgr.SubmitAnswer(context.Background(), "My answer.")

	require.NoError(t, err)
	assert.Empty(t, turn.QuestionID)
	assert.False(t, turn.IsFollowUp)
	assert.Contains(t, turn.Message, "Thanks so much")
	assert.True(t, mgr.IsComplete())
	assert.Equal(t, 100, mgr.Progress(1))
	assert.Empty(t, mgr.State().CurrentQuestionID)
}

func TestSession_CompletesUnderTotalGatewayFailure(t *testing.T) {
	client := failingClient()
	questions := testQuestions()
	mgr := New(client, nil, "Ada", questions)

	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	for i := 0; !mgr.IsComplete(); i++ {
		require.Less(t, i, len(questions), "session must terminate")
		turn, err := mgr.SubmitAnswer(context.Background(), fmt.Sprintf("answer %d", i+1))
		require.NoError(t, err)
		require.NotEmpty(t, turn.Message)
		assert.False(t, turn.IsFollowUp, "fallback never follows up")
	}

	assert.Equal(t, 100, mgr.Progress(len(questions)))
	// Opening, one decision per non-final answer, and closing each made
	// exactly one (failed) call.
	assert.Len(t, client.Requests, len(questions)+1)
}

func TestProgress_MonotonicAcrossTurns(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		followUpDecision("Tell me more.", "q1"),
		advanceDecision("Next question.", "q2"),
		advanceDecision("Last question.", "q3"),
		"Goodbye!",
	)
	questions := testQuestions()
	mgr := New(client, nil, "Ada", questions)
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	last := mgr.Progress(len(questions))
	assert.Zero(t, last)

	answers := []string{"a1", "a1-followup", "a2", "a3"}
	for _, answer := range answers {
		_, err := mgr.SubmitAnswer(context.Background(), answer)
		require.NoError(t, err)
		p := mgr.Progress(len(questions))
		assert.GreaterOrEqual(t, p, last, "progress must never decrease")
		last = p
	}
	assert.Equal(t, 100, last)
}

func TestHistory_AppendOnlyPerTurn(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		advanceDecision("Next.", "q2"),
		advanceDecision("Last.", "q3"),
		"Goodbye!",
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	prev := mgr.History()
	for _, answer := range []string{"a1", "a2", "a3"} {
		_, err := mgr.SubmitAnswer(context.Background(), answer)
		require.NoError(t, err)

		history := mgr.History()
		require.Len(t, history, len(prev)+2, "each turn appends the answer and one reply")
		for i := range prev {
			assert.Equal(t, prev[i].Content, history[i].Content, "existing entries are never rewritten")
			assert.Equal(t, prev[i].Role, history[i].Role)
		}
		assert.Equal(t, types.RoleUser, history[len(history)-2].Role)
		assert.Equal(t, types.RoleAssistant, history[len(history)-1].Role)
		prev = history
	}
}

func TestResume_ContinuesFromSnapshot(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		advanceDecision("Next.", "q2"),
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)
	_, err = mgr.SubmitAnswer(context.Background(), "a1")
	require.NoError(t, err)

	snapshot := mgr.State()

	resumed := Resume(scriptedClient(advanceDecision("Last one.", "q3")), nil, "Ada", snapshot)
	assert.Equal(t, "Ada", resumed.CandidateName())
	assert.Equal(t, 2, resumed.RemainingCount())

	turn, err := resumed.SubmitAnswer(context.Background(), "a2")
	require.NoError(t, err)
	assert.Equal(t, "q3", turn.QuestionID)

	// The snapshot is a copy; the resumed manager's turns must not leak back.
	assert.Equal(t, 2, len(snapshot.RemainingQuestions))
}

func TestSubmitAnswer_DecisionUsesStandardTier(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		advanceDecision("Next.", "q2"),
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	_, err = mgr.SubmitAnswer(context.Background(), "a1")
	require.NoError(t, err)

	require.Len(t, client.Requests, 2)
	assert.Equal(t, llm.TierStandard, client.Requests[1].Tier)
	assert.True(t, client.Requests[1].JSONOutput)
}

func TestSubmitAnswer_MalformedDecisionFallsBack(t *testing.T) {
	client := scriptedClient(
		"Welcome!",
		"this is not JSON at all",
	)
	mgr := New(client, nil, "Ada", testQuestions())
	_, err := mgr.Open(context.Background())
	require.NoError(t, err)

	turn, err := mgr.SubmitAnswer(context.Background(), "a1")

	require.NoError(t, err)
	assert.Equal(t, "q2", turn.QuestionID)
	assert.Contains(t, turn.Message, fallbackTransition)
	assert.Contains(t, turn.Message, "How do you debug a production incident?")
}
