package interview

// EmptyQuestionSetError indicates a session was opened with no questions.
// This is a data error on the caller's side, not a runtime condition to
// recover from.
type EmptyQuestionSetError struct{}

func (e *EmptyQuestionSetError) Error() string {
	return "no questions available for interview"
}

// EmptyAnswerError indicates the candidate's answer was empty or
// whitespace-only. Rejected before any state mutation or gateway call.
type EmptyAnswerError struct{}

func (e *EmptyAnswerError) Error() string {
	return "candidate answer cannot be empty"
}

// SessionCompleteError indicates an answer was submitted to a session that
// has already delivered its closing message.
type SessionCompleteError struct{}

func (e *SessionCompleteError) Error() string {
	return "interview session is already complete"
}
