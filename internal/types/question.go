// Package types defines the shared data structures for interview sessions:
// questions, conversation transcripts, and scoring results.
package types

// QuestionType categorizes an interview question
type QuestionType string

// Question type constants
const (
	QuestionBehavioral  QuestionType = "behavioral"
	QuestionTechnical   QuestionType = "technical"
	QuestionScenario    QuestionType = "scenario"
	QuestionSituational QuestionType = "situational"
	QuestionGeneral     QuestionType = "general"
)

// Valid reports whether t is one of the known question types
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionBehavioral, QuestionTechnical, QuestionScenario, QuestionSituational, QuestionGeneral:
		return true
	}
	return false
}

// Question is one interview prompt. Questions are produced in bulk by the
// question generator before a session starts and are immutable for the
// lifetime of the session.
type Question struct {
	ID              string       `json:"id"`
	Text            string       `json:"text"`
	Type            QuestionType `json:"type"`
	LookingFor      []string     `json:"lookingFor"`      // qualitative signals graders should find
	FollowUp        string       `json:"followUp"`        // default follow-up hint, used as fallback text
	ScoringKeywords []string     `json:"scoringKeywords"` // weak lexical signals for scoring
	Weight          int          `json:"weight"`          // 1-5, relative importance in aggregate scoring
}

// QuestionSet is an ordered, immutable-per-session list of interview questions.
type QuestionSet []Question

// ByID returns the question with the given id, or nil if not present
func (qs QuestionSet) ByID(id string) *Question {
	for i := range qs {
		if qs[i].ID == id {
			return &qs[i]
		}
	}
	return nil
}

// IDs returns the question ids in order
func (qs QuestionSet) IDs() []string {
	ids := make([]string, len(qs))
	for i := range qs {
		ids[i] = qs[i].ID
	}
	return ids
}
