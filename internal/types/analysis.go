package types

// Recommendation is the per-answer verdict produced by the response scorer
type Recommendation string

// Per-answer recommendation constants
const (
	RecommendStrongPass Recommendation = "strong_pass"
	RecommendPass       Recommendation = "pass"
	RecommendNeutral    Recommendation = "neutral"
	RecommendConcern    Recommendation = "concern"
	RecommendReject     Recommendation = "reject"
)

// Valid reports whether r is one of the known per-answer recommendations
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendStrongPass, RecommendPass, RecommendNeutral, RecommendConcern, RecommendReject:
		return true
	}
	return false
}

// ResponseAnalysis is the scoring result for one fully-answered question.
// All score fields are on a 0-5 scale and are clamped at the boundary
// regardless of what the model returns. Produced once per answered question;
// immutable thereafter.
type ResponseAnalysis struct {
	Score             float64        `json:"score"`
	Strengths         []string       `json:"strengths"`
	Concerns          []string       `json:"concerns"`
	RedFlags          []string       `json:"redFlags"`
	SuggestedFollowUp string         `json:"suggestedFollowUp,omitempty"`
	KeywordMatches    []string       `json:"keywordMatches"` // subset of the question's scoringKeywords
	RelevanceScore    float64        `json:"relevanceScore"`
	DepthScore        float64        `json:"depthScore"`
	ClarityScore      float64        `json:"clarityScore"`
	Recommendation    Recommendation `json:"recommendation"`
}

// OverallRecommendation is the session-level verdict in an overall assessment
type OverallRecommendation string

// Session-level recommendation constants
const (
	OverallHighlyRecommended OverallRecommendation = "highly_recommended"
	OverallRecommended       OverallRecommendation = "recommended"
	OverallConsider          OverallRecommendation = "consider"
	OverallNotRecommended    OverallRecommendation = "not_recommended"
)

// Valid reports whether r is one of the known session-level recommendations
func (r OverallRecommendation) Valid() bool {
	switch r {
	case OverallHighlyRecommended, OverallRecommended, OverallConsider, OverallNotRecommended:
		return true
	}
	return false
}

// OverallAssessment is the aggregate summary across all answered questions in
// a session. Computed on demand after completion; not part of the persisted
// conversation state.
type OverallAssessment struct {
	OverallScore      float64               `json:"overallScore"` // 0-5, clamped
	Summary           string                `json:"summary"`
	KeyStrengths      []string              `json:"keyStrengths"`
	PotentialConcerns []string              `json:"potentialConcerns"`
	Recommendation    OverallRecommendation `json:"recommendation"`
}

// ScoredAnswer pairs a question with the candidate's answer and its analysis,
// as fed into the aggregate assessment.
type ScoredAnswer struct {
	Question Question         `json:"question"`
	Answer   string           `json:"answer"`
	Analysis ResponseAnalysis `json:"analysis"`
}
