package scoring

import "strings"

// MatchKeywords returns the subset of a question's scoring keywords found in
// the answer, case-insensitively, preserving keyword order. Keyword matches
// are weak lexical signals that corroborate model-based scoring; they are
// computed here rather than trusted from the model so the result is always a
// true subset of the question's keywords.
func MatchKeywords(answerText string, keywords []string) []string {
	matches := []string{}
	lowered := strings.ToLower(answerText)
	seen := make(map[string]bool)

	for _, keyword := range keywords {
		trimmed := strings.TrimSpace(keyword)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		if strings.Contains(lowered, key) {
			matches = append(matches, trimmed)
			seen[key] = true
		}
	}

	return matches
}
