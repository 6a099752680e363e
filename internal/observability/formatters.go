// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuestionSet outputs a human-readable summary of a generated question set.
func (p *Printer) PrintQuestionSet(questions types.QuestionSet) {
	if len(questions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total questions: %d\n\n", len(questions)))

	for i, q := range questions {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, q.Type, q.Text))
		sb.WriteString(fmt.Sprintf("   Weight: %d\n", q.Weight))
		if len(q.ScoringKeywords) > 0 {
			keywords := strings.Join(q.ScoringKeywords, ", ")
			if len(keywords) > 40 {
				keywords = keywords[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("   Keywords: %s\n", keywords))
		}
		if i < len(questions)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("GENERATED QUESTION SET", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs a per-answer evaluation with its sub-scores.
func (p *Printer) PrintAnalysis(questionText string, analysis *types.ResponseAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Question: %s\n", questionText))
	sb.WriteString(fmt.Sprintf("Score:    %.1f/5\n", analysis.Score))
	sb.WriteString(fmt.Sprintf("Relevance: %.1f  Depth: %.1f  Clarity: %.1f\n",
		analysis.RelevanceScore, analysis.DepthScore, analysis.ClarityScore))
	sb.WriteString(fmt.Sprintf("Recommendation: %s\n", analysis.Recommendation))

	if len(analysis.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		count := min(len(analysis.Strengths), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.Strengths[i]))
		}
	}
	if len(analysis.Concerns) > 0 {
		sb.WriteString("\nConcerns:\n")
		count := min(len(analysis.Concerns), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.Concerns[i]))
		}
	}
	if len(analysis.KeywordMatches) > 0 {
		keywords := strings.Join(analysis.KeywordMatches, ", ")
		if len(keywords) > 40 {
			keywords = keywords[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("\nKeywords hit: %s\n", keywords))
	}

	p.printBox("RESPONSE ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAssessment outputs the overall assessment for a completed session.
func (p *Printer) PrintAssessment(candidateName string, assessment *types.OverallAssessment) {
	if assessment == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", candidateName))
	sb.WriteString(fmt.Sprintf("Score:     %.1f/5\n", assessment.OverallScore))
	sb.WriteString(fmt.Sprintf("Recommendation: %s\n", assessment.Recommendation))

	if assessment.Summary != "" {
		sb.WriteString("\n" + assessment.Summary + "\n")
	}

	if len(assessment.KeyStrengths) > 0 {
		sb.WriteString("\nKey Strengths:\n")
		count := min(len(assessment.KeyStrengths), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", assessment.KeyStrengths[i]))
		}
		if len(assessment.KeyStrengths) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(assessment.KeyStrengths)-maxItemsToShow))
		}
	}

	if len(assessment.PotentialConcerns) > 0 {
		sb.WriteString("\nPotential Concerns:\n")
		count := min(len(assessment.PotentialConcerns), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", assessment.PotentialConcerns[i]))
		}
	}

	p.printBox("OVERALL ASSESSMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTranscript outputs the session conversation history.
func (p *Printer) PrintTranscript(candidateName string, history []types.ConversationMessage) {
	if len(history) == 0 {
		return
	}

	var sb strings.Builder
	for i, msg := range history {
		speaker := "Interviewer"
		if msg.Role == types.RoleUser {
			speaker = candidateName
		}
		sb.WriteString(fmt.Sprintf("%s:\n", speaker))
		sb.WriteString(fmt.Sprintf("  %s\n", msg.Content))
		if i < len(history)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TRANSCRIPT", strings.TrimSuffix(sb.String(), "\n"))
}
