package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-screener/internal/interview"
	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/logger"
	"github.com/jonathan/interview-screener/internal/observability"
	"github.com/jonathan/interview-screener/internal/scoring"
	"github.com/jonathan/interview-screener/internal/types"
)

var (
	interviewQuestions string
	interviewName      string
	interviewJobTitle  string
	interviewAPIKey    string
	interviewVerbose   bool
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a local interview session in the terminal",
	Long: `Runs a complete screening interview interactively: reads a question set from a
JSON file, drives the conversation turn by turn from stdin, scores each answer,
and prints the overall assessment. Useful for trying out question sets without
a database or HTTP server.`,
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().StringVarP(&interviewQuestions, "questions", "q", "", "Path to question set JSON file (required)")
	interviewCmd.Flags().StringVarP(&interviewName, "name", "n", "Candidate", "Candidate name")
	interviewCmd.Flags().StringVar(&interviewJobTitle, "job-title", "", "Job title for the overall assessment")
	interviewCmd.Flags().StringVar(&interviewAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	interviewCmd.Flags().BoolVarP(&interviewVerbose, "verbose", "v", false, "Print per-answer analyses as the session runs")

	if err := interviewCmd.MarkFlagRequired("questions"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(_ *cobra.Command, _ []string) error {
	apiKey := interviewAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (use --api-key or GEMINI_API_KEY)")
	}

	data, err := os.ReadFile(interviewQuestions)
	if err != nil {
		return fmt.Errorf("failed to read question set: %w", err)
	}
	var set types.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to parse question set: %w", err)
	}

	log, err := logger.New(false, interviewVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey, log)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	mgr := interview.New(client, log, interviewName, set)
	scorer := scoring.NewScorer(client, log)
	printer := observability.NewPrinter(os.Stdout)
	total := len(set)

	turn, err := mgr.Open(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\nInterviewer: %s\n", turn.Message)

	reader := bufio.NewReader(os.Stdin)
	var scored []types.ScoredAnswer

	for !mgr.IsComplete() {
		fmt.Printf("\n%s> ", interviewName)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			fmt.Println("Please enter an answer.")
			continue
		}

		// Snapshot the in-flight question so its final answer can be scored
		// after the turn advances the queue.
		state := mgr.State()
		current := state.RemainingQuestions.ByID(state.CurrentQuestionID)

		turn, err := mgr.SubmitAnswer(ctx, answer)
		if err != nil {
			return err
		}

		if current != nil && mgr.State().RemainingQuestions.ByID(current.ID) == nil {
			result, err := scorer.ScoreAnswer(ctx, *current, answer)
			if err != nil {
				return err
			}
			scored = append(scored, types.ScoredAnswer{
				Question: *current,
				Answer:   answer,
				Analysis: result.Analysis,
			})
			if interviewVerbose {
				printer.PrintAnalysis(current.Text, &result.Analysis)
			}
		}

		fmt.Printf("\nInterviewer: %s\n", turn.Message)
		fmt.Printf("[progress: %d%%]\n", mgr.Progress(total))
	}

	printer.PrintTranscript(interviewName, mgr.History())

	if len(scored) == 0 {
		return nil
	}

	fmt.Printf("\nWeighted score: %.2f/5\n", scoring.WeightedAverage(scored))

	assessment, err := scorer.Aggregate(ctx, interviewName, interviewJobTitle, scored)
	if err != nil {
		return fmt.Errorf("assessment failed: %w", err)
	}
	printer.PrintAssessment(interviewName, &assessment.Assessment)

	return nil
}
