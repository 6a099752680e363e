package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-screener/internal/db"
	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/logger"
	"github.com/jonathan/interview-screener/internal/observability"
	"github.com/jonathan/interview-screener/internal/questions"
)

var (
	genJobTitle        string
	genIndustry        string
	genExperienceLevel string
	genDepartment      string
	genDescriptionFile string
	genRequirements    []string
	genCount           int
	genJobID           string
	genOutput          string
	genAPIKey          string
	genVerbose         bool
)

var generateQuestionsCmd = &cobra.Command{
	Use:   "generate-questions",
	Short: "Generate an interview question set for a job",
	Long: `Generates a tailored interview question set from a job description using the model,
optionally persisting it for the given job ID or writing it to a JSON file.`,
	RunE: runGenerateQuestions,
}

func init() {
	generateQuestionsCmd.Flags().StringVar(&genJobTitle, "job-title", "", "Job title (required)")
	generateQuestionsCmd.Flags().StringVar(&genIndustry, "industry", "", "Industry the role is in")
	generateQuestionsCmd.Flags().StringVar(&genExperienceLevel, "experience-level", "", "Experience level (e.g. junior, senior)")
	generateQuestionsCmd.Flags().StringVar(&genDepartment, "department", "", "Department the role belongs to")
	generateQuestionsCmd.Flags().StringVarP(&genDescriptionFile, "description", "d", "", "Path to job description text file")
	generateQuestionsCmd.Flags().StringSliceVar(&genRequirements, "requirement", nil, "Job requirement (repeatable)")
	generateQuestionsCmd.Flags().IntVar(&genCount, "count", questions.DefaultCount, "Number of questions to generate")
	generateQuestionsCmd.Flags().StringVar(&genJobID, "job-id", "", "Job UUID to persist the set for (requires DATABASE_URL)")
	generateQuestionsCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Path to write the question set JSON to")
	generateQuestionsCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	generateQuestionsCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := generateQuestionsCmd.MarkFlagRequired("job-title"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(generateQuestionsCmd)
}

func runGenerateQuestions(_ *cobra.Command, _ []string) error {
	apiKey := genAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (use --api-key or GEMINI_API_KEY)")
	}

	log, err := logger.New(false, genVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	description := ""
	if genDescriptionFile != "" {
		data, err := os.ReadFile(genDescriptionFile)
		if err != nil {
			return fmt.Errorf("failed to read description file: %w", err)
		}
		description = string(data)
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey, log)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	result, err := questions.Generate(ctx, client, log, questions.JobContext{
		JobTitle:        genJobTitle,
		Industry:        genIndustry,
		ExperienceLevel: genExperienceLevel,
		Department:      genDepartment,
		Description:     description,
		Requirements:    genRequirements,
	}, genCount)
	if err != nil {
		return fmt.Errorf("question generation failed: %w", err)
	}

	if genVerbose {
		observability.NewPrinter(os.Stdout).PrintQuestionSet(result.Questions)
	}

	if genJobID != "" {
		jobID, err := uuid.Parse(genJobID)
		if err != nil {
			return fmt.Errorf("invalid job ID: %w", err)
		}
		databaseURL := os.Getenv("DATABASE_URL")
		if databaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required with --job-id")
		}
		database, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.SaveQuestionSet(ctx, jobID, result.Questions); err != nil {
			return err
		}
		fmt.Printf("Saved %d questions for job %s\n", len(result.Questions), jobID)
	}

	if genOutput != "" {
		data, err := json.MarshalIndent(result.Questions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal questions: %w", err)
		}
		if err := os.WriteFile(genOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Wrote question set to %s\n", genOutput)
	}

	if genJobID == "" && genOutput == "" && !genVerbose {
		observability.NewPrinter(os.Stdout).PrintQuestionSet(result.Questions)
	}

	return nil
}
