package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-screener/internal/config"
	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/logger"
	"github.com/jonathan/interview-screener/internal/server"
)

var (
	serveConfigPath    string
	servePort          int
	serveRequireInvite bool
	serveVerbose       bool
	serveJSONLogs      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for question generation, interview sessions, and assessments.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveRequireInvite, "require-invite", false, "Reject answer submissions without a valid invite token")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "Emit logs as JSON instead of console format")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = *loaded
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		Port:        servePort,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
	})
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	inviteSecret := cfg.InviteSecret
	inviteTTLHours := cfg.InviteTTLHours
	if inviteSecret == "" {
		inviteCfg, err := config.NewInviteConfig()
		if err != nil {
			return err
		}
		inviteSecret = inviteCfg.Secret
		if inviteTTLHours == 0 {
			inviteTTLHours = inviteCfg.ExpirationHours
		}
	}

	log, err := logger.New(cfg.JSONLogs || serveJSONLogs, cfg.Verbose || serveVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(context.Background(), server.Config{
		Port:           cfg.Port,
		DatabaseURL:    cfg.DatabaseURL,
		APIKey:         cfg.APIKey,
		InviteSecret:   inviteSecret,
		InviteTTLHours: inviteTTLHours,
		LLM:            llmConfigFrom(cfg),
		RequireInvite:  cfg.RequireInvite || serveRequireInvite,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// llmConfigFrom builds the model configuration, applying per-tier overrides
// from the loaded config file.
func llmConfigFrom(cfg config.Config) *llm.Config {
	out := llm.DefaultConfig()
	if cfg.ModelLite != "" {
		out.Models[llm.TierLite] = cfg.ModelLite
	}
	if cfg.ModelStandard != "" {
		out.Models[llm.TierStandard] = cfg.ModelStandard
	}
	if cfg.ModelAdvanced != "" {
		out.Models[llm.TierAdvanced] = cfg.ModelAdvanced
	}
	if cfg.TimeoutSeconds > 0 {
		out.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return out
}
