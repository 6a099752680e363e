package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jonathan/interview-screener/internal/logger"
)

// Role tags the author of a gateway message
type Role string

// Message roles understood by the gateway
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry in a generation request
type Message struct {
	Role    Role
	Content string
}

// Request describes one structured-generation call
type Request struct {
	System      string    // system instructions
	Messages    []Message // conversation so far; the last entry is the live turn
	Tier        ModelTier
	JSONOutput  bool // request application/json output
	MaxTokens   int32
	Temperature float32
}

// Result carries the model's output plus usage accounting
type Result struct {
	Text         string
	InputTokens  int32
	OutputTokens int32
	Latency      time.Duration
}

// TokensUsed returns the combined input and output token count
func (r *Result) TokensUsed() int {
	return int(r.InputTokens) + int(r.OutputTokens)
}

// Client is an abstraction over LLM providers
type Client interface {
	// Generate issues a single generation call and returns the raw output
	Generate(ctx context.Context, req Request) (*Result, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey, log)
	default:
		return NewGeminiClient(ctx, config, apiKey, log)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
	log    *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
		log:    logger.OrNop(log),
	}, nil
}

// Generate issues a single generation call. The request's message history is
// replayed as chat history with the final message as the live turn. Every
// call is bounded by the configured timeout.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Result, error) {
	if len(req.Messages) == 0 {
		return nil, &CallError{Message: "request has no messages"}
	}

	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return nil, &CallError{Message: fmt.Sprintf("no model configured for tier %s", req.Tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if req.JSONOutput {
		model.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	cs := model.StartChat()
	for _, msg := range req.Messages[:len(req.Messages)-1] {
		cs.History = append(cs.History, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	last := req.Messages[len(req.Messages)-1]

	callCtx, cancel := context.WithTimeout(ctx, c.config.GetTimeout())
	defer cancel()

	start := time.Now()
	resp, err := cs.SendMessage(callCtx, genai.Text(last.Content))
	latency := time.Since(start)
	if err != nil {
		c.log.Warn("model call failed",
			zap.String(logger.FieldModel, modelName),
			zap.Int64(logger.FieldLatency, latency.Milliseconds()),
			zap.Error(err))
		return nil, &CallError{Message: "generation request failed", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &CallError{Message: "empty response", Cause: err}
	}

	result := &Result{
		Text:    text,
		Latency: latency,
	}
	if resp.UsageMetadata != nil {
		result.InputTokens = resp.UsageMetadata.PromptTokenCount
		result.OutputTokens = resp.UsageMetadata.CandidatesTokenCount
	}

	c.log.Debug("model call completed",
		logger.ModelCallFields(modelName, result.InputTokens, result.OutputTokens, latency)...)

	return result, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// geminiRole maps gateway roles onto the provider's role names
func geminiRole(r Role) string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
