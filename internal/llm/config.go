// Package llm provides the structured-generation gateway to the language
// model provider. Callers hand it role-tagged messages and get back either
// free text or schema-validated JSON, plus token-usage accounting and
// latency. It issues no retries and performs no persistence.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: greetings, transitions, closings
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: turn decisions, scoring
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: question generation, aggregation
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultTimeout bounds a single gateway call. A timed-out call is treated
// exactly like any other provider failure.
const DefaultTimeout = 30 * time.Second

// Config holds the model configuration for the gateway
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	Timeout  time.Duration
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Timeout: DefaultTimeout,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// GetTimeout returns the per-call timeout, defaulting when unset
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}
