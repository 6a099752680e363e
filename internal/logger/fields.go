package logger

import (
	"time"

	"go.uber.org/zap"
)

// Structured log field keys for model call accounting.
const (
	FieldModel        = "model"
	FieldInputTokens  = "input_tokens"
	FieldOutputTokens = "output_tokens"
	FieldLatency      = "latency_ms"
)

// ModelCallFields returns the standard fields logged for every model call:
// model name, token usage, and elapsed latency.
func ModelCallFields(model string, inputTokens, outputTokens int32, latency time.Duration) []zap.Field {
	return []zap.Field{
		zap.String(FieldModel, model),
		zap.Int32(FieldInputTokens, inputTokens),
		zap.Int32(FieldOutputTokens, outputTokens),
		zap.Int64(FieldLatency, latency.Milliseconds()),
	}
}
