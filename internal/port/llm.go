package port

import "context"

// GenOptions are per-call generation parameters.
type GenOptions struct {
	Temperature float64
	MaxTokens   int
}

// LLM represents a language model for text generation.
type LLM interface {
	// Generate produces text from a system prompt and a user prompt.
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenOptions) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
