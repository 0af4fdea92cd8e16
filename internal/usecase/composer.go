package usecase

import (
	"context"

	"go.uber.org/zap"

	"policyqa/internal/domain"
	"policyqa/internal/port"
)

const answerTemperature = 0.7

// AnswerComposer builds the final prompt from the verdict and passages and
// generates the answer, guaranteeing a best-effort response while any
// generation path still works.
type AnswerComposer struct {
	llm       port.LLM
	template  string
	maxTokens int
	log       *zap.Logger
}

// NewAnswerComposer creates a composer. An empty template selects the
// built-in one; maxTokens <= 0 leaves the output budget to the provider.
func NewAnswerComposer(llm port.LLM, template string, maxTokens int, log *zap.Logger) *AnswerComposer {
	if template == "" {
		template = defaultAnswerTemplate
	}
	return &AnswerComposer{
		llm:       llm,
		template:  template,
		maxTokens: maxTokens,
		log:       log,
	}
}

// Compose generates the answer text. Passages are folded into the prompt
// only on a positive verdict; otherwise the sentinel context is
// substituted. If the context-aware call fails, one plain fallback call is
// attempted; if that fails too, a *GenerationError is returned.
func (c *AnswerComposer) Compose(ctx context.Context, question string, verdict domain.Verdict, passages []domain.Passage) (string, error) {
	promptContext := sentinelContext
	if verdict.Enhance && len(passages) > 0 {
		promptContext = FormatContext(passages)
		c.log.Info("composing answer with document context", zap.Int("passages", len(passages)))
	} else {
		c.log.Info("composing answer from general knowledge")
	}

	systemPrompt := renderTemplate(c.template, promptContext, question)

	text, err := c.llm.Generate(ctx, systemPrompt, question, port.GenOptions{
		Temperature: answerTemperature,
		MaxTokens:   c.maxTokens,
	})
	if err == nil {
		return text, nil
	}

	c.log.Warn("generation failed, falling back to plain prompt", zap.Error(err))

	text, fallbackErr := c.llm.Generate(ctx, fallbackSystemPrompt, question, port.GenOptions{
		Temperature: answerTemperature,
		MaxTokens:   c.maxTokens,
	})
	if fallbackErr != nil {
		return "", &GenerationError{Primary: err, Fallback: fallbackErr}
	}
	return text, nil
}
