package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"policyqa/internal/domain"
	"policyqa/internal/port"
)

const (
	enhanceToken   = "ENHANCE"
	noEnhanceToken = "NO_ENHANCEMENT"

	judgeTemperature = 0.2
	judgeMaxTokens   = 50
)

// RelevanceGate decides whether retrieved passages would improve an answer
// about the policy domain, or whether the model should answer from general
// knowledge alone.
type RelevanceGate struct {
	llm port.LLM
	log *zap.Logger
}

func NewRelevanceGate(llm port.LLM, log *zap.Logger) *RelevanceGate {
	return &RelevanceGate{llm: llm, log: log}
}

// Assess issues at most one judge call. With no passages it returns a
// negative verdict immediately; on judge failure it fails closed. Errors
// never propagate: a missing enhancement degrades quality, it does not
// break the answer.
func (g *RelevanceGate) Assess(ctx context.Context, question string, passages []domain.Passage) domain.Verdict {
	if len(passages) == 0 {
		return domain.Verdict{}
	}

	prompt := judgeSystemPrompt(question, FormatContext(passages))

	raw, err := g.llm.Generate(ctx, prompt, judgeUserPrompt, port.GenOptions{
		Temperature: judgeTemperature,
		MaxTokens:   judgeMaxTokens,
	})
	if err != nil {
		g.log.Warn("relevance check failed, answering without document context", zap.Error(err))
		return domain.Verdict{}
	}

	verdict := domain.Verdict{
		Enhance:   parseVerdict(raw),
		Rationale: strings.TrimSpace(raw),
	}
	g.log.Info("relevance verdict",
		zap.Bool("enhance", verdict.Enhance),
		zap.Int("passages", len(passages)))
	return verdict
}

// parseVerdict treats the judge text as enhancing only if it contains the
// positive token and not the negative one. NO_ENHANCEMENT contains ENHANCE
// as a substring, so the negative label has to be ruled out explicitly.
func parseVerdict(raw string) bool {
	upper := strings.ToUpper(raw)
	return strings.Contains(upper, enhanceToken) && !strings.Contains(upper, noEnhanceToken)
}
