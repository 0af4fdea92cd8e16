package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"policyqa/internal/port"
)

// DefaultTopK is the number of passages retrieved per question.
const DefaultTopK = 4

// Pipeline is the end-to-end answering operation: retrieve, assess
// relevance, compose. It holds no per-call state and is safe for
// concurrent use as long as its collaborators are.
type Pipeline struct {
	retriever port.PassageRetriever
	gate      *RelevanceGate
	composer  *AnswerComposer
	topK      int
	log       *zap.Logger
}

func NewPipeline(retriever port.PassageRetriever, gate *RelevanceGate, composer *AnswerComposer, topK int, log *zap.Logger) *Pipeline {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Pipeline{
		retriever: retriever,
		gate:      gate,
		composer:  composer,
		topK:      topK,
		log:       log,
	}
}

// Answer processes one question. A blank question fails fast with
// ErrInvalidInput before any collaborator call. Retrieval failures are
// absorbed as "no passages": the pipeline degrades toward answering with
// less information rather than failing.
func (p *Pipeline) Answer(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question must not be empty", ErrInvalidInput)
	}

	passages, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		p.log.Warn("retrieval failed, continuing without passages", zap.Error(err))
		passages = nil
	}

	verdict := p.gate.Assess(ctx, question, passages)

	return p.composer.Compose(ctx, question, verdict, passages)
}
