package cli

import (
	"fmt"
	"os"
	"time"

	"policyqa/config"
	"policyqa/internal/adapter/embedding"
	"policyqa/internal/adapter/llm"
	"policyqa/internal/adapter/retriever"
	"policyqa/internal/adapter/store"
	"policyqa/internal/port"
	"policyqa/internal/usecase"
)

// stack bundles everything the serve and ask commands need.
type stack struct {
	store    *store.BoltStore
	llm      port.LLM
	pipeline *usecase.Pipeline
}

func (s *stack) Close() error {
	return s.store.Close()
}

// buildStack opens the index and wires the full answering pipeline from
// config: store, embedder, retriever, relevance gate, composer.
func buildStack(cfg *config.Config) (*stack, error) {
	if _, err := os.Stat(cfg.Index.DBPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no index found at %s. Run 'policyqa index' first", cfg.Index.DBPath)
	}

	st, err := store.NewBoltStore(cfg.Index.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	vectorStore, err := store.NewBoltVectorStore(st.DB(), cfg.Embedding.Dimension)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	embedder, err := embedding.NewOpenAIEmbedder(
		cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL,
		cfg.Embedding.Dimension, cfg.Embedding.BatchSize)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	client, err := llm.NewOpenAIClient(
		cfg.LLM.APIKeyEnv, cfg.LLM.Model, cfg.LLM.BaseURL,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	semantic := retriever.NewSemanticRetriever(embedder, vectorStore, st)
	gate := usecase.NewRelevanceGate(client, logger)
	composer := usecase.NewAnswerComposer(client, cfg.Answer.PromptTemplate, cfg.LLM.MaxTokens, logger)
	pipeline := usecase.NewPipeline(semantic, gate, composer, cfg.Retrieve.TopK, logger)

	return &stack{store: st, llm: client, pipeline: pipeline}, nil
}
