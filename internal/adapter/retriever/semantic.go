package retriever

import (
	"context"
	"fmt"

	"policyqa/internal/adapter/store"
	"policyqa/internal/domain"
	"policyqa/internal/port"
)

// SemanticRetriever embeds the query and searches the vector store,
// resolving hits back to passage text.
type SemanticRetriever struct {
	embedder    port.Embedder
	vectorStore port.VectorStore
	chunkStore  *store.BoltStore
}

func NewSemanticRetriever(
	embedder port.Embedder,
	vectorStore port.VectorStore,
	chunkStore *store.BoltStore,
) *SemanticRetriever {
	return &SemanticRetriever{
		embedder:    embedder,
		vectorStore: vectorStore,
		chunkStore:  chunkStore,
	}
}

func (r *SemanticRetriever) Retrieve(ctx context.Context, query string, k int) ([]domain.Passage, error) {
	if r.embedder == nil || r.vectorStore == nil {
		return nil, fmt.Errorf("semantic search not available: embeddings not configured")
	}

	embeddings, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	results, err := r.vectorStore.Search(embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	passages := make([]domain.Passage, 0, len(results))
	for _, result := range results {
		chunk, err := r.chunkStore.GetChunk(result.ID)
		if err != nil {
			continue
		}
		passages = append(passages, domain.Passage{
			Text: chunk.Text,
			Rank: len(passages) + 1,
		})
	}

	return passages, nil
}
