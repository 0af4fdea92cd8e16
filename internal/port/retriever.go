package port

import (
	"context"

	"policyqa/internal/domain"
)

// PassageRetriever finds the k passages most similar to a query.
// Implementations may return fewer than k results.
type PassageRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.Passage, error)
}
