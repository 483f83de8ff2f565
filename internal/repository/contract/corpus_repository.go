package contract

import (
	"context"

	"smartdraft-be/internal/entity"
)

// ScoredCorpusChunk pairs a chunk with its cosine similarity to a query.
type ScoredCorpusChunk struct {
	Chunk      *entity.CorpusChunk
	Similarity float64
}

type CorpusRepository interface {
	Create(ctx context.Context, chunk *entity.CorpusChunk, embedding []float32) error
	Count(ctx context.Context) (int64, error)
	// SearchSimilar returns the limit most similar chunks, highest similarity
	// first, ties broken by corpus insertion order.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*ScoredCorpusChunk, error)
}
