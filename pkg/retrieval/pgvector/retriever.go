package pgvector

import (
	"context"

	"smartdraft-be/internal/repository/contract"
	"smartdraft-be/pkg/cache"
	"smartdraft-be/pkg/embedding"
	"smartdraft-be/pkg/retrieval"
)

// Retriever answers similarity queries against the corpus table. Query
// embeddings are memoized through the shared cache so repeated queries skip
// the embedding round-trip entirely.
type Retriever struct {
	embedder   embedding.EmbeddingProvider
	corpusRepo contract.CorpusRepository
	tiers      *cache.MultiTier
}

func NewRetriever(embedder embedding.EmbeddingProvider, corpusRepo contract.CorpusRepository, tiers *cache.MultiTier) retrieval.Retriever {
	return &Retriever{
		embedder:   embedder,
		corpusRepo: corpusRepo,
		tiers:      tiers,
	}
}

func (r *Retriever) Search(ctx context.Context, query string, k int) ([]retrieval.Chunk, error) {
	vector, err := r.queryEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	scored, err := r.corpusRepo.SearchSimilar(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	chunks := make([]retrieval.Chunk, 0, len(scored))
	for _, row := range scored {
		chunks = append(chunks, retrieval.Chunk{
			Text:     row.Chunk.Content,
			SourceId: row.Chunk.SourceId,
			Title:    row.Chunk.Title,
			Score:    clampScore(row.Similarity),
		})
	}
	return chunks, nil
}

func (r *Retriever) queryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if vector, ok := r.tiers.GetEmbedding(query); ok {
		return vector, nil
	}

	vector, err := r.embedder.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	r.tiers.SetEmbedding(query, vector)
	return vector, nil
}

// clampScore bounds cosine similarity to [0, 1]; float drift in the distance
// operator can push it slightly outside.
func clampScore(similarity float64) float64 {
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}
