package retrieval

import "context"

// Chunk is one ranked piece of corpus content returned for a query.
// Score is a cosine-similarity-like value in [0,1]; sequences are ordered
// highest score first with ties kept in corpus order.
type Chunk struct {
	Text     string  `json:"text"`
	SourceId string  `json:"source_id"`
	Title    string  `json:"title,omitempty"`
	Score    float64 `json:"score"`
}

// Retriever is the narrow capability the orchestration core consumes for
// semantic search. Implementations fail with errs.KindRetrievalUnavailable
// when the underlying index cannot be reached.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]Chunk, error)
}
