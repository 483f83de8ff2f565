package pgvector

import (
	"context"
	"testing"

	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/repository/contract"
	"smartdraft-be/pkg/cache"
)

type fakeEmbedder struct {
	calls  int
	vector []float32
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vector, nil
}

type fakeCorpusRepo struct {
	rows []*contract.ScoredCorpusChunk
}

func (f *fakeCorpusRepo) Create(ctx context.Context, chunk *entity.CorpusChunk, embedding []float32) error {
	return nil
}

func (f *fakeCorpusRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeCorpusRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredCorpusChunk, error) {
	if len(f.rows) > limit {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func newTiers() *cache.MultiTier {
	cfg := cache.TierConfig{MaxEntries: 16}
	return cache.NewMultiTier(cfg, cfg, cfg)
}

func TestSearchMapsScoredChunks(t *testing.T) {
	repo := &fakeCorpusRepo{rows: []*contract.ScoredCorpusChunk{
		{Chunk: &entity.CorpusChunk{Content: "text one", SourceId: "src", Title: "Title"}, Similarity: 0.9},
		{Chunk: &entity.CorpusChunk{Content: "text two", SourceId: "src", Title: "Title"}, Similarity: 0.7},
	}}
	r := NewRetriever(&fakeEmbedder{vector: []float32{1, 0}}, repo, newTiers())

	chunks, err := r.Search(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].Text != "text one" || chunks[0].Score != 0.9 {
		t.Errorf("chunk[0] = %+v", chunks[0])
	}
	if chunks[0].Title != "Title" || chunks[0].SourceId != "src" {
		t.Errorf("chunk[0] provenance = %+v", chunks[0])
	}
}

func TestSearchClampsScores(t *testing.T) {
	repo := &fakeCorpusRepo{rows: []*contract.ScoredCorpusChunk{
		{Chunk: &entity.CorpusChunk{Content: "a"}, Similarity: 1.0000002},
		{Chunk: &entity.CorpusChunk{Content: "b"}, Similarity: -0.0000003},
	}}
	r := NewRetriever(&fakeEmbedder{vector: []float32{1}}, repo, newTiers())

	chunks, err := r.Search(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks[0].Score != 1 {
		t.Errorf("score above 1 not clamped: %v", chunks[0].Score)
	}
	if chunks[1].Score != 0 {
		t.Errorf("score below 0 not clamped: %v", chunks[1].Score)
	}
}

func TestRepeatedQuerySkipsEmbedding(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	repo := &fakeCorpusRepo{rows: []*contract.ScoredCorpusChunk{
		{Chunk: &entity.CorpusChunk{Content: "a"}, Similarity: 0.5},
	}}
	r := NewRetriever(embedder, repo, newTiers())

	for i := 0; i < 3; i++ {
		if _, err := r.Search(context.Background(), "Same  Query", 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Case/whitespace variant shares the cached embedding too.
	if _, err := r.Search(context.Background(), "same query", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if embedder.calls != 1 {
		t.Errorf("embedder called %d times, want 1", embedder.calls)
	}
}
