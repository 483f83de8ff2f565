package implementation

import (
	"context"

	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/mapper"
	"smartdraft-be/internal/model"
	"smartdraft-be/internal/repository/contract"
	"smartdraft-be/pkg/errs"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CorpusRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CorpusMapper
}

func NewCorpusRepository(db *gorm.DB) contract.CorpusRepository {
	return &CorpusRepositoryImpl{
		db:     db,
		mapper: mapper.NewCorpusMapper(),
	}
}

func (r *CorpusRepositoryImpl) Create(ctx context.Context, chunk *entity.CorpusChunk, embedding []float32) error {
	m := &model.CorpusChunk{
		Id:         chunk.Id,
		SourceId:   chunk.SourceId,
		Title:      chunk.Title,
		Content:    chunk.Content,
		ChunkIndex: chunk.ChunkIndex,
		Embedding:  pgvector.NewVector(embedding),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return errs.Wrap(errs.KindIO, "failed to store corpus chunk", err)
	}
	chunk.Id = m.Id
	chunk.CreatedAt = m.CreatedAt
	return nil
}

func (r *CorpusRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.CorpusChunk{}).Count(&count).Error; err != nil {
		return 0, errs.Wrap(errs.KindIO, "failed to count corpus chunks", err)
	}
	return count, nil
}

// scoredChunkRow carries the similarity computed in SQL alongside the model.
type scoredChunkRow struct {
	model.CorpusChunk
	Similarity float64
}

func (r *CorpusRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredCorpusChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	queryVector := pgvector.NewVector(embedding)

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> q) recovers the similarity score.
	// Secondary ordering keeps ties stable in corpus order.
	var rows []scoredChunkRow
	err := r.db.WithContext(ctx).
		Model(&model.CorpusChunk{}).
		Select("corpus_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Order("source_id ASC, chunk_index ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errs.Wrap(errs.KindRetrievalUnavailable, "similarity search failed", err)
	}

	scored := make([]*contract.ScoredCorpusChunk, len(rows))
	for i, row := range rows {
		chunk := row.CorpusChunk
		scored[i] = &contract.ScoredCorpusChunk{
			Chunk:      r.mapper.ToEntity(&chunk),
			Similarity: row.Similarity,
		}
	}
	return scored, nil
}
