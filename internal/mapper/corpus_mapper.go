package mapper

import (
	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/model"
)

type CorpusMapper struct{}

func NewCorpusMapper() *CorpusMapper {
	return &CorpusMapper{}
}

func (m *CorpusMapper) ToEntity(md *model.CorpusChunk) *entity.CorpusChunk {
	return &entity.CorpusChunk{
		Id:         md.Id,
		SourceId:   md.SourceId,
		Title:      md.Title,
		Content:    md.Content,
		ChunkIndex: md.ChunkIndex,
		CreatedAt:  md.CreatedAt,
	}
}
