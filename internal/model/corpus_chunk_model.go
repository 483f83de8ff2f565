package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type CorpusChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceId   string          `gorm:"type:text;not null;index"`
	Title      string          `gorm:"type:text"`
	Content    string          `gorm:"type:text;not null"`
	ChunkIndex int             `gorm:"default:0"` // 0-based position within the source
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimension
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (CorpusChunk) TableName() string {
	return "corpus_chunks"
}
