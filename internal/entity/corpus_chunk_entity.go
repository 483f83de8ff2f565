package entity

import (
	"time"

	"github.com/google/uuid"
)

// CorpusChunk is one indexed piece of the reference corpus.
type CorpusChunk struct {
	Id         uuid.UUID
	SourceId   string
	Title      string
	Content    string
	ChunkIndex int
	CreatedAt  time.Time
}
