package contract

import (
	"context"

	"smartdraft-be/internal/entity"
)

// SessionStore is the durable byte-oriented persistence behind editing
// sessions. Put is a last-writer-wins upsert keyed by session id; there is no
// merge of concurrent partial edits because the orchestrator already
// serializes writes per session.
type SessionStore interface {
	// Get returns errs.KindSessionNotFound when no document exists for the id.
	Get(ctx context.Context, sessionId string) (*entity.Document, error)
	Put(ctx context.Context, doc *entity.Document) error
	// List returns session summaries ordered by updated_at descending.
	List(ctx context.Context) ([]entity.SessionSummary, error)
}
