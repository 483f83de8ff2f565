package cache

import (
	"strings"
	"sync"
	"time"

	"smartdraft-be/internal/entity"
	"smartdraft-be/pkg/retrieval"
)

// TierConfig is the per-tier knob set: entry bound plus expiry.
type TierConfig struct {
	MaxEntries int
	TTL        time.Duration
}

// ResultKey identifies one retrieval result set.
type ResultKey struct {
	Query      string
	ChunkCount int
}

// MultiTier holds the three process-wide caches of the generation core:
// query embeddings, ranked retrieval results, and in-memory session documents.
// The embedding and result tiers share one invalidation domain: Clear purges
// all tiers under the write lock, so a concurrent lookup either sees every
// tier populated or every tier empty, never a partially cleared state.
type MultiTier struct {
	mu         sync.RWMutex
	embeddings *LRU[string, []float32]
	results    *LRU[ResultKey, []retrieval.Chunk]
	sessions   *LRU[string, *entity.Document]
}

func NewMultiTier(embeddings, results, sessions TierConfig) *MultiTier {
	return &MultiTier{
		embeddings: NewLRU[string, []float32](embeddings.MaxEntries, embeddings.TTL),
		results:    NewLRU[ResultKey, []retrieval.Chunk](results.MaxEntries, results.TTL),
		sessions:   NewLRU[string, *entity.Document](sessions.MaxEntries, sessions.TTL),
	}
}

// NormalizeQuery canonicalizes a query for cache keying: lowercased with
// whitespace runs collapsed, so trivially different spellings share an entry.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func (m *MultiTier) GetEmbedding(query string) ([]float32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.embeddings.Get(NormalizeQuery(query))
}

func (m *MultiTier) SetEmbedding(query string, vec []float32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.embeddings.Set(NormalizeQuery(query), vec)
}

func (m *MultiTier) GetResults(query string, chunkCount int) ([]retrieval.Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.results.Get(ResultKey{Query: NormalizeQuery(query), ChunkCount: chunkCount})
}

func (m *MultiTier) SetResults(query string, chunkCount int, chunks []retrieval.Chunk) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.results.Set(ResultKey{Query: NormalizeQuery(query), ChunkCount: chunkCount}, chunks)
}

// GetSession returns a private copy of the cached document. The session tier
// never hands out its stored pointer: callers mutate their copy freely and
// publish it back through SetSession, so readers on other goroutines cannot
// observe a half-applied edit.
func (m *MultiTier) GetSession(sessionId string) (*entity.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.sessions.Get(sessionId)
	if !ok {
		return nil, false
	}
	return doc.Clone(), true
}

// SetSession stores a copy of doc, detaching the tier from whatever the
// caller does with its pointer afterwards.
func (m *MultiTier) SetSession(doc *entity.Document) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.sessions.Set(doc.SessionId, doc.Clone())
}

func (m *MultiTier) DeleteSession(sessionId string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.sessions.Delete(sessionId)
}

// Clear empties every tier in one logical action.
func (m *MultiTier) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeddings.Purge()
	m.results.Purge()
	m.sessions.Purge()
}

// Stats reports per-tier entry counts for the status endpoint.
func (m *MultiTier) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]int{
		"embeddings": m.embeddings.Len(),
		"results":    m.results.Len(),
		"sessions":   m.sessions.Len(),
	}
}
