package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/repository/contract"
	"smartdraft-be/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	documentKeyPrefix = "smartdraft:session:"
	sessionIndexKey   = "smartdraft:sessions"
)

// SessionStore is the Redis-backed variant of the durable session store, for
// deployments without Postgres. Documents live as JSON values; a sorted set
// scored by update time provides the recency-ordered listing.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) contract.SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Get(ctx context.Context, sessionId string) (*entity.Document, error) {
	data, err := s.rdb.Get(ctx, documentKeyPrefix+sessionId).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errs.New(errs.KindSessionNotFound, "session not found")
		}
		return nil, errs.Wrap(errs.KindIO, "failed to read session", err)
	}

	var doc storedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.KindIO, "corrupt session record", err)
	}
	return doc.toEntity(), nil
}

func (s *SessionStore) Put(ctx context.Context, doc *entity.Document) error {
	record := fromEntity(doc)
	data, err := json.Marshal(record)
	if err != nil {
		return errs.Wrap(errs.KindIO, "failed to encode session", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, documentKeyPrefix+doc.SessionId, data, 0)
	pipe.ZAdd(ctx, sessionIndexKey, redis.Z{
		Score:  float64(record.UpdatedAt.UnixMilli()),
		Member: doc.SessionId,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.Wrap(errs.KindIO, "failed to persist session", err)
	}
	return nil
}

func (s *SessionStore) List(ctx context.Context) ([]entity.SessionSummary, error) {
	ids, err := s.rdb.ZRevRange(ctx, sessionIndexKey, 0, -1).Result()
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, "failed to list sessions", err)
	}

	summaries := make([]entity.SessionSummary, 0, len(ids))
	for _, id := range ids {
		data, err := s.rdb.Get(ctx, documentKeyPrefix+id).Bytes()
		if err != nil {
			// index entry without a document: skip, do not fail the listing
			continue
		}
		var doc storedDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			continue
		}
		summaries = append(summaries, entity.SessionSummary{
			SessionId:  doc.SessionId,
			UserPrompt: doc.UserPrompt,
			ModelId:    doc.ModelId,
			UpdatedAt:  doc.UpdatedAt,
		})
	}
	return summaries, nil
}

// storedDocument is the wire form of a persisted document.
type storedDocument struct {
	SessionId             string    `json:"session_id"`
	UserPrompt            string    `json:"user_prompt"`
	ModelId               string    `json:"model_id"`
	ChunksUsed            int       `json:"chunks_used"`
	Summary               string    `json:"summary"`
	Insights              []string  `json:"insights"`
	Conclusion            string    `json:"conclusion"`
	FormattedText         string    `json:"formatted_text"`
	GenerationTimeSeconds float64   `json:"generation_time_seconds"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func fromEntity(doc *entity.Document) storedDocument {
	record := storedDocument{
		SessionId:             doc.SessionId,
		UserPrompt:            doc.UserPrompt,
		ModelId:               doc.ModelId,
		ChunksUsed:            doc.ChunksUsed,
		Summary:               doc.Summary,
		Insights:              doc.Insights,
		Conclusion:            doc.Conclusion,
		FormattedText:         doc.FormattedText,
		GenerationTimeSeconds: doc.GenerationTimeSeconds,
		CreatedAt:             doc.CreatedAt,
		UpdatedAt:             time.Now(),
	}
	if doc.UpdatedAt != nil {
		record.UpdatedAt = *doc.UpdatedAt
	}
	return record
}

func (d storedDocument) toEntity() *entity.Document {
	updatedAt := d.UpdatedAt
	return &entity.Document{
		SessionId:             d.SessionId,
		UserPrompt:            d.UserPrompt,
		ModelId:               d.ModelId,
		ChunksUsed:            d.ChunksUsed,
		Summary:               d.Summary,
		Insights:              d.Insights,
		Conclusion:            d.Conclusion,
		FormattedText:         d.FormattedText,
		GenerationTimeSeconds: d.GenerationTimeSeconds,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             &updatedAt,
	}
}
