package implementation

import (
	"context"
	"errors"

	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/mapper"
	"smartdraft-be/internal/model"
	"smartdraft-be/internal/repository/contract"
	"smartdraft-be/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionStoreImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewSessionStore(db *gorm.DB) contract.SessionStore {
	return &SessionStoreImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *SessionStoreImpl) Get(ctx context.Context, sessionId string) (*entity.Document, error) {
	var m model.Document
	if err := r.db.WithContext(ctx).First(&m, "session_id = ?", sessionId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindSessionNotFound, "session not found")
		}
		return nil, errs.Wrap(errs.KindIO, "failed to read session", err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionStoreImpl) Put(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	// Upsert keyed by session_id, last writer wins.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_prompt", "model_id", "chunks_used", "summary", "insights",
			"conclusion", "formatted_text", "generation_time_seconds", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return errs.Wrap(errs.KindIO, "failed to persist session", err)
	}
	return nil
}

func (r *SessionStoreImpl) List(ctx context.Context) ([]entity.SessionSummary, error) {
	var models []*model.Document
	err := r.db.WithContext(ctx).
		Select("session_id", "user_prompt", "model_id", "updated_at").
		Order("updated_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, "failed to list sessions", err)
	}

	summaries := make([]entity.SessionSummary, len(models))
	for i, m := range models {
		summaries[i] = entity.SessionSummary{
			SessionId:  m.SessionId,
			UserPrompt: m.UserPrompt,
			ModelId:    m.ModelId,
			UpdatedAt:  m.UpdatedAt,
		}
	}
	return summaries, nil
}
