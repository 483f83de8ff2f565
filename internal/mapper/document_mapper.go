package mapper

import (
	"encoding/json"
	"time"

	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/model"

	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	insights, err := json.Marshal(e.Insights)
	if err != nil {
		insights = []byte("[]")
	}

	doc := &model.Document{
		SessionId:             e.SessionId,
		UserPrompt:            e.UserPrompt,
		ModelId:               e.ModelId,
		ChunksUsed:            e.ChunksUsed,
		Summary:               e.Summary,
		Insights:              datatypes.JSON(insights),
		Conclusion:            e.Conclusion,
		FormattedText:         e.FormattedText,
		GenerationTimeSeconds: e.GenerationTimeSeconds,
		CreatedAt:             e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		doc.UpdatedAt = *e.UpdatedAt
	}
	return doc
}

func (m *DocumentMapper) ToEntity(md *model.Document) *entity.Document {
	var insights []string
	if len(md.Insights) > 0 {
		// tolerate rows written before the insights column was jsonb
		_ = json.Unmarshal(md.Insights, &insights)
	}

	var updatedAt *time.Time
	if !md.UpdatedAt.IsZero() {
		t := md.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		SessionId:             md.SessionId,
		UserPrompt:            md.UserPrompt,
		ModelId:               md.ModelId,
		ChunksUsed:            md.ChunksUsed,
		Summary:               md.Summary,
		Insights:              insights,
		Conclusion:            md.Conclusion,
		FormattedText:         md.FormattedText,
		GenerationTimeSeconds: md.GenerationTimeSeconds,
		CreatedAt:             md.CreatedAt,
		UpdatedAt:             updatedAt,
	}
}
