package model

import (
	"time"

	"gorm.io/datatypes"
)

type Document struct {
	SessionId             string         `gorm:"type:text;primaryKey"`
	UserPrompt            string         `gorm:"type:text;not null"`
	ModelId               string         `gorm:"type:text;not null"`
	ChunksUsed            int            `gorm:"default:0"`
	Summary               string         `gorm:"type:text"`
	Insights              datatypes.JSON `gorm:"type:jsonb"`
	Conclusion            string         `gorm:"type:text"`
	FormattedText         string         `gorm:"type:text"`
	GenerationTimeSeconds float64        `gorm:"default:0"`
	CreatedAt             time.Time      `gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime;index"`
}

func (Document) TableName() string {
	return "documents"
}
