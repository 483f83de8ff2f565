package dto

import (
	"time"

	"smartdraft-be/pkg/retrieval"
	"smartdraft-be/pkg/sysmon"
)

type GenerateRequest struct {
	SessionId  string `json:"session_id"`
	Prompt     string `json:"prompt" validate:"required"`
	ModelId    string `json:"model_id"`
	ChunkCount int    `json:"chunk_count" validate:"omitempty,min=1,max=10"`
}

type GenerateResponse struct {
	SessionId             string            `json:"session_id"`
	Document              *DocumentResponse `json:"document"`
	Chunks                []retrieval.Chunk `json:"chunks"`
	CacheHit              bool              `json:"cache_hit"`
	MemoryWarning         string            `json:"memory_warning,omitempty"`
	GenerationTimeSeconds float64           `json:"generation_time_seconds"`
}

type DocumentResponse struct {
	SessionId             string     `json:"session_id"`
	UserPrompt            string     `json:"user_prompt"`
	ModelId               string     `json:"model_id"`
	ChunksUsed            int        `json:"chunks_used"`
	Summary               string     `json:"summary"`
	Insights              []string   `json:"insights"`
	Conclusion            string     `json:"conclusion"`
	FormattedText         string     `json:"formatted_text"`
	GenerationTimeSeconds float64    `json:"generation_time_seconds"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at"`
}

type SaveSessionRequest struct {
	Summary       string   `json:"summary"`
	Insights      []string `json:"insights"`
	Conclusion    string   `json:"conclusion"`
	FormattedText string   `json:"formatted_text"`
}

type EditSessionRequest struct {
	Summary       string   `json:"summary"`
	Insights      []string `json:"insights"`
	Conclusion    string   `json:"conclusion"`
	FormattedText string   `json:"formatted_text"`
}

type SessionSummaryResponse struct {
	SessionId  string    `json:"session_id"`
	UserPrompt string    `json:"user_prompt"`
	ModelId    string    `json:"model_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type StatusResponse struct {
	Memory     sysmon.Report  `json:"memory"`
	CacheStats map[string]int `json:"cache_stats"`
	Models     []string       `json:"models"`
}
