package entity

import (
	"time"
)

// Document is a generated draft owned by exactly one editing session.
// Summary, Insights and Conclusion are the structured fields the model output
// was parsed into; FormattedText is the authoritative rendered form and the
// only field the editing client mutates after generation.
type Document struct {
	SessionId             string
	UserPrompt            string
	ModelId               string
	ChunksUsed            int
	Summary               string
	Insights              []string
	Conclusion            string
	FormattedText         string
	GenerationTimeSeconds float64
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

// Clone returns an independent copy of the document. Insights and UpdatedAt
// are duplicated rather than shared, so mutating the copy never touches the
// original.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Insights != nil {
		out.Insights = append([]string(nil), d.Insights...)
	}
	if d.UpdatedAt != nil {
		ts := *d.UpdatedAt
		out.UpdatedAt = &ts
	}
	return &out
}

// SessionSummary is the listing projection of a stored document.
type SessionSummary struct {
	SessionId  string
	UserPrompt string
	ModelId    string
	UpdatedAt  time.Time
}
