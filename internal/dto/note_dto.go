package dto

import (
	"time"

	"studybuddy-be/internal/entity"
)

type ProcessTextRequest struct {
	Text          string                 `json:"text" validate:"required"`
	SummaryType   string                 `json:"summaryType" validate:"omitempty,oneof=key-points tl;dr teaser headline"`
	SummaryLength string                 `json:"summaryLength" validate:"omitempty,oneof=short medium long"`
	Metadata      map[string]interface{} `json:"metadata"`
}

type ProcessImageRequest struct {
	// ImageData is a data URL or raw base64 payload.
	ImageData string                 `json:"imageData" validate:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type NoteResponse struct {
	Note *entity.Note `json:"note"`
}

type NoteListResponse struct {
	Notes []*entity.Note `json:"notes"`
	Total int            `json:"total"`
}

// NoteStatsResponse summarizes the stored note history.
type NoteStatsResponse struct {
	TotalNotes      int            `json:"totalNotes"`
	TotalConcepts   int            `json:"totalConcepts"`
	NotesByType     map[string]int `json:"notesByType"`
	LastProcessedAt *time.Time     `json:"lastProcessedAt,omitempty"`
}
