package entity

import "time"

// NoteType tells which capture surface a note came from.
const (
	NoteTypeText  = "text"
	NoteTypeImage = "image"
	NoteTypeWeb   = "web"
)

// ConceptInsight is the per-concept study hint extracted alongside the
// concept list.
type ConceptInsight struct {
	Concept     string `json:"concept"`
	KeyFact     string `json:"keyFact"`
	QuestionCue string `json:"questionCue"`
}

// TranslationInfo records an applied translation. Absent when the note was
// processed in its source language.
type TranslationInfo struct {
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
	TranslatedText string `json:"translatedText"`
}

// Note is the normalized result of processing raw text or image input:
// summary, relevance-ordered unique concepts and per-concept insights.
// Immutable after creation apart from the one-time metadata merge; removed
// only by explicit deletion from history.
type Note struct {
	Id              string                    `json:"id"`
	OriginalText    string                    `json:"originalText"`
	Summary         string                    `json:"summary"`
	Concepts        []string                  `json:"concepts"`
	ConceptInsights map[string]ConceptInsight `json:"conceptInsights"`
	SourceLanguage  string                    `json:"sourceLanguage,omitempty"`
	TargetLanguage  string                    `json:"targetLanguage,omitempty"`
	Translation     *TranslationInfo          `json:"translation,omitempty"`
	Type            string                    `json:"type"`
	ImageData       string                    `json:"imageData,omitempty"`
	ProcessedAt     time.Time                 `json:"processedAt"`
	Metadata        map[string]interface{}    `json:"metadata,omitempty"`
}
