package entity

import "time"

// Flashcard is one front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Breakdown suggests how to split a study session.
type Breakdown struct {
	WarmUp   string `json:"warmUp"`
	DeepDive string `json:"deepDive"`
	Review   string `json:"review"`
}

// StudyArtifacts is the learning bundle attached to a pack. Every field is
// always present and bounded; artifacts arriving from a model are merged
// over a deterministic fallback set so readers never see holes.
type StudyArtifacts struct {
	Headline             string      `json:"headline"`
	Takeaways            []string    `json:"takeaways"`
	StudyQuestions       []string    `json:"studyQuestions"`
	Flashcards           []Flashcard `json:"flashcards"`
	ActionSteps          []string    `json:"actionSteps"`
	RecommendedBreakdown Breakdown   `json:"recommendedBreakdown"`
}

// StudyMetrics describes the captured source text.
type StudyMetrics struct {
	ExtractedWordCount          int `json:"extractedWordCount"`
	EstimatedReadingTimeMinutes int `json:"estimatedReadingTimeMinutes"`
}

// StudySource identifies where a pack was captured from.
type StudySource struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
}

// StudyPack bundles a processed note with generated learning artifacts and
// an optional preview quiz. Created once per capture; its artifacts may be
// upgraded in place afterwards without changing the pack id.
type StudyPack struct {
	Id          string         `json:"id"`
	GeneratedAt time.Time      `json:"generatedAt"`
	NoteId      string         `json:"noteId"`
	Summary     string         `json:"summary"`
	Concepts    []string       `json:"concepts"`
	Metrics     StudyMetrics   `json:"metrics"`
	Source      StudySource    `json:"source"`
	Artifacts   StudyArtifacts `json:"artifacts"`
	MicroQuiz   []Question     `json:"microQuiz,omitempty"`
}

// Capture is the raw page payload handed over by the capture surface.
type Capture struct {
	Title            string   `json:"title"`
	URL              string   `json:"url"`
	TextContent      string   `json:"textContent"`
	Headings         []string `json:"headings,omitempty"`
	MetaDescription  string   `json:"metaDescription,omitempty"`
	Language         string   `json:"language,omitempty"`
	WordCount        int      `json:"wordCount,omitempty"`
	SelectionPreview string   `json:"selectionPreview,omitempty"`
	Snippets         []string `json:"snippets,omitempty"`
}
