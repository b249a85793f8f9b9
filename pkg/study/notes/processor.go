// Package notes turns raw text or image input into normalized study
// notes: a summary, a relevance-ordered concept list, and per-concept
// insights produced through the capability manager.
package notes

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/pkg/capability"
)

const (
	// MinInputLength is the floor below which input is rejected without
	// touching any capability.
	MinInputLength = 50

	// maxInputLength bounds what is sent to capability calls. Material
	// beyond the cutoff is not summarized.
	maxInputLength = 10000
)

var (
	ErrInputTooShort         = goerr.New("notes too short, minimum 50 characters")
	ErrExtractedTextTooShort = goerr.New("text extracted from image is too short to process")
	ErrSummarizationFailed   = goerr.New("could not produce a summary for the notes")
)

// Options carries per-call overrides for note processing.
type Options struct {
	SummarizerOptions capability.SummarizerOptions
	Metadata          map[string]interface{}
}

type Processor struct {
	manager *capability.Manager
	log     logger.ILogger
}

func NewProcessor(manager *capability.Manager, log logger.ILogger) *Processor {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Processor{manager: manager, log: log}
}

// ProcessText builds a Note from raw text. The text is trimmed,
// validated against the 50-character floor, truncated to the input
// bound, then summarized and mined for concepts. Concepts are extracted
// from the summary rather than the raw text to keep the extraction
// prompt small.
func (p *Processor) ProcessText(ctx context.Context, text string, opts Options) (*entity.Note, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < MinInputLength {
		return nil, goerr.Wrap(ErrInputTooShort, "input validation failed", goerr.V("length", utf8.RuneCountInString(trimmed)))
	}
	truncated := truncateRunes(trimmed, maxInputLength)

	p.log.Info("note-processor", "processing text notes", map[string]interface{}{
		"length": len(truncated),
	})

	summary := p.manager.Summarize(ctx, truncated, opts.SummarizerOptions)
	if strings.TrimSpace(summary) == "" {
		return nil, ErrSummarizationFailed
	}

	extraction := p.manager.ExtractConcepts(ctx, summary, capability.LanguageModelOptions{})

	note := &entity.Note{
		Id:              GenerateNoteId(),
		OriginalText:    truncated,
		Summary:         summary,
		Concepts:        extraction.Concepts,
		ConceptInsights: extraction.Insights,
		Type:            entity.NoteTypeText,
		ProcessedAt:     time.Now(),
	}
	if len(opts.Metadata) > 0 {
		note.Metadata = make(map[string]interface{}, len(opts.Metadata))
		for key, value := range opts.Metadata {
			note.Metadata[key] = value
		}
	}

	p.log.Info("note-processor", "notes processed", map[string]interface{}{
		"note_id":  note.Id,
		"concepts": len(note.Concepts),
	})
	return note, nil
}

// ProcessImage extracts text from a data-URL image and delegates to
// ProcessText, marking the result as an image note. Extraction errors
// propagate since OCR has no deterministic fallback.
func (p *Processor) ProcessImage(ctx context.Context, imageData string, opts Options) (*entity.Note, error) {
	if imageData == "" {
		return nil, goerr.New("image data is required")
	}

	p.log.Info("note-processor", "processing image notes", nil)

	extracted, err := p.manager.ExtractTextFromImage(ctx, imageData)
	if err != nil {
		return nil, goerr.Wrap(err, "image text extraction failed")
	}
	if utf8.RuneCountInString(strings.TrimSpace(extracted)) < MinInputLength {
		return nil, goerr.Wrap(ErrExtractedTextTooShort, "image yielded too little text",
			goerr.V("length", utf8.RuneCountInString(strings.TrimSpace(extracted))))
	}

	note, err := p.ProcessText(ctx, extracted, opts)
	if err != nil {
		return nil, err
	}
	note.Type = entity.NoteTypeImage
	note.ImageData = imageData
	return note, nil
}

// GenerateNoteId builds a timestamp-plus-random-suffix id. Uniqueness
// is best effort; ids only key a single user's records.
func GenerateNoteId() string {
	return fmt.Sprintf("note_%d_%s", time.Now().UnixMilli(), randomSuffix(9))
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(buf)
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
