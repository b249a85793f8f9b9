// Package pack composes notes, quizzes and structured generation into a
// study pack bundle. Packs follow a fast-then-better model: a pack
// built entirely from deterministic fallbacks is returned immediately,
// and AI-enriched snapshots of the same pack arrive later on an upgrade
// channel.
package pack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/pkg/capability"
	"studybuddy-be/pkg/study/notes"
	"studybuddy-be/pkg/study/quiz"
)

var ErrNoReadableText = goerr.New("capture contains no readable text")

const microQuizSize = 3

// Result is the two-phase outcome of a pack build. Immediate is always
// a complete, valid pack; Upgrade delivers zero or more improved
// snapshots sharing Immediate's id, then closes. Each snapshot strictly
// supersedes the previous one.
type Result struct {
	Immediate *entity.StudyPack
	Note      *entity.Note
	Upgrade   <-chan *entity.StudyPack
}

// QuizResult is the two-phase outcome of racing quiz generation.
type QuizResult struct {
	Immediate *entity.Quiz
	Upgrade   <-chan *entity.Quiz
}

type Builder struct {
	notes   *notes.Processor
	quizzes *quiz.Generator
	manager *capability.Manager
	log     logger.ILogger
}

func NewBuilder(processor *notes.Processor, generator *quiz.Generator, manager *capability.Manager, log logger.ILogger) *Builder {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Builder{notes: processor, quizzes: generator, manager: manager, log: log}
}

// BuildFromCapture turns a captured page into a study pack. Quiz
// generation is best effort: the AI and local paths race, and if both
// fail the pack simply ships without a micro quiz. Artifact enrichment
// runs after the immediate pack is assembled and lands on the Upgrade
// channel.
func (b *Builder) BuildFromCapture(ctx context.Context, capture entity.Capture, quizOpts quiz.Options) (Result, error) {
	text := strings.TrimSpace(capture.TextContent)
	if text == "" {
		return Result{}, ErrNoReadableText
	}

	note, err := b.notes.ProcessText(ctx, text, notes.Options{
		Metadata: map[string]interface{}{
			"sourceUrl":   capture.URL,
			"sourceTitle": capture.Title,
		},
	})
	if err != nil {
		return Result{}, err
	}
	note.Type = entity.NoteTypeWeb

	quizResult := b.CreateQuizWithFastFallback(ctx, note, quizOpts)

	studyPack := &entity.StudyPack{
		Id:          GeneratePackId(),
		GeneratedAt: time.Now(),
		NoteId:      note.Id,
		Summary:     note.Summary,
		Concepts:    note.Concepts,
		Metrics:     captureMetrics(capture, text),
		Source: entity.StudySource{
			Title:    capture.Title,
			URL:      capture.URL,
			Language: capture.Language,
		},
		Artifacts: FallbackArtifacts(note, &capture),
		MicroQuiz: microQuiz(quizResult.Immediate),
	}

	upgrade := make(chan *entity.StudyPack, 2)
	// The upgrade phase outlives the request that triggered the build,
	// so it must not die with the caller's context.
	go b.upgradePack(context.WithoutCancel(ctx), studyPack, note, quizResult.Upgrade, upgrade)

	b.log.Info("study-pack", "pack built", map[string]interface{}{
		"pack_id":    studyPack.Id,
		"note_id":    note.Id,
		"micro_quiz": len(studyPack.MicroQuiz),
	})
	return Result{Immediate: studyPack, Note: note, Upgrade: upgrade}, nil
}

// upgradePack computes the AI artifact bundle and forwards a late
// AI-generated quiz, emitting an upgraded snapshot of the pack for
// each. Snapshots keep the original pack id.
func (b *Builder) upgradePack(ctx context.Context, base *entity.StudyPack, note *entity.Note, quizUpgrade <-chan *entity.Quiz, out chan<- *entity.StudyPack) {
	defer close(out)

	current := *base

	fallback := current.Artifacts
	enriched := NormalizeArtifacts(
		capability.RequestStructuredJSON(ctx, b.manager, artifactsPrompt(note), func() ArtifactsPayload {
			return ArtifactsPayload{}
		}),
		fallback,
	)
	if !artifactsEqual(enriched, fallback) {
		current.Artifacts = enriched
		snapshot := current
		out <- &snapshot
		b.log.Info("study-pack", "artifacts upgraded", map[string]interface{}{
			"pack_id": current.Id,
		})
	}

	if upgraded, ok := <-quizUpgrade; ok && upgraded != nil {
		current.MicroQuiz = microQuiz(upgraded)
		snapshot := current
		out <- &snapshot
		b.log.Info("study-pack", "micro quiz upgraded", map[string]interface{}{
			"pack_id": current.Id,
			"quiz_id": upgraded.Id,
		})
	}
}

// CreateQuizWithFastFallback races AI and local quiz generation. The
// first non-empty result wins; if the first to resolve produced
// nothing, the other attempt is awaited before giving up. When the
// local path wins, the still-running AI attempt feeds the Upgrade
// channel.
func (b *Builder) CreateQuizWithFastFallback(ctx context.Context, note *entity.Note, opts quiz.Options) QuizResult {
	aiCh := make(chan *entity.Quiz, 1)
	localCh := make(chan *entity.Quiz, 1)

	go func() {
		// A late AI result feeds the upgrade channel after the caller
		// has already responded, so this attempt is detached too.
		generated, err := b.quizzes.Generate(context.WithoutCancel(ctx), note, opts)
		if err != nil {
			b.log.Warn("study-pack", "quiz generation failed", map[string]interface{}{
				"note_id": note.Id,
				"error":   err.Error(),
			})
			generated = nil
		}
		aiCh <- generated
	}()
	go func() {
		generated, err := b.quizzes.GenerateLocal(ctx, note, opts)
		if err != nil {
			b.log.Warn("study-pack", "local quiz generation failed", map[string]interface{}{
				"note_id": note.Id,
				"error":   err.Error(),
			})
			generated = nil
		}
		localCh <- generated
	}()

	upgrade := make(chan *entity.Quiz, 1)

	select {
	case generated := <-aiCh:
		if generated == nil {
			generated = <-localCh
		}
		close(upgrade)
		return QuizResult{Immediate: generated, Upgrade: upgrade}
	case generated := <-localCh:
		if generated == nil {
			generated = <-aiCh
			close(upgrade)
			return QuizResult{Immediate: generated, Upgrade: upgrade}
		}
		go func() {
			if better := <-aiCh; better != nil {
				upgrade <- better
			}
			close(upgrade)
		}()
		return QuizResult{Immediate: generated, Upgrade: upgrade}
	}
}

func microQuiz(generated *entity.Quiz) []entity.Question {
	if generated == nil {
		return nil
	}
	questions := generated.Questions
	if len(questions) > microQuizSize {
		questions = questions[:microQuizSize]
	}
	return questions
}

func captureMetrics(capture entity.Capture, text string) entity.StudyMetrics {
	words := capture.WordCount
	if words == 0 {
		words = len(strings.Fields(text))
	}
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return entity.StudyMetrics{
		ExtractedWordCount:          words,
		EstimatedReadingTimeMinutes: minutes,
	}
}

func artifactsEqual(a, b entity.StudyArtifacts) bool {
	if a.Headline != b.Headline || a.RecommendedBreakdown != b.RecommendedBreakdown {
		return false
	}
	if !stringSlicesEqual(a.Takeaways, b.Takeaways) ||
		!stringSlicesEqual(a.StudyQuestions, b.StudyQuestions) ||
		!stringSlicesEqual(a.ActionSteps, b.ActionSteps) {
		return false
	}
	if len(a.Flashcards) != len(b.Flashcards) {
		return false
	}
	for i := range a.Flashcards {
		if a.Flashcards[i] != b.Flashcards[i] {
			return false
		}
	}
	return true
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GeneratePackId builds a timestamp id with a random uuid suffix.
func GeneratePackId() string {
	return fmt.Sprintf("pack_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
