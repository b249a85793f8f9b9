// Package quiz turns a note's concepts into typed question records.
// Questions come from the capability manager when it can serve them and
// from deterministic templates otherwise; a generated quiz is never
// empty.
package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/pkg/capability"
)

var (
	ErrNoConceptsAvailable  = goerr.New("note has no concepts to quiz on")
	ErrNoQuestionsGenerated = goerr.New("no valid questions could be generated")
)

// Caller-facing question type names, round-robined over by index.
const (
	TypeMultipleChoice = "multipleChoice"
	TypeTrueFalse      = "trueFalse"
	TypeShortAnswer    = "shortAnswer"
)

// Options configures one quiz generation.
type Options struct {
	QuestionCount int
	Difficulty    string
	QuestionTypes []string
}

func (o Options) withDefaults() Options {
	if o.QuestionCount <= 0 {
		o.QuestionCount = 5
	}
	if o.Difficulty == "" {
		o.Difficulty = entity.DifficultyMedium
	}
	if len(o.QuestionTypes) == 0 {
		o.QuestionTypes = []string{TypeMultipleChoice, TypeTrueFalse, TypeShortAnswer}
	}
	return o
}

type Generator struct {
	manager *capability.Manager
	log     logger.ILogger
}

func NewGenerator(manager *capability.Manager, log logger.ILogger) *Generator {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Generator{manager: manager, log: log}
}

// Generate builds a quiz from the note's concepts, trying the AI path
// per concept and skipping concepts whose generation fails. The result
// may hold fewer questions than requested but never zero.
func (g *Generator) Generate(ctx context.Context, note *entity.Note, opts Options) (*entity.Quiz, error) {
	return g.generate(ctx, note, opts, false)
}

// GenerateLocal is Generate with the AI path forcibly skipped; every
// question comes from the deterministic templates.
func (g *Generator) GenerateLocal(ctx context.Context, note *entity.Note, opts Options) (*entity.Quiz, error) {
	return g.generate(ctx, note, opts, true)
}

func (g *Generator) generate(ctx context.Context, note *entity.Note, opts Options, localOnly bool) (*entity.Quiz, error) {
	if note == nil || len(note.Concepts) == 0 {
		return nil, ErrNoConceptsAvailable
	}
	opts = opts.withDefaults()

	g.log.Info("quiz-generator", "generating quiz", map[string]interface{}{
		"note_id":        note.Id,
		"concepts":       len(note.Concepts),
		"question_count": opts.QuestionCount,
		"difficulty":     opts.Difficulty,
		"local_only":     localOnly,
	})

	quiz := &entity.Quiz{
		Id:           GenerateQuizId(),
		SourceNoteId: note.Id,
		Title:        quizTitle(note.Summary, localOnly),
		Difficulty:   opts.Difficulty,
		CreatedAt:    time.Now(),
		IsLocal:      localOnly,
	}

	concepts := selectConcepts(note.Concepts, opts.QuestionCount)
	for i, concept := range concepts {
		questionType := opts.QuestionTypes[i%len(opts.QuestionTypes)]
		insight := note.ConceptInsights[concept]

		var question *entity.Question
		if localOnly {
			question = localQuestion(concept, insight, questionType, opts.Difficulty)
		} else {
			// A failed generation skips this concept; the quiz may come
			// out shorter than requested.
			question = g.generateAIQuestion(ctx, concept, insight, questionType, opts.Difficulty)
		}
		if question == nil {
			g.log.Warn("quiz-generator", "no question produced for concept", map[string]interface{}{
				"concept": concept,
				"type":    questionType,
			})
			continue
		}

		question.Id = fmt.Sprintf("q_%d", len(quiz.Questions)+1)
		question.Concept = concept
		quiz.Questions = append(quiz.Questions, *question)
	}

	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestionsGenerated
	}

	g.log.Info("quiz-generator", "quiz generated", map[string]interface{}{
		"quiz_id":   quiz.Id,
		"questions": len(quiz.Questions),
	})
	return quiz, nil
}

// questionPayload is the JSON shape requested from the structured
// generation path.
type questionPayload struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	AnswerKey     string   `json:"answerKey,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

var difficultyGuidance = map[string]string{
	entity.DifficultyEasy:   "Make this question straightforward and basic. Use simple language.",
	entity.DifficultyMedium: "Make this question moderately challenging. Include some nuance.",
	entity.DifficultyHard:   "Make this question challenging and thought-provoking. Test deep understanding.",
}

// generateAIQuestion asks the manager for one structured question. A
// failed or empty result returns nil; the caller skips or falls back.
func (g *Generator) generateAIQuestion(ctx context.Context, concept string, insight entity.ConceptInsight, questionType, difficulty string) *entity.Question {
	var prompt strings.Builder
	switch questionType {
	case TypeMultipleChoice:
		fmt.Fprintf(&prompt, `Generate a multiple choice question about "%s".
Respond ONLY with JSON:
{"question": "...", "options": ["...", "...", "...", "..."], "correctAnswer": "A", "explanation": "..."}
The options array must have exactly 4 entries and correctAnswer must be the letter (A-D) of the right one.`, concept)
	case TypeTrueFalse:
		fmt.Fprintf(&prompt, `Generate a true/false question about "%s".
Respond ONLY with JSON:
{"question": "...", "correctAnswer": "true", "explanation": "..."}
correctAnswer must be "true" or "false".`, concept)
	case TypeShortAnswer:
		fmt.Fprintf(&prompt, `Generate a short answer question about "%s".
Respond ONLY with JSON:
{"question": "...", "answerKey": "...", "explanation": "..."}`, concept)
	default:
		return nil
	}
	if insight.KeyFact != "" {
		fmt.Fprintf(&prompt, "\nKey fact to build on: %s", insight.KeyFact)
	}
	if insight.QuestionCue != "" {
		fmt.Fprintf(&prompt, "\nSuggested angle: %s", insight.QuestionCue)
	}
	guidance, ok := difficultyGuidance[difficulty]
	if !ok {
		guidance = difficultyGuidance[entity.DifficultyMedium]
	}
	fmt.Fprintf(&prompt, "\nDifficulty level: %s", guidance)

	payload := capability.RequestStructuredJSON(ctx, g.manager, prompt.String(), func() questionPayload {
		return questionPayload{}
	})
	return buildQuestion(payload, concept, questionType)
}

// buildQuestion validates the structured payload into a Question,
// returning nil on anything that fails the per-type shape checks.
func buildQuestion(payload questionPayload, concept, questionType string) *entity.Question {
	question := strings.TrimSpace(payload.Question)
	if question == "" {
		return nil
	}

	explanation := strings.TrimSpace(payload.Explanation)
	if explanation == "" {
		explanation = "Concept: " + concept
	}

	switch questionType {
	case TypeMultipleChoice:
		if len(payload.Options) != 4 {
			return nil
		}
		answer := strings.ToUpper(strings.TrimSpace(payload.CorrectAnswer))
		if len(answer) != 1 || answer < "A" || answer > "D" {
			return nil
		}
		return &entity.Question{
			Type:          entity.QuestionTypeMultipleChoice,
			Question:      question,
			Options:       payload.Options,
			CorrectAnswer: answer,
			Explanation:   explanation,
		}
	case TypeTrueFalse:
		answer := strings.ToLower(strings.TrimSpace(payload.CorrectAnswer))
		if answer != "true" && answer != "false" {
			return nil
		}
		return &entity.Question{
			Type:          entity.QuestionTypeTrueFalse,
			Question:      question,
			CorrectAnswer: answer,
			Explanation:   explanation,
		}
	case TypeShortAnswer:
		key := strings.TrimSpace(payload.AnswerKey)
		if key == "" {
			return nil
		}
		return &entity.Question{
			Type:        entity.QuestionTypeShortAnswer,
			Question:    question,
			AnswerKey:   key,
			Explanation: explanation,
		}
	}
	return nil
}

// selectConcepts returns all concepts when they fit, otherwise a
// uniformly shuffled prefix so repeated generations quiz different
// concepts.
func selectConcepts(concepts []string, questionCount int) []string {
	if len(concepts) <= questionCount {
		return concepts
	}
	shuffled := make([]string, len(concepts))
	copy(shuffled, concepts)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:questionCount]
}

func quizTitle(summary string, local bool) string {
	prefix := "Quiz"
	if local {
		prefix = "Quiz (offline)"
	}
	trimmed := strings.TrimSpace(summary)
	if trimmed == "" {
		return prefix
	}
	runes := []rune(trimmed)
	if len(runes) > 50 {
		return fmt.Sprintf("%s - %s...", prefix, string(runes[:50]))
	}
	return fmt.Sprintf("%s - %s", prefix, trimmed)
}

// GenerateQuizId builds a timestamp-plus-random-suffix id, same scheme
// as note ids.
func GenerateQuizId() string {
	return fmt.Sprintf("quiz_%d_%s", time.Now().UnixMilli(), randomSuffix(9))
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(buf)
}
