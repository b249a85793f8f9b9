package pack

import (
	"fmt"
	"strings"

	"studybuddy-be/internal/entity"
)

// Bounds applied to every artifact bundle, AI-produced or not.
const (
	maxTakeaways      = 5
	maxStudyQuestions = 6
	maxFlashcards     = 6
	maxActionSteps    = 5
)

// ArtifactsPayload is the JSON shape requested from the structured
// generation path. Field names match what the prompt asks for.
type ArtifactsPayload struct {
	Headline       string   `json:"headline"`
	Takeaways      []string `json:"takeaways"`
	StudyQuestions []string `json:"studyQuestions"`
	Flashcards     []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	} `json:"flashcards"`
	ActionSteps          []string `json:"actionSteps"`
	RecommendedBreakdown struct {
		WarmUp   string `json:"warmUp"`
		DeepDive string `json:"deepDive"`
		Review   string `json:"review"`
	} `json:"recommendedBreakdown"`
}

const artifactsPromptTemplate = `You are a study coach. Based on the summary and key concepts below, produce a study bundle.
Respond ONLY with JSON in exactly this shape:
{
  "headline": "one engaging line naming the topic",
  "takeaways": ["up to 5 key takeaways"],
  "studyQuestions": ["up to 6 open questions"],
  "flashcards": [{"front": "term or question", "back": "answer"}],
  "actionSteps": ["up to 5 concrete next steps"],
  "recommendedBreakdown": {"warmUp": "...", "deepDive": "...", "review": "..."}
}

Summary:
%s

Key concepts: %s`

func artifactsPrompt(note *entity.Note) string {
	return fmt.Sprintf(artifactsPromptTemplate, note.Summary, strings.Join(note.Concepts, ", "))
}

// FallbackArtifacts derives a complete artifact bundle purely from the
// note's summary and concepts. Every field is populated so the fast
// path never persists holes.
func FallbackArtifacts(note *entity.Note, capture *entity.Capture) entity.StudyArtifacts {
	headline := ""
	if capture != nil {
		headline = strings.TrimSpace(capture.Title)
	}
	sentences := splitSentences(note.Summary)
	if headline == "" && len(sentences) > 0 {
		headline = sentences[0]
	}
	if headline == "" {
		headline = "Study notes"
	}

	takeaways := capStrings(sentences, maxTakeaways)
	if len(takeaways) == 0 {
		takeaways = []string{strings.TrimSpace(note.Summary)}
	}

	var questions []string
	var cards []entity.Flashcard
	for _, concept := range note.Concepts {
		insight := note.ConceptInsights[concept]

		question := insight.QuestionCue
		if question == "" {
			question = fmt.Sprintf("How would you explain %s in your own words?", concept)
		}
		questions = append(questions, question)

		back := insight.KeyFact
		if back == "" {
			back = fmt.Sprintf("Understand the core idea behind %s.", concept)
		}
		cards = append(cards, entity.Flashcard{Front: concept, Back: back})
	}
	if len(questions) == 0 {
		questions = []string{"What is the main idea of this material?"}
	}
	questions = capStrings(questions, maxStudyQuestions)
	if len(cards) > maxFlashcards {
		cards = cards[:maxFlashcards]
	}

	steps := []string{
		"Re-read the summary and restate it from memory.",
		"Go through each flashcard until you can answer without flipping.",
		"Answer the study questions in writing.",
	}
	if len(note.Concepts) > 0 {
		steps = append(steps, fmt.Sprintf("Find one real example of %s outside these notes.", note.Concepts[0]))
	}
	steps = capStrings(steps, maxActionSteps)

	return entity.StudyArtifacts{
		Headline:       headline,
		Takeaways:      takeaways,
		StudyQuestions: questions,
		Flashcards:     cards,
		ActionSteps:    steps,
		RecommendedBreakdown: entity.Breakdown{
			WarmUp:   "Skim the headline and takeaways (5 min).",
			DeepDive: "Work through the flashcards and study questions (15 min).",
			Review:   "Retake the micro quiz after a day (10 min).",
		},
	}
}

// NormalizeArtifacts repairs a possibly partial or malformed AI payload
// field by field against the fallback bundle. Every field of the result
// is present and within bounds no matter what the model returned.
func NormalizeArtifacts(payload ArtifactsPayload, fallback entity.StudyArtifacts) entity.StudyArtifacts {
	out := fallback

	if headline := strings.TrimSpace(payload.Headline); headline != "" {
		out.Headline = headline
	}
	if takeaways := capStrings(cleanStrings(payload.Takeaways), maxTakeaways); len(takeaways) > 0 {
		out.Takeaways = takeaways
	}
	if questions := capStrings(cleanStrings(payload.StudyQuestions), maxStudyQuestions); len(questions) > 0 {
		out.StudyQuestions = questions
	}

	var cards []entity.Flashcard
	for _, card := range payload.Flashcards {
		front := strings.TrimSpace(card.Front)
		back := strings.TrimSpace(card.Back)
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, entity.Flashcard{Front: front, Back: back})
		if len(cards) == maxFlashcards {
			break
		}
	}
	if len(cards) > 0 {
		out.Flashcards = cards
	}

	if steps := capStrings(cleanStrings(payload.ActionSteps), maxActionSteps); len(steps) > 0 {
		out.ActionSteps = steps
	}

	if warmUp := strings.TrimSpace(payload.RecommendedBreakdown.WarmUp); warmUp != "" {
		out.RecommendedBreakdown.WarmUp = warmUp
	}
	if deepDive := strings.TrimSpace(payload.RecommendedBreakdown.DeepDive); deepDive != "" {
		out.RecommendedBreakdown.DeepDive = deepDive
	}
	if review := strings.TrimSpace(payload.RecommendedBreakdown.Review); review != "" {
		out.RecommendedBreakdown.Review = review
	}

	return out
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	var sentences []string
	for _, part := range parts {
		part = strings.TrimSpace(strings.TrimLeft(part, "-*# "))
		if len(part) > 10 {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

func cleanStrings(values []string) []string {
	var out []string
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func capStrings(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
